package shape

import (
	"reflect"

	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/record"
)

// Shape is the compiled coding plan for one Go type.
type Shape struct {
	GoType        reflect.Type
	Elem          *Shape // wrapper target, sequence/set element, map value
	Key           *Shape // map key
	Record        *record.Schema
	Enum          *enum.Schema
	Custom        *Coder
	Discriminator string
	Fields        []Field       // record fields or tuple elements
	Alternatives  []Alternative // tagged union or sum members
	Kind          Kind
}

// Field is one record field or tuple element.
type Field struct {
	Shape    *Shape
	Name     string
	Index    int // struct field index, or array index for array tuples
	Required bool
}

// Alternative is one member of a tagged union or sum.
type Alternative struct {
	Shape *Shape
	// Enum lists the discriminator values the alternative accepts. Nil
	// for sums.
	Enum *enum.Schema
}

// Coder is a type-erased custom coder. Builtin coders are schema
// defaults and give way to a backend's native hook for the same type.
type Coder struct {
	Decode  func(r document.Reader, n document.Node) (reflect.Value, error)
	Encode  func(w document.Writer, v reflect.Value) (document.Node, error)
	Builtin bool
}

// Overrides reports whether the shape is a user-registered custom coder,
// which takes precedence over backend hooks.
func (s *Shape) Overrides() bool {
	return s.Kind == KindCustom && !s.Custom.Builtin
}

// Alternative returns the member whose Go type is exactly t.
func (s *Shape) Alternative(t reflect.Type) (Alternative, bool) {
	for _, a := range s.Alternatives {
		if a.Shape.GoType == t {
			return a, true
		}
	}
	return Alternative{}, false
}

// Arity returns the number of tuple elements.
func (s *Shape) Arity() int {
	return len(s.Fields)
}

// IsArray reports whether the shape is a tuple backed by a Go array.
func (s *Shape) IsArray() bool {
	return s.Kind == KindTuple && s.GoType.Kind() == reflect.Array
}
