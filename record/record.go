// Package record derives ordered field schemas from Go struct types.
//
// A record schema lists a struct's exported fields in declaration order
// under their document names. The name comes from the `codec` struct tag
// when present, otherwise from the Naming strategy; `codec:"-"` skips a
// field. Unexported fields are never part of the schema.
//
//	type User struct {
//	    ID       int64  `codec:"id"`
//	    FullName string // "full_name" under NamingSnake
//	    cache    []byte // skipped
//	}
//
// Embedded structs are treated as ordinary fields named after their type.
package record

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
)

// TagName is the struct tag consulted for field names.
const TagName = "codec"

// Field describes one record field.
type Field struct {
	Type     reflect.Type
	Name     string // document name
	GoName   string
	Index    int  // struct field index
	Required bool // false for pointer and Option fields
}

// Schema is the immutable field layout of one struct type under one
// naming strategy.
type Schema struct {
	goType reflect.Type
	index  map[string]int
	fields []Field
	naming Naming
}

type cacheKey struct {
	t      reflect.Type
	naming Naming
}

var schemas sync.Map // cacheKey -> *Schema

// Of returns the schema of struct type t. Schemas are cached per type and
// naming strategy.
func Of(t reflect.Type, naming Naming) (*Schema, error) {
	key := cacheKey{t: t, naming: naming}
	if s, ok := schemas.Load(key); ok {
		return s.(*Schema), nil
	}
	s, err := build(t, naming)
	if err != nil {
		return nil, err
	}
	actual, _ := schemas.LoadOrStore(key, s)
	return actual.(*Schema), nil
}

// For returns the schema of T.
func For[T any](naming Naming) (*Schema, error) {
	return Of(reflect.TypeOf((*T)(nil)).Elem(), naming)
}

func build(t reflect.Type, naming Naming) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidSchema).
			GoType(t.String()).
			Detail("record type must be a struct, got %s", t.Kind()).
			Build()
	}

	s := &Schema{
		goType: t,
		naming: naming,
		index:  make(map[string]int, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := fieldName(sf, naming)
		if skip {
			continue
		}
		if _, dup := s.index[name]; dup {
			err := errors.DuplicateName("field", name)
			err.GoType = t.String()
			return nil, err
		}
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, Field{
			Type:     sf.Type,
			Name:     name,
			GoName:   sf.Name,
			Index:    i,
			Required: !IsOptional(sf.Type),
		})
	}
	return s, nil
}

func fieldName(sf reflect.StructField, naming Naming) (name string, skip bool) {
	tag, ok := sf.Tag.Lookup(TagName)
	if ok {
		tag, _, _ = strings.Cut(tag, ",")
		if tag == "-" {
			return "", true
		}
		if tag != "" {
			return tag, false
		}
	}
	return naming.Apply(sf.Name), false
}

// IsOptional reports whether a field of type t may be absent from a
// document.
func IsOptional(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || optional.IsOption(t)
}

// Type returns the struct type.
func (s *Schema) Type() reflect.Type { return s.goType }

// Naming returns the strategy the schema was built with.
func (s *Schema) Naming() Naming { return s.naming }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns field i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the document names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the position of the field with document name name.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// View returns the field values of v, a value of the schema's struct
// type, in schema order.
func (s *Schema) View(v reflect.Value) []reflect.Value {
	out := make([]reflect.Value, len(s.fields))
	for i, f := range s.fields {
		out[i] = v.Field(f.Index)
	}
	return out
}

// Build assembles a struct value from field values in schema order.
// Build(View(v)) equals v on every schema field; fields outside the
// schema are zero.
func (s *Schema) Build(values []reflect.Value) (reflect.Value, error) {
	if len(values) != len(s.fields) {
		return reflect.Value{}, fmt.Errorf("record %s: expected %d values, got %d", s.goType, len(s.fields), len(values))
	}
	out := reflect.New(s.goType).Elem()
	for i, f := range s.fields {
		if !values[i].IsValid() {
			continue
		}
		out.Field(f.Index).Set(values[i])
	}
	return out, nil
}
