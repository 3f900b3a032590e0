package enum

import (
	"reflect"

	"github.com/wippyai/shapecodec/errors"
)

// Literal is a value of the closed member set M. The zero Literal holds
// the first declared member.
type Literal[M Members] struct {
	code uint16
}

// Member is implemented by every Literal. The codec engine reaches
// enumerations of any member set through it.
type Member interface {
	Schema() *Schema
	MemberSchema() (*Schema, error)
	String() string
	Value() int
}

// Setter is implemented by *Literal.
type Setter interface {
	Set(name string) error
}

var (
	memberType = reflect.TypeOf((*Member)(nil)).Elem()
	setterType = reflect.TypeOf((*Setter)(nil)).Elem()
)

// IsLiteral reports whether t is a Literal type.
func IsLiteral(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.Implements(memberType) &&
		reflect.PointerTo(t).Implements(setterType)
}

// FromString returns the member named s.
func FromString[M Members](s string) (Literal[M], error) {
	code, err := mustSchema[M]().Parse(s)
	if err != nil {
		return Literal[M]{}, err
	}
	return Literal[M]{code: uint16(code)}, nil
}

// Make returns the member named s and panics if s is not a member. Use it
// for names known when the program is written.
func Make[M Members](s string) Literal[M] {
	l, err := FromString[M](s)
	if err != nil {
		panic(err)
	}
	return l
}

// Contains reports whether s is a member of M.
func Contains[M Members](s string) bool {
	return mustSchema[M]().Contains(s)
}

// ContainsAny reports whether A and B share a member.
func ContainsAny[A, B Members]() bool {
	return mustSchema[A]().ContainsAny(mustSchema[B]())
}

// ContainsAll reports whether every member of B is a member of A.
func ContainsAll[A, B Members]() bool {
	return mustSchema[A]().ContainsAll(mustSchema[B]())
}

// NameOf returns the member of M with the given code.
func NameOf[M Members](code int) string {
	return mustSchema[M]().Name(code)
}

// ValueOf returns the code of name in M.
func ValueOf[M Members](name string) (int, bool) {
	return mustSchema[M]().Index(name)
}

// Names returns the members of M in declaration order.
func Names[M Members]() []string {
	return mustSchema[M]().Names()
}

// Schema returns the member set of l.
func (l Literal[M]) Schema() *Schema {
	return mustSchema[M]()
}

// MemberSchema returns the member set of l, or the validation error of
// an invalid set.
func (l Literal[M]) MemberSchema() (*Schema, error) {
	return SchemaFor[M]()
}

// SchemaOf returns the member set of the Literal type t.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if !IsLiteral(t) {
		return nil, errors.InvalidSchema("%s is not an enumeration literal", t)
	}
	return reflect.Zero(t).Interface().(Member).MemberSchema()
}

// String returns the member name.
func (l Literal[M]) String() string {
	return mustSchema[M]().Name(int(l.code))
}

// Value returns the member code.
func (l Literal[M]) Value() int {
	return int(l.code)
}

// Is reports whether l holds the member named s.
func (l Literal[M]) Is(s string) bool {
	i, ok := mustSchema[M]().Index(s)
	return ok && i == int(l.code)
}

// Set assigns the member named s. l is unchanged on error.
func (l *Literal[M]) Set(s string) error {
	code, err := mustSchema[M]().Parse(s)
	if err != nil {
		return err
	}
	l.code = uint16(code)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Literal[M]) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Literal[M]) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}
