// Package optional provides Option, a value that may be absent.
//
// In a record, an Option field is optional: a missing or null document
// field decodes to None, and None is left out of the encoded object.
package optional

import "reflect"

// Option holds a T or nothing. The zero Option is None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPointer returns Some(*p), or None if p is nil.
func FromPointer[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether the Option is empty.
func (o Option[T]) IsNone() bool { return !o.ok }

// OrElse returns the value, or def if absent.
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Pointer returns a pointer to a copy of the value, or nil.
func (o Option[T]) Pointer() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

// Reflector is implemented by every Option. The codec engine reads
// options of any element type through it.
type Reflector interface {
	ElemType() reflect.Type
	Reflect() (reflect.Value, bool)
}

// Assigner is implemented by *Option.
type Assigner interface {
	Assign(v reflect.Value)
}

// ElemType returns the reflected T.
func (o Option[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Reflect returns the held value typed exactly as T.
func (o Option[T]) Reflect() (reflect.Value, bool) {
	return reflect.ValueOf(&o.value).Elem(), o.ok
}

// Assign stores v, which must be assignable to T, and marks the Option
// present.
func (o *Option[T]) Assign(v reflect.Value) {
	reflect.ValueOf(&o.value).Elem().Set(v)
	o.ok = true
}

var (
	reflectorType = reflect.TypeOf((*Reflector)(nil)).Elem()
	assignerType  = reflect.TypeOf((*Assigner)(nil)).Elem()
)

// IsOption reports whether t is an Option type.
func IsOption(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.Implements(reflectorType) &&
		reflect.PointerTo(t).Implements(assignerType)
}

// ElemOf returns the element type of the Option type t.
func ElemOf(t reflect.Type) reflect.Type {
	return reflect.Zero(t).Interface().(Reflector).ElemType()
}
