// Package own provides owning wrappers that are transparent to the codec.
//
// Box owns a single value behind a pointer, which lets recursive types
// such as trees hold children without a nullable pointer. Ref is a shared
// reference that is never nil once constructed. Plain *T is the nullable
// shared reference.
//
// Neither Box nor Ref can represent absence: decoding null into either
// fails with null_not_allowed, and a record field of either type is
// required.
package own

import (
	"fmt"
	"reflect"
)

// Box exclusively owns a T.
type Box[T any] struct {
	p *T
}

// NewBox returns a Box holding v.
func NewBox[T any](v T) Box[T] {
	return Box[T]{p: &v}
}

// Get returns the boxed value. A zero Box yields the zero T.
func (b Box[T]) Get() T {
	if b.p == nil {
		var zero T
		return zero
	}
	return *b.p
}

// Ptr returns the owned pointer.
func (b Box[T]) Ptr() *T { return b.p }

// Clone returns a Box holding a shallow copy of the value.
func (b Box[T]) Clone() Box[T] {
	if b.p == nil {
		return Box[T]{}
	}
	return NewBox(*b.p)
}

// Ref is a shared, never-nil reference to a T. The zero Ref is invalid
// and is rejected by the encoder.
type Ref[T any] struct {
	p *T
}

// NewRef allocates v and returns a reference to it.
func NewRef[T any](v T) Ref[T] {
	return Ref[T]{p: &v}
}

// RefOf wraps an existing pointer. It fails if p is nil.
func RefOf[T any](p *T) (Ref[T], error) {
	if p == nil {
		return Ref[T]{}, fmt.Errorf("own: cannot create Ref[%s] from nil pointer", reflect.TypeOf((*T)(nil)).Elem())
	}
	return Ref[T]{p: p}, nil
}

// Get returns the referenced value.
func (r Ref[T]) Get() T {
	if r.p == nil {
		var zero T
		return zero
	}
	return *r.p
}

// Ptr returns the shared pointer.
func (r Ref[T]) Ptr() *T { return r.p }

// Valid reports whether r was constructed by NewRef or RefOf.
func (r Ref[T]) Valid() bool { return r.p != nil }

// Wrapper is implemented by Box and Ref.
type Wrapper interface {
	WrappedType() reflect.Type
	Wrapped() (reflect.Value, bool)
	Shared() bool
}

// Assigner is implemented by *Box and *Ref.
type Assigner interface {
	AssignPointer(p reflect.Value)
}

// WrappedType returns the reflected T.
func (b Box[T]) WrappedType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Wrapped returns the owned pointer as a reflect.Value of type *T.
func (b Box[T]) Wrapped() (reflect.Value, bool) { return reflect.ValueOf(b.p), b.p != nil }

// Shared reports false: a Box is exclusive.
func (b Box[T]) Shared() bool { return false }

// AssignPointer takes ownership of p, a reflect.Value of type *T.
func (b *Box[T]) AssignPointer(p reflect.Value) { b.p = p.Interface().(*T) }

// WrappedType returns the reflected T.
func (r Ref[T]) WrappedType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Wrapped returns the shared pointer as a reflect.Value of type *T.
func (r Ref[T]) Wrapped() (reflect.Value, bool) { return reflect.ValueOf(r.p), r.p != nil }

// Shared reports true.
func (r Ref[T]) Shared() bool { return true }

// AssignPointer points r at p, a reflect.Value of type *T.
func (r *Ref[T]) AssignPointer(p reflect.Value) { r.p = p.Interface().(*T) }

var (
	wrapperType  = reflect.TypeOf((*Wrapper)(nil)).Elem()
	assignerType = reflect.TypeOf((*Assigner)(nil)).Elem()
)

// IsWrapper reports whether t is a Box or Ref type.
func IsWrapper(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.Implements(wrapperType) &&
		reflect.PointerTo(t).Implements(assignerType)
}

// Describe returns the wrapped type of t and whether t is a shared Ref.
// t must satisfy IsWrapper.
func Describe(t reflect.Type) (elem reflect.Type, shared bool) {
	w := reflect.Zero(t).Interface().(Wrapper)
	return w.WrappedType(), w.Shared()
}
