// Package tuple provides fixed-arity heterogeneous tuples.
//
// Tuples encode as arrays of exactly TupleArity elements, each element
// coded by its own static type. Any struct whose exported fields are the
// positional elements can opt in by implementing Marker.
package tuple

import "reflect"

// Marker is implemented by tuple types. TupleArity must equal the number
// of exported fields.
type Marker interface {
	TupleArity() int
}

// Pair is a 2-tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is a 3-tuple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Quad is a 4-tuple.
type Quad[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// NewPair returns Pair{a, b}.
func NewPair[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// NewTriple returns Triple{a, b, c}.
func NewTriple[A, B, C any](a A, b B, c C) Triple[A, B, C] {
	return Triple[A, B, C]{First: a, Second: b, Third: c}
}

// NewQuad returns Quad{a, b, c, d}.
func NewQuad[A, B, C, D any](a A, b B, c C, d D) Quad[A, B, C, D] {
	return Quad[A, B, C, D]{First: a, Second: b, Third: c, Fourth: d}
}

// TupleArity implements Marker.
func (Pair[A, B]) TupleArity() int { return 2 }

// TupleArity implements Marker.
func (Triple[A, B, C]) TupleArity() int { return 3 }

// TupleArity implements Marker.
func (Quad[A, B, C, D]) TupleArity() int { return 4 }

// Values returns the elements in order.
func (p Pair[A, B]) Values() (A, B) { return p.First, p.Second }

var markerType = reflect.TypeOf((*Marker)(nil)).Elem()

// IsTuple reports whether t is a struct implementing Marker.
func IsTuple(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(markerType)
}

// Arity returns the declared arity of the tuple type t.
func Arity(t reflect.Type) int {
	return reflect.Zero(t).Interface().(Marker).TupleArity()
}
