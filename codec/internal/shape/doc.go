// Package shape defines the compiled shape descriptors the codec engine
// dispatches on.
//
// A Shape is built once per Go type by the compiler and then shared by
// every decode and encode of that type. Shapes of recursive types point
// back at themselves through Elem, Fields or Alternatives.
//
// This package is internal to the codec.
package shape
