// Package document defines the contracts between the codec engine and a
// document backend.
//
// A backend owns a tree representation (JSON values, YAML nodes, ...) and
// exposes it through a Reader and a Writer. The engine never inspects
// nodes directly: Node, Object and Array are opaque handles that are only
// ever passed back to the backend that produced them.
package document

import "reflect"

// Node is an opaque handle to one value in a document tree.
type Node any

// Object is an opaque handle to a key/value container.
type Object any

// Array is an opaque handle to an ordered container.
type Array any

// Field is one member of an object, in document order.
type Field struct {
	Value Node
	Name  string
}

// Reader views a document tree. Conversions fail with a type_mismatch
// error from the errors package when the node has a different kind.
type Reader interface {
	// Field returns the member named name. It fails with field_not_found
	// when the object has no such member.
	Field(name string, obj Object) (Node, error)
	// IsEmpty reports whether the node is absent or null.
	IsEmpty(n Node) bool
	ToObject(n Node) (Object, error)
	ToArray(n Node) (Array, error)
	// Fields returns every member of obj in document order.
	Fields(obj Object) []Field
	// Elements returns every item of arr in order.
	Elements(arr Array) []Node
	ToBool(n Node) (bool, error)
	ToInt(n Node) (int64, error)
	ToUint(n Node) (uint64, error)
	ToFloat(n Node) (float64, error)
	ToString(n Node) (string, error)
}

// Writer builds a document tree. Objects and arrays are mutable builders
// until turned into nodes with ObjectNode and ArrayNode.
type Writer interface {
	NewObject() Object
	NewArray() Array
	SetField(obj Object, name string, value Node)
	Append(arr Array, value Node)
	ObjectNode(obj Object) Node
	ArrayNode(arr Array) Node
	// Empty returns the backend's null.
	Empty() Node
	// IsEmpty reports whether n is the backend's null.
	IsEmpty(n Node) bool
	FromBool(v bool) Node
	FromInt(v int64) Node
	FromUint(v uint64) Node
	FromFloat(v float64) Node
	FromString(v string) Node
}

// DecodeFunc constructs a value of a specific Go type from a node. The
// returned value must be assignable to that type.
type DecodeFunc func(n Node) (reflect.Value, error)

// CustomConstructor is optionally implemented by a Reader that knows how
// to build certain Go types natively. The engine consults it before
// structural dispatch.
type CustomConstructor interface {
	CustomDecoder(t reflect.Type) (DecodeFunc, bool)
}

// EncodeFunc renders a value of a specific Go type as a node.
type EncodeFunc func(v reflect.Value) (Node, error)

// CustomEmitter is the Writer counterpart of CustomConstructor.
type CustomEmitter interface {
	CustomEncoder(t reflect.Type) (EncodeFunc, bool)
}

// Backend pairs a Reader and Writer over the same tree representation.
type Backend interface {
	Reader() Reader
	Writer() Writer
}
