// Package codec maps Go values to and from document trees.
//
// The engine compiles each Go type once into a shape and dispatches on
// it. Rules are tried in order; the first that matches decides how the
// type is coded:
//
//  1. A custom coder registered with RegisterCoder.
//  2. own.Box and own.Ref, non-null wrappers; *T, nullable.
//  3. optional.Option.
//  4. enum.Literal, as its member name.
//  5. Interfaces registered with RegisterTaggedUnion.
//  6. Structs, as records: objects with one member per exported field.
//  7. tuple.Pair and other tuple.Marker structs, and Go arrays, as
//     fixed-length arrays.
//  8. Interfaces registered with RegisterSum, as untagged sums.
//  9. Slices, as arrays.
//  10. map[T]struct{}, as arrays of distinct elements.
//  11. Maps with string or enumeration keys, as objects. Key types with a
//      custom coder are not supported.
//  12. bool, integers, floats and strings.
//
// Any other type, including unregistered interfaces, channels, functions
// and complex numbers, fails to compile.
//
// # Backends
//
// Documents are reached through document.Reader and document.Writer, so
// the same shapes serve every backend:
//
//	cfg, err := codec.Decode[Config](jsondoc.Reader{}, tree)
//	node, err := codec.Encode(yamldoc.Writer{}, cfg)
//
// A backend may construct certain Go types itself by implementing
// document.CustomConstructor and document.CustomEmitter. Coders registered
// with RegisterCoder win over those hooks; the hooks win over every other
// rule, including the built-in time.Time coder.
//
// # Records
//
// Pointer and Option fields are optional: missing or null in the input
// leaves them empty, and empty values are left out of the output. Every
// other field is required and a missing one fails with missing_field.
// Nesting one nullable in another, such as Option[*T] or *Option[T],
// fails to compile: a null could not tell the levels apart.
//
// # Unions
//
// A tagged union reads a discriminator member and decodes the whole
// object as the first alternative whose enumeration accepts the value.
// If that alternative fails the union fails; later alternatives are not
// tried. An untagged sum tries every alternative in order and reports all
// failures when none succeeds.
//
// # Concurrency
//
// Schemas are safe for concurrent use. Decoding never writes to the
// target before it has succeeded.
package codec
