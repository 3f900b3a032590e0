// Package shapecodec converts between Go values and generic document trees
// (JSON, YAML) using nothing but the values' reflected types.
//
// Types are declared once and the codec derives how to read and write them:
// structs become records, slices become sequences, map[T]struct{} becomes a
// set, tuple markers and arrays become fixed-length arrays, and registered
// interfaces become tagged unions or untagged sums. Shape errors such as
// duplicate field names or unreachable union alternatives are reported when
// a type is first compiled, not while a document is being read.
//
// # Architecture Overview
//
//	shapecodec/          Format selection and byte-level Unmarshal/Marshal
//	├── codec/           Schema registry, shape compiler, decoder and encoder
//	├── document/        Reader/Writer contracts the codec works against
//	│   ├── jsondoc/     Order-preserving JSON backend (comments allowed)
//	│   └── yamldoc/     YAML backend over yaml.v3 nodes
//	├── enum/            Closed string enumerations
//	├── record/          Struct field views and naming conventions
//	├── optional/        Option[T]
//	├── own/             Box[T] and Ref[T] owning wrappers
//	├── tuple/           Pair, Triple and Quad
//	├── result/          Result[T] success-or-error values
//	├── errors/          Structured error types for debugging
//	└── cmd/shapecheck/  Validate documents against demo shapes
//
// # Quick Start
//
//	type Config struct {
//	    Name  string            `codec:"name"`
//	    Port  uint16            `codec:"port"`
//	    Owner *string           `codec:"owner"`
//	    Tags  map[string]string `codec:"tags"`
//	}
//
//	var cfg Config
//	err := shapecodec.Unmarshal(shapecodec.YAML, data, &cfg, nil)
//	if err != nil {
//	    log.Fatal(err) // failed to decode field 'port': expected integer, got string at line 2
//	}
//
//	out, err := shapecodec.Marshal(shapecodec.JSON, cfg, nil)
//
// # Unions
//
// Interfaces are coded only once registered on a codec.Schema:
//
//	codec.MustRegisterTaggedUnion[Shape](schema, "kind", Circle{}, Square{})
//	codec.MustRegisterSum[Scalar](schema, int64(0), "")
//
// A tagged union reads the discriminator field and decodes the first
// alternative whose enumeration contains it. A sum tries each alternative in
// order and reports every failure when none fits.
//
// # Thread Safety
//
// A codec.Schema is safe for concurrent use. Registration invalidates
// compiled shapes, so register everything before decoding starts.
package shapecodec
