// Package enum provides closed string enumerations.
//
// A member set is declared once as a type with a Members method:
//
//	type colors struct{}
//
//	func (colors) Members() []string { return []string{"red", "green", "blue"} }
//
//	type Color = enum.Literal[colors]
//
// A Color stores only a small integer code. Construction from a string
// fails with an unknown_member error that lists every accepted name:
//
//	c, err := enum.FromString[colors]("purple")
//	// literal does not support 'purple'; supported: 'red', 'green', 'blue'.
//
// # Schema validation
//
// The member set is validated on first use and cached per type. An empty
// set, duplicate names or more than 65536 members are programming errors:
// every Literal operation on such a set panics with a schema error.
// Validation never runs per value.
//
// # Discriminators
//
// Tagged unions in package codec require the discriminator field of each
// alternative to be a Literal. Contains, ContainsAny and ContainsAll are
// the membership and overlap tests the union resolver relies on.
package enum
