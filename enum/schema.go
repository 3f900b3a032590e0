package enum

import (
	"math"
	"reflect"
	"sync"

	"github.com/wippyai/shapecodec/errors"
)

// Members declares a closed set of names. Implementations are normally
// empty structs whose Members method returns a literal slice; the slice is
// read once, when the set is first used.
type Members interface {
	Members() []string
}

// Schema is the validated, immutable form of a member set. Codes are
// positions in declaration order.
type Schema struct {
	index    map[string]int
	typeName string
	names    []string
	width    int
}

// maxMembers is the number of codes a 16-bit width can hold.
const maxMembers = math.MaxUint16 + 1

// NewSchema validates names and builds a Schema. typeName is used in
// messages only. Names must be non-empty as a set and pairwise distinct.
func NewSchema(typeName string, names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.PhaseSchema, errors.KindEmptyEnum).
			GoType(typeName).
			Detail("enumeration %s has no members", typeName).
			Build()
	}
	if len(names) > maxMembers {
		return nil, errors.InvalidSchema("enumeration %s has %d members, at most %d are supported",
			typeName, len(names), maxMembers)
	}

	s := &Schema{
		typeName: typeName,
		names:    append([]string(nil), names...),
		index:    make(map[string]int, len(names)),
		width:    16,
	}
	if len(names) <= math.MaxUint8+1 {
		s.width = 8
	}

	for i, n := range s.names {
		if _, dup := s.index[n]; dup {
			err := errors.DuplicateName("enumeration member", n)
			err.GoType = typeName
			return nil, err
		}
		s.index[n] = i
	}
	return s, nil
}

// TypeName returns the name the schema was registered under.
func (s *Schema) TypeName() string { return s.typeName }

// Len returns the number of members.
func (s *Schema) Len() int { return len(s.names) }

// Width returns the number of bits needed for a code: 8 or 16.
func (s *Schema) Width() int { return s.width }

// Names returns the members in declaration order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}

// Name returns the member with the given code. It panics if code is out
// of range, since codes only come from a Schema.
func (s *Schema) Name(code int) string {
	return s.names[code]
}

// Index returns the code of name.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Contains reports whether name is a member.
func (s *Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Parse returns the code of name, or an unknown_member error listing every
// accepted name in declaration order.
func (s *Schema) Parse(name string) (int, error) {
	if i, ok := s.index[name]; ok {
		return i, nil
	}
	return 0, errors.UnknownMember(name, s.names)
}

// ContainsAny reports whether s and other share at least one member.
func (s *Schema) ContainsAny(other *Schema) bool {
	for _, n := range s.names {
		if other.Contains(n) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every member of other is also a member of s.
func (s *Schema) ContainsAll(other *Schema) bool {
	found := 0
	for _, n := range s.names {
		if other.Contains(n) {
			found++
		}
	}
	return found == other.Len()
}

var schemas sync.Map // reflect.Type -> *Schema

// SchemaFor returns the validated schema of M, building it on first use.
func SchemaFor[M Members]() (*Schema, error) {
	var m M
	t := reflect.TypeOf(m)
	if cached, ok := schemas.Load(t); ok {
		return cached.(*Schema), nil
	}

	s, err := NewSchema(t.String(), m.Members())
	if err != nil {
		return nil, err
	}
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

// mustSchema returns the schema of M or panics: an invalid member set is a
// broken program, not a bad document.
func mustSchema[M Members]() *Schema {
	s, err := SchemaFor[M]()
	if err != nil {
		panic(err)
	}
	return s
}
