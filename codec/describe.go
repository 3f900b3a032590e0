package codec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/shapecodec/codec/internal/shape"
)

// Describe renders the compiled shape of t as an indented tree, one
// node per line. Recursive references print as "<recursive T>".
func (s *Schema) Describe(t reflect.Type) (string, error) {
	sh, err := s.shapeOf(t)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	describe(&b, sh, "", 0, make(map[*shape.Shape]bool))
	return b.String(), nil
}

// DescribeType is the generic form of Schema.Describe.
func DescribeType[T any](s *Schema) (string, error) {
	return s.Describe(typeOf[T]())
}

func describe(b *strings.Builder, sh *shape.Shape, label string, depth int, active map[*shape.Shape]bool) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}
	if active[sh] {
		fmt.Fprintf(b, "<recursive %s>\n", sh.GoType)
		return
	}
	active[sh] = true
	defer delete(active, sh)

	fmt.Fprintf(b, "%s %s", sh.Kind, sh.GoType)
	switch sh.Kind {
	case shape.KindEnum:
		fmt.Fprintf(b, " %s", quoteAll(sh.Enum.Names()))
	case shape.KindTaggedUnion:
		fmt.Fprintf(b, " by %q", sh.Discriminator)
	}
	b.WriteByte('\n')

	switch sh.Kind {
	case shape.KindBox, shape.KindRef, shape.KindPointer, shape.KindOption, shape.KindSequence, shape.KindSet:
		describe(b, sh.Elem, "", depth+1, active)
	case shape.KindMap:
		describe(b, sh.Key, "key", depth+1, active)
		describe(b, sh.Elem, "value", depth+1, active)
	case shape.KindRecord:
		for _, f := range sh.Fields {
			label := f.Name
			if !f.Required {
				label += "?"
			}
			describe(b, f.Shape, label, depth+1, active)
		}
	case shape.KindTuple:
		if sh.IsArray() {
			describe(b, sh.Elem, fmt.Sprintf("[%d]", len(sh.Fields)), depth+1, active)
			return
		}
		for _, f := range sh.Fields {
			describe(b, f.Shape, f.Name, depth+1, active)
		}
	case shape.KindTaggedUnion:
		for _, a := range sh.Alternatives {
			describe(b, a.Shape, strings.Join(a.Enum.Names(), "|"), depth+1, active)
		}
	case shape.KindSum:
		for i, a := range sh.Alternatives {
			describe(b, a.Shape, fmt.Sprint(i), depth+1, active)
		}
	}
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
