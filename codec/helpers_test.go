package codec_test

import (
	"testing"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/document/jsondoc"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
	"github.com/wippyai/shapecodec/tuple"
)

type circleKinds struct{}

func (circleKinds) Members() []string { return []string{"circle"} }

type squareKinds struct{}

func (squareKinds) Members() []string { return []string{"square", "box"} }

type anyShapeKinds struct{}

func (anyShapeKinds) Members() []string { return []string{"circle", "square", "box"} }

type boxKinds struct{}

func (boxKinds) Members() []string { return []string{"box", "crate"} }

type levels struct{}

func (levels) Members() []string { return []string{"debug", "info", "warn"} }

type Level = enum.Literal[levels]

type Shape interface{ Area() float64 }

type Circle struct {
	Kind   enum.Literal[circleKinds] `codec:"kind"`
	Radius float64                   `codec:"radius"`
}

func (c Circle) Area() float64 { return 3 * c.Radius * c.Radius }

type Square struct {
	Kind enum.Literal[squareKinds] `codec:"kind"`
	Side float64                   `codec:"side"`
}

func (s Square) Area() float64 { return s.Side * s.Side }

type Blob struct {
	Kind enum.Literal[anyShapeKinds] `codec:"kind"`
}

func (Blob) Area() float64 { return 0 }

type Crate struct {
	Kind enum.Literal[boxKinds] `codec:"kind"`
}

func (Crate) Area() float64 { return 1 }

// Scalar is an untagged sum of int64 and string.
type Scalar interface{}

type Tree struct {
	Children []Tree `codec:"children"`
	Name     string `codec:"name"`
}

type List struct {
	Next  *List `codec:"next"`
	Value int   `codec:"value"`
}

type Expr interface{ expr() }

type Lit struct {
	Value int64 `codec:"value"`
}

func (Lit) expr() {}

type Add struct {
	Left  own.Box[Expr] `codec:"left"`
	Right own.Box[Expr] `codec:"right"`
}

func (Add) expr() {}

type Config struct {
	Name     string                       `codec:"name"`
	Level    Level                        `codec:"level"`
	Port     uint16                       `codec:"port"`
	Ratio    float64                      `codec:"ratio"`
	Enabled  bool                         `codec:"enabled"`
	Tags     []string                     `codec:"tags"`
	Labels   map[string]string            `codec:"labels"`
	Ports    map[string]struct{}          `codec:"ports"`
	Limits   map[Level]int                `codec:"limits"`
	Owner    *string                      `codec:"owner"`
	Timeout  optional.Option[int64]       `codec:"timeout"`
	Origin   tuple.Pair[float64, float64] `codec:"origin"`
	Box      [3]int                       `codec:"box"`
	Shape    Shape                        `codec:"shape"`
	Primary  own.Ref[Tree]                `codec:"primary"`
	Comments []Scalar                     `codec:"comments"`
}

func newSchema(t *testing.T) *codec.Schema {
	t.Helper()
	s := codec.NewSchema(codec.DefaultOptions())
	if err := codec.RegisterTaggedUnion[Shape](s, "kind", Circle{}, Square{}); err != nil {
		t.Fatalf("register Shape: %v", err)
	}
	if err := codec.RegisterSum[Scalar](s, int64(0), ""); err != nil {
		t.Fatalf("register Scalar: %v", err)
	}
	if err := codec.RegisterSum[Expr](s, Lit{}, Add{}); err != nil {
		t.Fatalf("register Expr: %v", err)
	}
	return s
}

func parse(t *testing.T, src string) any {
	t.Helper()
	tree, err := jsondoc.Parse([]byte(src), jsondoc.DefaultOptions())
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func decode[T any](t *testing.T, s *codec.Schema, src string) (T, error) {
	t.Helper()
	return codec.DecodeWith[T](s, jsondoc.Reader{}, parse(t, src))
}

func render[T any](t *testing.T, s *codec.Schema, v T) string {
	t.Helper()
	node, err := codec.EncodeWith(s, jsondoc.Writer{}, v)
	if err != nil {
		t.Fatalf("encode %T: %v", v, err)
	}
	out, err := jsondoc.Render(node, jsondoc.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

var (
	jsonReader = jsondoc.Reader{}
	jsonWriter = jsondoc.Writer{}
)

func boxExpr(e Expr) own.Box[Expr] { return own.NewBox(e) }

func renderNode(n document.Node) (string, error) {
	out, err := jsondoc.Render(n, jsondoc.Options{})
	return string(out), err
}
