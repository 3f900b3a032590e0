// Package yamldoc is the YAML document backend, built on yaml.v3 nodes.
//
// Reader walks *yaml.Node trees as produced by yaml.Unmarshal into a
// yaml.Node, following documents and aliases. Writer builds tagged nodes
// that yaml.v3 renders with correct quoting.
//
// Beyond the structural rules, time.Time maps to YAML timestamps and a
// yaml.Node field captures its subtree unchanged.
package yamldoc

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
)

// Options configures output.
type Options struct {
	// Schema used for decoding and encoding. Nil means codec.Default.
	Schema *codec.Schema
	// Indent is the number of spaces per nesting level.
	Indent int
}

// DefaultOptions returns two-space indentation.
func DefaultOptions() Options {
	return Options{Indent: 2}
}

func (o Options) schema() *codec.Schema {
	if o.Schema != nil {
		return o.Schema
	}
	return codec.Default
}

// Backend is the YAML document.Backend.
type Backend struct{}

var _ document.Backend = Backend{}

func (Backend) Reader() document.Reader { return Reader{} }
func (Backend) Writer() document.Writer { return Writer{} }

// Parse reads one YAML document. Empty input yields an empty document,
// which reads as null.
func Parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("yaml", err)
	}
	return &doc, nil
}

// Unmarshal decodes data into a T with the Default schema.
func Unmarshal[T any](data []byte) (T, error) {
	return UnmarshalWith[T](data, DefaultOptions())
}

// UnmarshalWith decodes data into a T.
func UnmarshalWith[T any](data []byte, opts Options) (T, error) {
	doc, err := Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return codec.DecodeWith[T](opts.schema(), Reader{}, doc)
}

// UnmarshalInto decodes data into the value ptr points to. ptr is left
// untouched on failure.
func UnmarshalInto(data []byte, ptr any, opts Options) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return opts.schema().DecodeInto(Reader{}, doc, ptr)
}

// Marshal encodes v with DefaultOptions.
func Marshal[T any](v T) ([]byte, error) {
	return MarshalWith(v, DefaultOptions())
}

// MarshalWith encodes v.
func MarshalWith[T any](v T, opts Options) ([]byte, error) {
	node, err := codec.EncodeWith(opts.schema(), Writer{}, v)
	if err != nil {
		return nil, err
	}
	return Render(node, opts)
}

// Render serializes a node tree.
func Render(node document.Node, opts Options) ([]byte, error) {
	y, ok := node.(*yaml.Node)
	if !ok || y == nil {
		y = Writer{}.Empty().(*yaml.Node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if opts.Indent > 0 {
		enc.SetIndent(opts.Indent)
	}
	if err := enc.Encode(y); err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "render yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "render yaml")
	}
	return buf.Bytes(), nil
}
