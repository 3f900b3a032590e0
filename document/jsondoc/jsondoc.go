// Package jsondoc is the JSON document backend.
//
// Parse produces an order-preserving tree, Reader and Writer expose it to
// the codec engine, and Unmarshal and Marshal tie the three together:
//
//	cfg, err := jsondoc.Unmarshal[Config](data)
//	out, err := jsondoc.Marshal(cfg)
//
// Numbers are kept as json.Number until a target type is known, so
// integers never lose precision through float64.
package jsondoc

import (
	"encoding/json"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
)

// Options configures parsing and output.
type Options struct {
	// Schema used for decoding and encoding. Nil means codec.Default.
	Schema *codec.Schema
	// Indent, when non-empty, pretty-prints output with this unit.
	Indent string
	// AllowComments accepts // and /* */ comments and trailing commas.
	AllowComments bool
}

// DefaultOptions returns lenient parsing and compact output.
func DefaultOptions() Options {
	return Options{AllowComments: true}
}

func (o Options) schema() *codec.Schema {
	if o.Schema != nil {
		return o.Schema
	}
	return codec.Default
}

// Backend is the JSON document.Backend.
type Backend struct{}

var _ document.Backend = Backend{}

func (Backend) Reader() document.Reader { return Reader{} }
func (Backend) Writer() document.Writer { return Writer{} }

// Unmarshal decodes data into a T with DefaultOptions.
func Unmarshal[T any](data []byte) (T, error) {
	return UnmarshalWith[T](data, DefaultOptions())
}

// UnmarshalWith decodes data into a T.
func UnmarshalWith[T any](data []byte, opts Options) (T, error) {
	tree, err := Parse(data, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return codec.DecodeWith[T](opts.schema(), Reader{}, tree)
}

// UnmarshalInto decodes data into the value ptr points to. ptr is left
// untouched on failure.
func UnmarshalInto(data []byte, ptr any, opts Options) error {
	tree, err := Parse(data, opts)
	if err != nil {
		return err
	}
	return opts.schema().DecodeInto(Reader{}, tree, ptr)
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

// Render serializes a tree built by Writer or Parse.
func Render(node document.Node, opts Options) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if opts.Indent != "" {
		out, err = json.MarshalIndent(node, "", opts.Indent)
	} else {
		out, err = json.Marshal(node)
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "render json")
	}
	return out, nil
}
