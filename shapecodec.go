package shapecodec

import (
	"path/filepath"
	"strings"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/document/jsondoc"
	"github.com/wippyai/shapecodec/document/yamldoc"
	"github.com/wippyai/shapecodec/enum"
)

type formats struct{}

func (formats) Members() []string { return []string{"json", "yaml"} }

// Format names a document backend.
type Format = enum.Literal[formats]

var (
	JSON = enum.Make[formats]("json")
	YAML = enum.Make[formats]("yaml")
)

// ParseFormat reads a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(name)
	if name == "yml" {
		return YAML, nil
	}
	return enum.FromString[formats](name)
}

// FormatOf guesses the format from a file extension. Anything that is not
// .yaml or .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Backend returns the document backend for f.
func Backend(f Format) document.Backend {
	if f == YAML {
		return yamldoc.Backend{}
	}
	return jsondoc.Backend{}
}

// Unmarshal parses data as f and decodes it into the value ptr points to.
// A nil schema means codec.Default. ptr is left untouched on failure.
func Unmarshal(f Format, data []byte, ptr any, schema *codec.Schema) error {
	if f == YAML {
		return yamldoc.UnmarshalInto(data, ptr, yamldoc.Options{Schema: schema})
	}
	return jsondoc.UnmarshalInto(data, ptr, jsondoc.Options{Schema: schema, AllowComments: true})
}

// Marshal encodes v as an indented f document. A nil schema means
// codec.Default.
func Marshal(f Format, v any, schema *codec.Schema) ([]byte, error) {
	if schema == nil {
		schema = codec.Default
	}
	b := Backend(f)
	node, err := schema.EncodeValue(b.Writer(), v)
	if err != nil {
		return nil, err
	}
	if f == YAML {
		return yamldoc.Render(node, yamldoc.DefaultOptions())
	}
	out, err := jsondoc.Render(node, jsondoc.Options{Indent: "  "})
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
