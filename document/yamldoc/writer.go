package yamldoc

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/shapecodec/document"
)

// Writer builds *yaml.Node trees with explicit tags, so the encoder
// quotes strings that would otherwise read back as another type.
type Writer struct{}

var (
	_ document.Writer        = Writer{}
	_ document.CustomEmitter = Writer{}
)

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (Writer) NewObject() document.Object {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
}

func (Writer) NewArray() document.Array {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq}
}

func (w Writer) SetField(obj document.Object, name string, value document.Node) {
	m := obj.(*yaml.Node)
	m.Content = append(m.Content, w.FromString(name).(*yaml.Node), w.node(value))
}

func (w Writer) Append(arr document.Array, value document.Node) {
	s := arr.(*yaml.Node)
	s.Content = append(s.Content, w.node(value))
}

func (w Writer) node(n document.Node) *yaml.Node {
	if y, ok := n.(*yaml.Node); ok && y != nil {
		return y
	}
	return w.Empty().(*yaml.Node)
}

func (Writer) ObjectNode(obj document.Object) document.Node { return obj }
func (Writer) ArrayNode(arr document.Array) document.Node   { return arr }

func (Writer) Empty() document.Node { return scalarNode(tagNull, "null") }

func (Writer) IsEmpty(n document.Node) bool { return Reader{}.IsEmpty(n) }

func (Writer) FromBool(v bool) document.Node {
	return scalarNode(tagBool, strconv.FormatBool(v))
}

func (Writer) FromInt(v int64) document.Node {
	return scalarNode(tagInt, strconv.FormatInt(v, 10))
}

func (Writer) FromUint(v uint64) document.Node {
	return scalarNode(tagInt, strconv.FormatUint(v, 10))
}

func (Writer) FromFloat(v float64) document.Node {
	switch {
	case math.IsNaN(v):
		return scalarNode(tagFloat, ".nan")
	case math.IsInf(v, 1):
		return scalarNode(tagFloat, ".inf")
	case math.IsInf(v, -1):
		return scalarNode(tagFloat, "-.inf")
	}
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return scalarNode(tagFloat, text)
}

// FromString tags v as a string. Words that YAML 1.1 readers take for
// booleans are double-quoted as well.
func (Writer) FromString(v string) document.Node {
	n := scalarNode(tagStr, v)
	if isLegacyBool(v) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func isLegacyBool(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "n", "no", "on", "off":
		return true
	}
	return false
}

// CustomEncoder emits time.Time as a YAML timestamp and yaml.Node
// verbatim.
func (Writer) CustomEncoder(t reflect.Type) (document.EncodeFunc, bool) {
	switch t {
	case timeType:
		return encodeTime, true
	case nodeType:
		return encodeNode, true
	}
	return nil, false
}

func encodeTime(v reflect.Value) (document.Node, error) {
	t := v.Interface().(time.Time)
	return scalarNode(tagTimestamp, t.Format(time.RFC3339Nano)), nil
}

func encodeNode(v reflect.Value) (document.Node, error) {
	y := v.Interface().(yaml.Node)
	return &y, nil
}
