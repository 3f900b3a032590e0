package yamldoc

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
)

const (
	tagNull      = "!!null"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagMap       = "!!map"
	tagSeq       = "!!seq"
)

// Reader reads *yaml.Node trees. Document and alias nodes are followed
// transparently.
type Reader struct{}

var (
	_ document.Reader            = Reader{}
	_ document.CustomConstructor = Reader{}
)

// resolve returns the content node n stands for, or nil for an empty
// document.
func resolve(n document.Node) *yaml.Node {
	y, _ := n.(*yaml.Node)
	for y != nil {
		switch y.Kind {
		case yaml.DocumentNode:
			if len(y.Content) == 0 {
				return nil
			}
			y = y.Content[0]
		case yaml.AliasNode:
			y = y.Alias
		case 0:
			return nil
		default:
			return y
		}
	}
	return nil
}

func kindName(y *yaml.Node) string {
	if y == nil {
		return "null"
	}
	switch y.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	}
	switch tag := y.ShortTag(); tag {
	case tagNull:
		return "null"
	case tagBool:
		return "boolean"
	case tagInt:
		return "integer"
	case tagFloat:
		return "number"
	case tagStr:
		return "string"
	case tagTimestamp:
		return "timestamp"
	default:
		return tag
	}
}

func mismatch(want string, y *yaml.Node) error {
	err := errors.TypeMismatch(errors.PhaseDecode, want, kindName(y))
	if y != nil && y.Line > 0 {
		err.Detail += " at line " + strconv.Itoa(y.Line)
	}
	return err
}

func scalar(n document.Node, tags ...string) (*yaml.Node, bool) {
	y := resolve(n)
	if y == nil || y.Kind != yaml.ScalarNode {
		return y, false
	}
	tag := y.ShortTag()
	for _, t := range tags {
		if tag == t {
			return y, true
		}
	}
	return y, false
}

func (Reader) IsEmpty(n document.Node) bool {
	y := resolve(n)
	return y == nil || (y.Kind == yaml.ScalarNode && y.ShortTag() == tagNull)
}

func (Reader) ToObject(n document.Node) (document.Object, error) {
	y := resolve(n)
	if y == nil || y.Kind != yaml.MappingNode {
		return nil, mismatch("object", y)
	}
	return y, nil
}

func (Reader) ToArray(n document.Node) (document.Array, error) {
	y := resolve(n)
	if y == nil || y.Kind != yaml.SequenceNode {
		return nil, mismatch("array", y)
	}
	return y, nil
}

func (Reader) Field(name string, obj document.Object) (document.Node, error) {
	m := obj.(*yaml.Node)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			return m.Content[i+1], nil
		}
	}
	return nil, errors.FieldNotFound(name)
}

func (Reader) Fields(obj document.Object) []document.Field {
	m := obj.(*yaml.Node)
	out := make([]document.Field, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, document.Field{Name: m.Content[i].Value, Value: m.Content[i+1]})
	}
	return out
}

func (Reader) Elements(arr document.Array) []document.Node {
	s := arr.(*yaml.Node)
	out := make([]document.Node, len(s.Content))
	for i, c := range s.Content {
		out[i] = c
	}
	return out
}

func (Reader) ToBool(n document.Node) (bool, error) {
	y, ok := scalar(n, tagBool)
	if !ok {
		return false, mismatch("boolean", y)
	}
	var b bool
	if err := y.Decode(&b); err != nil {
		return false, mismatch("boolean", y)
	}
	return b, nil
}

func (Reader) ToInt(n document.Node) (int64, error) {
	y, ok := scalar(n, tagInt)
	if !ok {
		return 0, mismatch("integer", y)
	}
	var i int64
	if err := y.Decode(&i); err != nil {
		return 0, errors.Overflow(errors.PhaseDecode, y.Value, "int64")
	}
	return i, nil
}

func (Reader) ToUint(n document.Node) (uint64, error) {
	y, ok := scalar(n, tagInt)
	if !ok {
		return 0, mismatch("unsigned integer", y)
	}
	var u uint64
	if strings.HasPrefix(y.Value, "-") || y.Decode(&u) != nil {
		return 0, errors.Overflow(errors.PhaseDecode, y.Value, "uint64")
	}
	return u, nil
}

func (Reader) ToFloat(n document.Node) (float64, error) {
	y, ok := scalar(n, tagFloat, tagInt)
	if !ok {
		return 0, mismatch("number", y)
	}
	var f float64
	if err := y.Decode(&f); err != nil {
		return 0, errors.Overflow(errors.PhaseDecode, y.Value, "float64")
	}
	return f, nil
}

// ToString accepts string scalars and timestamps, which YAML resolves
// from unquoted dates.
func (Reader) ToString(n document.Node) (string, error) {
	y, ok := scalar(n, tagStr, tagTimestamp)
	if !ok {
		return "", mismatch("string", y)
	}
	return y.Value, nil
}

var (
	timeType = reflect.TypeOf(time.Time{})
	nodeType = reflect.TypeOf(yaml.Node{})
)

// CustomDecoder builds time.Time from YAML timestamps and quoted RFC 3339
// strings, and yaml.Node from any subtree.
func (Reader) CustomDecoder(t reflect.Type) (document.DecodeFunc, bool) {
	switch t {
	case timeType:
		return decodeTime, true
	case nodeType:
		return decodeNode, true
	}
	return nil, false
}

func decodeTime(n document.Node) (reflect.Value, error) {
	y, ok := scalar(n, tagTimestamp, tagStr)
	if !ok {
		return reflect.Value{}, mismatch("timestamp", y)
	}
	var (
		t   time.Time
		err error
	)
	if y.ShortTag() == tagTimestamp {
		err = y.Decode(&t)
	} else {
		t, err = time.Parse(time.RFC3339Nano, y.Value)
	}
	if err != nil {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(y.Value).
			GoType("time.Time").
			Cause(err).
			Detail("invalid timestamp").
			Build()
	}
	return reflect.ValueOf(t), nil
}

func decodeNode(n document.Node) (reflect.Value, error) {
	y := resolve(n)
	if y == nil {
		return reflect.ValueOf(yaml.Node{Kind: yaml.ScalarNode, Tag: tagNull, Value: "null"}), nil
	}
	return reflect.ValueOf(*y), nil
}
