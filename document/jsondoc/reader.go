package jsondoc

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
)

// Reader reads trees produced by Parse or by Writer. Plain Go trees of
// map[string]any, []any, float64, string, bool and nil are accepted too.
type Reader struct{}

var (
	_ document.Reader            = Reader{}
	_ document.CustomConstructor = Reader{}
)

func kindName(n any) string {
	switch v := n.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64, uint64:
		return "number"
	case string:
		return "string"
	case *Object, map[string]any:
		return "object"
	case *Array, []any:
		return "array"
	case json.RawMessage:
		if r, ok := resolveRaw(v).(json.RawMessage); ok {
			return "malformed raw json of " + strconv.Itoa(len(r)) + " bytes"
		}
		return kindName(resolveRaw(v))
	default:
		return reflect.TypeOf(n).String()
	}
}

func mismatch(want string, n any) error {
	return errors.TypeMismatch(errors.PhaseDecode, want, kindName(n))
}

// resolveRaw parses an embedded raw message so it can be read like any
// other subtree. Malformed raw data reads as itself and fails every
// conversion.
func resolveRaw(raw json.RawMessage) any {
	v, err := Parse(raw, Options{})
	if err != nil {
		return raw
	}
	return v
}

func resolve(n document.Node) any {
	if raw, ok := n.(json.RawMessage); ok {
		return resolveRaw(raw)
	}
	return n
}

func (Reader) IsEmpty(n document.Node) bool {
	return resolve(n) == nil
}

func (Reader) ToObject(n document.Node) (document.Object, error) {
	switch v := resolve(n).(type) {
	case *Object, map[string]any:
		return v, nil
	default:
		return nil, mismatch("object", v)
	}
}

func (Reader) ToArray(n document.Node) (document.Array, error) {
	switch v := resolve(n).(type) {
	case *Array, []any:
		return v, nil
	default:
		return nil, mismatch("array", v)
	}
}

func (Reader) Field(name string, obj document.Object) (document.Node, error) {
	switch o := obj.(type) {
	case *Object:
		if v, ok := o.Get(name); ok {
			return v, nil
		}
	case map[string]any:
		if v, ok := o[name]; ok {
			return v, nil
		}
	}
	return nil, errors.FieldNotFound(name)
}

func (Reader) Fields(obj document.Object) []document.Field {
	switch o := obj.(type) {
	case *Object:
		out := make([]document.Field, 0, o.Len())
		for _, k := range o.keys {
			out = append(out, document.Field{Name: k, Value: o.values[k]})
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]document.Field, len(keys))
		for i, k := range keys {
			out[i] = document.Field{Name: k, Value: o[k]}
		}
		return out
	}
	return nil
}

func (Reader) Elements(arr document.Array) []document.Node {
	var items []any
	switch a := arr.(type) {
	case *Array:
		items = a.items
	case []any:
		items = a
	}
	out := make([]document.Node, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

func (Reader) ToBool(n document.Node) (bool, error) {
	if b, ok := resolve(n).(bool); ok {
		return b, nil
	}
	return false, mismatch("boolean", resolve(n))
}

func (Reader) ToString(n document.Node) (string, error) {
	if s, ok := resolve(n).(string); ok {
		return s, nil
	}
	return "", mismatch("string", resolve(n))
}

func (Reader) ToInt(n document.Node) (int64, error) {
	switch v := resolve(n).(type) {
	case json.Number:
		i, err := v.Int64()
		if err == nil {
			return i, nil
		}
		if isIntegerLiteral(string(v)) {
			return 0, errors.Overflow(errors.PhaseDecode, string(v), "int64")
		}
		return 0, mismatch("integer", v)
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseDecode, v, "int64")
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, mismatch("integer", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseDecode, v, "int64")
		}
		return int64(v), nil
	default:
		return 0, mismatch("integer", v)
	}
}

func (Reader) ToUint(n document.Node) (uint64, error) {
	switch v := resolve(n).(type) {
	case json.Number:
		s := string(v)
		if !isIntegerLiteral(s) {
			return 0, mismatch("unsigned integer", v)
		}
		if strings.HasPrefix(s, "-") {
			return 0, errors.Overflow(errors.PhaseDecode, s, "uint64")
		}
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, errors.Overflow(errors.PhaseDecode, s, "uint64")
		}
		return u, nil
	case uint64:
		return v, nil
	case int64:
		if v < 0 {
			return 0, errors.Overflow(errors.PhaseDecode, v, "uint64")
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, errors.Overflow(errors.PhaseDecode, v, "uint64")
		}
		return uint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, mismatch("unsigned integer", v)
		}
		if v < 0 || v >= math.MaxUint64 {
			return 0, errors.Overflow(errors.PhaseDecode, v, "uint64")
		}
		return uint64(v), nil
	default:
		return 0, mismatch("unsigned integer", v)
	}
}

func (Reader) ToFloat(n document.Node) (float64, error) {
	switch v := resolve(n).(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errors.Overflow(errors.PhaseDecode, string(v), "float64")
		}
		return f, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, mismatch("number", v)
	}
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var (
	numberType = reflect.TypeOf(json.Number(""))
	rawType    = reflect.TypeOf(json.RawMessage(nil))
)

// CustomDecoder builds json.Number from any number node, keeping its
// text, and json.RawMessage from any subtree.
func (Reader) CustomDecoder(t reflect.Type) (document.DecodeFunc, bool) {
	switch t {
	case numberType:
		return decodeNumber, true
	case rawType:
		return decodeRaw, true
	}
	return nil, false
}

func decodeNumber(n document.Node) (reflect.Value, error) {
	switch v := resolve(n).(type) {
	case json.Number:
		return reflect.ValueOf(v), nil
	case int64:
		return reflect.ValueOf(json.Number(strconv.FormatInt(v, 10))), nil
	case uint64:
		return reflect.ValueOf(json.Number(strconv.FormatUint(v, 10))), nil
	case int:
		return reflect.ValueOf(json.Number(strconv.Itoa(v))), nil
	case float64:
		return reflect.ValueOf(json.Number(strconv.FormatFloat(v, 'g', -1, 64))), nil
	default:
		return reflect.Value{}, mismatch("number", v)
	}
}

func decodeRaw(n document.Node) (reflect.Value, error) {
	if raw, ok := n.(json.RawMessage); ok {
		return reflect.ValueOf(append(json.RawMessage(nil), raw...)), nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return reflect.Value{}, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "capture raw json")
	}
	return reflect.ValueOf(json.RawMessage(data)), nil
}
