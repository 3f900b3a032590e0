package jsondoc

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
)

// Writer builds trees of *Object, *Array and scalars that encoding/json
// marshals in build order.
type Writer struct{}

var (
	_ document.Writer        = Writer{}
	_ document.CustomEmitter = Writer{}
)

func (Writer) NewObject() document.Object { return NewObject() }
func (Writer) NewArray() document.Array   { return NewArray() }

func (Writer) SetField(obj document.Object, name string, value document.Node) {
	obj.(*Object).Set(name, value)
}

func (Writer) Append(arr document.Array, value document.Node) {
	arr.(*Array).Append(value)
}

func (Writer) ObjectNode(obj document.Object) document.Node { return obj }
func (Writer) ArrayNode(arr document.Array) document.Node   { return arr }

func (Writer) Empty() document.Node { return nil }

func (Writer) IsEmpty(n document.Node) bool { return n == nil }

func (Writer) FromBool(v bool) document.Node     { return v }
func (Writer) FromInt(v int64) document.Node     { return v }
func (Writer) FromUint(v uint64) document.Node   { return v }
func (Writer) FromString(v string) document.Node { return v }

// FromFloat stores v. NaN and infinities have no JSON form and become
// null.
func (Writer) FromFloat(v float64) document.Node {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// CustomEncoder emits json.Number as a bare number and json.RawMessage
// verbatim. Floats are checked for NaN and infinities.
func (Writer) CustomEncoder(t reflect.Type) (document.EncodeFunc, bool) {
	switch t {
	case numberType:
		return encodeNumber, true
	case rawType:
		return encodeRaw, true
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return encodeFloat, true
	}
	return nil, false
}

func encodeFloat(v reflect.Value) (document.Node, error) {
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Value(f).
			GoType(v.Type().String()).
			Detail("%v has no JSON representation", f).
			Build()
	}
	return f, nil
}

func encodeNumber(v reflect.Value) (document.Node, error) {
	n := json.Number(v.String())
	if n == "" {
		n = "0"
	}
	if _, err := n.Float64(); err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Value(v.String()).
			Detail("%q is not a JSON number", v.String()).
			Build()
	}
	return n, nil
}

func encodeRaw(v reflect.Value) (document.Node, error) {
	raw := json.RawMessage(v.Bytes())
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("raw message is not valid JSON").
			Build()
	}
	return append(json.RawMessage(nil), raw...), nil
}
