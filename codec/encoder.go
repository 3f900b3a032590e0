package codec

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/wippyai/shapecodec/codec/internal/shape"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
)

// encoder renders Go values into one document.
type encoder struct {
	w        document.Writer
	hook     document.CustomEmitter
	sortSets bool
	sortMaps bool
}

func newEncoder(w document.Writer, opts Options) *encoder {
	e := &encoder{w: w, sortSets: opts.SortSets, sortMaps: opts.SortMaps}
	e.hook, _ = w.(document.CustomEmitter)
	return e
}

func (e *encoder) encode(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	if sh.Overrides() {
		return sh.Custom.Encode(e.w, v)
	}
	if e.hook != nil {
		if fn, ok := e.hook.CustomEncoder(sh.GoType); ok {
			return fn(v)
		}
	}

	switch sh.Kind {
	case shape.KindCustom:
		return sh.Custom.Encode(e.w, v)
	case shape.KindBox, shape.KindRef:
		p, ok := v.Interface().(own.Wrapper).Wrapped()
		if !ok {
			return nil, errors.NullNotAllowed(errors.PhaseEncode, sh.GoType.String())
		}
		return e.encode(sh.Elem, p.Elem())
	case shape.KindPointer:
		if v.IsNil() {
			return e.w.Empty(), nil
		}
		return e.encode(sh.Elem, v.Elem())
	case shape.KindOption:
		inner, ok := v.Interface().(optional.Reflector).Reflect()
		if !ok {
			return e.w.Empty(), nil
		}
		return e.encode(sh.Elem, inner)
	case shape.KindEnum:
		return e.w.FromString(v.Interface().(enum.Member).String()), nil
	case shape.KindTaggedUnion, shape.KindSum:
		return e.encodeUnion(sh, v)
	case shape.KindRecord:
		return e.encodeRecord(sh, v)
	case shape.KindTuple:
		return e.encodeTuple(sh, v)
	case shape.KindSequence:
		return e.encodeSequence(sh, v)
	case shape.KindSet:
		return e.encodeSet(sh, v)
	case shape.KindMap:
		return e.encodeMap(sh, v)
	case shape.KindBool:
		return e.w.FromBool(v.Bool()), nil
	case shape.KindInt:
		return e.w.FromInt(v.Int()), nil
	case shape.KindUint:
		return e.w.FromUint(v.Uint()), nil
	case shape.KindFloat:
		return e.w.FromFloat(v.Float()), nil
	case shape.KindString:
		return e.w.FromString(v.String()), nil
	default:
		return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
			GoType(sh.GoType.String()).
			Detail("no encoder for shape kind %s", sh.Kind).
			Build()
	}
}

// encodeUnion encodes the dynamic value of an interface as the
// alternative registered for its exact type.
func (e *encoder) encodeUnion(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	if v.IsNil() {
		return nil, errors.NullNotAllowed(errors.PhaseEncode, sh.GoType.String())
	}
	dyn := v.Elem()
	alt, ok := sh.Alternative(dyn.Type())
	if !ok {
		return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
			GoType(dyn.Type().String()).
			Detail("%s is not an alternative of %s", dyn.Type(), sh.GoType).
			Build()
	}
	return e.encode(alt.Shape, dyn)
}

// encodeRecord writes fields in declaration order. Nil pointers and
// empty Options in optional fields are left out.
func (e *encoder) encodeRecord(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	obj := e.w.NewObject()
	for _, f := range sh.Fields {
		fv := v.Field(f.Index)
		if !f.Required && absent(fv) {
			continue
		}
		node, err := e.encode(f.Shape, fv)
		if err != nil {
			return nil, errors.FieldError(errors.PhaseEncode, f.Name, err)
		}
		e.w.SetField(obj, f.Name, node)
	}
	return e.w.ObjectNode(obj), nil
}

func absent(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return v.IsNil()
	}
	if o, ok := v.Interface().(optional.Reflector); ok {
		_, some := o.Reflect()
		return !some
	}
	return false
}

func (e *encoder) encodeTuple(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	arr := e.w.NewArray()
	array := sh.IsArray()
	for i, f := range sh.Fields {
		var fv reflect.Value
		if array {
			fv = v.Index(i)
		} else {
			fv = v.Field(f.Index)
		}
		node, err := e.encode(f.Shape, fv)
		if err != nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindElementError).
				Cause(err).
				Detail("failed to encode tuple element %d", i).
				Build()
		}
		e.w.Append(arr, node)
	}
	return e.w.ArrayNode(arr), nil
}

func (e *encoder) encodeSequence(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	if v.IsNil() {
		return e.w.Empty(), nil
	}
	arr := e.w.NewArray()
	for i := 0; i < v.Len(); i++ {
		node, err := e.encode(sh.Elem, v.Index(i))
		if err != nil {
			return nil, errors.ElementError(errors.PhaseEncode, "sequence", err)
		}
		e.w.Append(arr, node)
	}
	return e.w.ArrayNode(arr), nil
}

func (e *encoder) encodeSet(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	if v.IsNil() {
		return e.w.Empty(), nil
	}
	keys := v.MapKeys()
	if e.sortSets {
		sortValues(keys)
	}
	arr := e.w.NewArray()
	for _, k := range keys {
		node, err := e.encode(sh.Elem, k)
		if err != nil {
			return nil, errors.ElementError(errors.PhaseEncode, "set", err)
		}
		e.w.Append(arr, node)
	}
	return e.w.ArrayNode(arr), nil
}

func (e *encoder) encodeMap(sh *shape.Shape, v reflect.Value) (document.Node, error) {
	if v.IsNil() {
		return e.w.Empty(), nil
	}
	type member struct {
		value reflect.Value
		name  string
	}
	members := make([]member, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		members = append(members, member{name: keyName(sh.Key, iter.Key()), value: iter.Value()})
	}
	if e.sortMaps {
		slices.SortFunc(members, func(a, b member) int { return cmp.Compare(a.name, b.name) })
	}

	obj := e.w.NewObject()
	for _, m := range members {
		node, err := e.encode(sh.Elem, m.value)
		if err != nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindElementError).
				Cause(err).
				Detail("failed to encode map value for key '%s'", m.name).
				Build()
		}
		e.w.SetField(obj, m.name, node)
	}
	return e.w.ObjectNode(obj), nil
}

func keyName(sh *shape.Shape, k reflect.Value) string {
	if sh.Kind == shape.KindEnum {
		return k.Interface().(enum.Member).String()
	}
	return k.String()
}

// sortValues orders set elements of scalar or enumeration kind. Other
// element kinds keep map iteration order.
func sortValues(vals []reflect.Value) {
	if len(vals) < 2 {
		return
	}
	t := vals[0].Type()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(vals, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		slices.SortFunc(vals, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(vals, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	case reflect.String:
		slices.SortFunc(vals, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Bool:
		slices.SortFunc(vals, func(a, b reflect.Value) int {
			switch {
			case a.Bool() == b.Bool():
				return 0
			case !a.Bool():
				return -1
			default:
				return 1
			}
		})
	default:
		if enum.IsLiteral(t) {
			slices.SortFunc(vals, func(a, b reflect.Value) int {
				return cmp.Compare(a.Interface().(enum.Member).Value(), b.Interface().(enum.Member).Value())
			})
		}
	}
}
