package codec

import (
	"fmt"
	"reflect"

	"github.com/wippyai/shapecodec/codec/internal/shape"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
	"github.com/wippyai/shapecodec/result"
)

// decoder builds Go values from one document. A decoder is used by a
// single goroutine for a single call.
type decoder struct {
	r    document.Reader
	hook document.CustomConstructor
}

func newDecoder(r document.Reader) *decoder {
	d := &decoder{r: r}
	d.hook, _ = r.(document.CustomConstructor)
	return d
}

// decode returns a new value of sh.GoType built from n.
func (d *decoder) decode(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if sh.Overrides() {
		return sh.Custom.Decode(d.r, n)
	}
	if d.hook != nil {
		if fn, ok := d.hook.CustomDecoder(sh.GoType); ok {
			return d.decodeHook(sh, fn, n)
		}
	}

	switch sh.Kind {
	case shape.KindCustom:
		return sh.Custom.Decode(d.r, n)
	case shape.KindBox, shape.KindRef:
		return d.decodeWrapper(sh, n)
	case shape.KindPointer:
		return d.decodePointer(sh, n)
	case shape.KindOption:
		return d.decodeOption(sh, n)
	case shape.KindEnum:
		return d.decodeEnum(sh, n)
	case shape.KindTaggedUnion:
		return d.decodeTaggedUnion(sh, n)
	case shape.KindRecord:
		return d.decodeRecord(sh, n)
	case shape.KindTuple:
		return d.decodeTuple(sh, n)
	case shape.KindSum:
		return d.decodeSum(sh, n)
	case shape.KindSequence:
		return d.decodeSequence(sh, n)
	case shape.KindSet:
		return d.decodeSet(sh, n)
	case shape.KindMap:
		return d.decodeMap(sh, n)
	case shape.KindBool:
		b, err := d.r.ToBool(n)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(sh.GoType), nil
	case shape.KindInt:
		return d.decodeInt(sh, n)
	case shape.KindUint:
		return d.decodeUint(sh, n)
	case shape.KindFloat:
		return d.decodeFloat(sh, n)
	case shape.KindString:
		s, err := d.r.ToString(n)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(sh.GoType), nil
	default:
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			GoType(sh.GoType.String()).
			Detail("no decoder for shape kind %s", sh.Kind).
			Build()
	}
}

func (d *decoder) decodeHook(sh *shape.Shape, fn document.DecodeFunc, n document.Node) (reflect.Value, error) {
	v, err := fn(n)
	if err != nil {
		return reflect.Value{}, err
	}
	if !v.IsValid() || !v.Type().AssignableTo(sh.GoType) {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			GoType(sh.GoType.String()).
			Detail("backend constructor returned %v, not %s", v, sh.GoType).
			Build()
	}
	out := reflect.New(sh.GoType).Elem()
	out.Set(v)
	return out, nil
}

func (d *decoder) decodeWrapper(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if d.r.IsEmpty(n) {
		return reflect.Value{}, errors.NullNotAllowed(errors.PhaseDecode, sh.GoType.String())
	}
	inner, err := d.decode(sh.Elem, n)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(sh.Elem.GoType)
	p.Elem().Set(inner)

	out := reflect.New(sh.GoType)
	out.Interface().(own.Assigner).AssignPointer(p)
	return out.Elem(), nil
}

func (d *decoder) decodePointer(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if d.r.IsEmpty(n) {
		return reflect.Zero(sh.GoType), nil
	}
	inner, err := d.decode(sh.Elem, n)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(sh.Elem.GoType)
	p.Elem().Set(inner)
	return p, nil
}

func (d *decoder) decodeOption(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	out := reflect.New(sh.GoType)
	if d.r.IsEmpty(n) {
		return out.Elem(), nil
	}
	inner, err := d.decode(sh.Elem, n)
	if err != nil {
		return reflect.Value{}, err
	}
	out.Interface().(optional.Assigner).Assign(inner)
	return out.Elem(), nil
}

func (d *decoder) decodeEnum(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	name, err := d.r.ToString(n)
	if err != nil {
		return reflect.Value{}, errors.Wrap(errors.PhaseDecode, errors.KindTypeMismatch, err, "failed to decode literal")
	}
	out := reflect.New(sh.GoType)
	if err := out.Interface().(enum.Setter).Set(name); err != nil {
		return reflect.Value{}, errors.Wrap(errors.PhaseDecode, errors.KindUnknownMember, err, "failed to decode literal")
	}
	return out.Elem(), nil
}

// decodeTaggedUnion reads the discriminator, picks the first alternative
// whose enumeration accepts it and decodes the whole object as that
// alternative. A failure of the chosen alternative is final.
func (d *decoder) decodeTaggedUnion(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	obj, err := d.r.ToObject(n)
	if err != nil {
		return reflect.Value{}, err
	}

	disc := sh.Discriminator
	value, err := result.Try(result.From(d.r.Field(disc, obj)), d.r.ToString).
		OrElse(func(error) error { return errors.MissingDiscriminator(disc) }).
		Unwrap()
	if err != nil {
		return reflect.Value{}, err
	}

	for _, alt := range sh.Alternatives {
		if !alt.Enum.Contains(value) {
			continue
		}
		v, err := d.decode(alt.Shape, n)
		if err != nil {
			return reflect.Value{}, errors.AlternativeError(disc, value, err)
		}
		out := reflect.New(sh.GoType).Elem()
		out.Set(v)
		return out, nil
	}
	return reflect.Value{}, errors.NoMatchingAlternative(disc, value)
}

func (d *decoder) decodeRecord(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	obj, err := d.r.ToObject(n)
	if err != nil {
		return reflect.Value{}, err
	}
	members := d.r.Fields(obj)
	byName := make(map[string]document.Node, len(members))
	for _, m := range members {
		byName[m.Name] = m.Value
	}

	out := reflect.New(sh.GoType).Elem()
	for _, f := range sh.Fields {
		node, ok := byName[f.Name]
		if !ok {
			if f.Required {
				return reflect.Value{}, errors.MissingField(f.Name)
			}
			continue
		}
		v, err := d.decode(f.Shape, node)
		if err != nil {
			return reflect.Value{}, errors.FieldError(errors.PhaseDecode, f.Name, err)
		}
		out.Field(f.Index).Set(v)
	}
	return out, nil
}

func (d *decoder) decodeTuple(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	arr, err := d.r.ToArray(n)
	if err != nil {
		return reflect.Value{}, err
	}
	elems := d.r.Elements(arr)
	if len(elems) != len(sh.Fields) {
		return reflect.Value{}, errors.ArityMismatch(len(sh.Fields), len(elems))
	}

	out := reflect.New(sh.GoType).Elem()
	array := sh.IsArray()
	for i, f := range sh.Fields {
		v, err := d.decode(f.Shape, elems[i])
		if err != nil {
			return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindElementError).
				Cause(err).
				Detail("failed to decode tuple element %d", i).
				Build()
		}
		if array {
			out.Index(i).Set(v)
		} else {
			out.Field(f.Index).Set(v)
		}
	}
	return out, nil
}

// decodeSum tries each alternative in order and keeps the first success.
func (d *decoder) decodeSum(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	attempts := make([]error, 0, len(sh.Alternatives))
	for _, alt := range sh.Alternatives {
		v, err := d.decode(alt.Shape, n)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", alt.Shape.GoType, err))
			continue
		}
		out := reflect.New(sh.GoType).Elem()
		out.Set(v)
		return out, nil
	}
	return reflect.Value{}, errors.NoAlternativeMatched(attempts)
}

func (d *decoder) decodeSequence(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if d.r.IsEmpty(n) {
		return reflect.Zero(sh.GoType), nil
	}
	arr, err := d.r.ToArray(n)
	if err != nil {
		return reflect.Value{}, err
	}
	elems := d.r.Elements(arr)
	out := reflect.MakeSlice(sh.GoType, len(elems), len(elems))
	for i, e := range elems {
		v, err := d.decode(sh.Elem, e)
		if err != nil {
			return reflect.Value{}, errors.ElementError(errors.PhaseDecode, "sequence", err)
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// decodeSet reads an array into a set. Repeated elements collapse.
func (d *decoder) decodeSet(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if d.r.IsEmpty(n) {
		return reflect.Zero(sh.GoType), nil
	}
	arr, err := d.r.ToArray(n)
	if err != nil {
		return reflect.Value{}, err
	}
	elems := d.r.Elements(arr)
	out := reflect.MakeMapWithSize(sh.GoType, len(elems))
	present := reflect.Zero(sh.GoType.Elem())
	for _, e := range elems {
		v, err := d.decode(sh.Elem, e)
		if err != nil {
			return reflect.Value{}, errors.ElementError(errors.PhaseDecode, "set", err)
		}
		out.SetMapIndex(v, present)
	}
	return out, nil
}

func (d *decoder) decodeMap(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	if d.r.IsEmpty(n) {
		return reflect.Zero(sh.GoType), nil
	}
	obj, err := d.r.ToObject(n)
	if err != nil {
		return reflect.Value{}, err
	}
	members := d.r.Fields(obj)
	out := reflect.MakeMapWithSize(sh.GoType, len(members))
	for _, m := range members {
		key, err := d.decodeKey(sh.Key, m.Name)
		if err != nil {
			return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindElementError).
				Cause(err).
				Detail("failed to decode map key '%s'", m.Name).
				Build()
		}
		v, err := d.decode(sh.Elem, m.Value)
		if err != nil {
			return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindElementError).
				Cause(err).
				Detail("failed to decode map value for key '%s'", m.Name).
				Build()
		}
		out.SetMapIndex(key, v)
	}
	return out, nil
}

func (d *decoder) decodeKey(sh *shape.Shape, name string) (reflect.Value, error) {
	if sh.Kind == shape.KindEnum {
		k := reflect.New(sh.GoType)
		if err := k.Interface().(enum.Setter).Set(name); err != nil {
			return reflect.Value{}, err
		}
		return k.Elem(), nil
	}
	return reflect.ValueOf(name).Convert(sh.GoType), nil
}

func (d *decoder) decodeInt(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	i, err := d.r.ToInt(n)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(sh.GoType).Elem()
	if out.OverflowInt(i) {
		return reflect.Value{}, errors.Overflow(errors.PhaseDecode, i, sh.GoType.String())
	}
	out.SetInt(i)
	return out, nil
}

func (d *decoder) decodeUint(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	u, err := d.r.ToUint(n)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(sh.GoType).Elem()
	if out.OverflowUint(u) {
		return reflect.Value{}, errors.Overflow(errors.PhaseDecode, u, sh.GoType.String())
	}
	out.SetUint(u)
	return out, nil
}

func (d *decoder) decodeFloat(sh *shape.Shape, n document.Node) (reflect.Value, error) {
	f, err := d.r.ToFloat(n)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(sh.GoType).Elem()
	if out.OverflowFloat(f) {
		return reflect.Value{}, errors.Overflow(errors.PhaseDecode, f, sh.GoType.String())
	}
	out.SetFloat(f)
	return out, nil
}
