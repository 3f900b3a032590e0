package codec

import (
	"reflect"

	"github.com/wippyai/shapecodec/codec/internal/shape"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/result"
)

// Decode builds a T from n using the Default schema.
func Decode[T any](r document.Reader, n document.Node) (T, error) {
	return DecodeWith[T](Default, r, n)
}

// DecodeWith builds a T from n using s.
func DecodeWith[T any](s *Schema, r document.Reader, n document.Node) (T, error) {
	decoded := result.AndThen(result.From(s.shapeOf(typeOf[T]())), func(sh *shape.Shape) result.Result[reflect.Value] {
		return result.From(newDecoder(r).decode(sh, n))
	})
	return result.Map(decoded, func(v reflect.Value) T {
		var out T
		reflect.ValueOf(&out).Elem().Set(v)
		return out
	}).Unwrap()
}

// DecodeInto decodes n into the value ptr points to. The target is only
// written when decoding succeeds.
func (s *Schema) DecodeInto(r document.Reader, n document.Node, ptr any) error {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("DecodeInto needs a non-nil pointer, got %T", ptr).
			Build()
	}
	sh, err := s.shapeOf(pv.Type().Elem())
	if err != nil {
		return err
	}
	v, err := newDecoder(r).decode(sh, n)
	if err != nil {
		return err
	}
	pv.Elem().Set(v)
	return nil
}

// Encode renders v using the Default schema. The static type T selects
// the shape, so an interface T encodes as a tagged union or sum.
func Encode[T any](w document.Writer, v T) (document.Node, error) {
	return EncodeWith(Default, w, v)
}

// EncodeWith renders v using s.
func EncodeWith[T any](s *Schema, w document.Writer, v T) (document.Node, error) {
	return result.Try(result.From(s.shapeOf(typeOf[T]())), func(sh *shape.Shape) (document.Node, error) {
		return newEncoder(w, s.opts).encode(sh, reflect.ValueOf(&v).Elem())
	}).Unwrap()
}

// EncodeValue renders v by its dynamic type.
func (s *Schema) EncodeValue(w document.Writer, v any) (document.Node, error) {
	if v == nil {
		return w.Empty(), nil
	}
	rv := reflect.ValueOf(v)
	sh, err := s.shapeOf(rv.Type())
	if err != nil {
		return nil, err
	}
	return newEncoder(w, s.opts).encode(sh, rv)
}

// Check compiles the shape of t and reports why it cannot be coded.
func (s *Schema) Check(t reflect.Type) error {
	_, err := s.shapeOf(t)
	return err
}
