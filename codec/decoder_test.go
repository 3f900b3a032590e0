package codec_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/maxatome/go-testdeep/td"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/document/jsondoc"
	"github.com/wippyai/shapecodec/document/yamldoc"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
	"github.com/wippyai/shapecodec/tuple"
)

type Person struct {
	Name  string                  `codec:"name"`
	Email *string                 `codec:"email"`
	Nick  optional.Option[string] `codec:"nick"`
	Age   int                     `codec:"age"`
}

type colors struct{}

func (colors) Members() []string { return []string{"a", "b"} }

type Painted struct {
	X enum.Literal[colors] `codec:"x"`
}

func TestDecodeRecord(t *testing.T) {
	s := newSchema(t)

	t.Run("all fields", func(t *testing.T) {
		got, err := decode[Person](t, s, `{"name":"Ada","email":"ada@example.com","nick":"ad","age":36}`)
		if err != nil {
			t.Fatal(err)
		}
		email := "ada@example.com"
		td.Cmp(t, got, Person{Name: "Ada", Email: &email, Nick: optional.Some("ad"), Age: 36})
	})

	t.Run("optional fields missing or null", func(t *testing.T) {
		got, err := decode[Person](t, s, `{"name":"Ada","email":null,"age":1}`)
		if err != nil {
			t.Fatal(err)
		}
		td.Cmp(t, got, Person{Name: "Ada", Age: 1})
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		_, err := decode[Person](t, s, `{"name":"Ada","age":1,"extra":[1,2]}`)
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("required field missing", func(t *testing.T) {
		_, err := decode[Person](t, s, `{"name":"Ada"}`)
		if errors.KindOf(err) != errors.KindMissingField {
			t.Fatalf("Kind = %s, want missing_field", errors.KindOf(err))
		}
		td.Cmp(t, err.Error(), "field named 'age' not found")
	})

	t.Run("required field null", func(t *testing.T) {
		_, err := decode[Person](t, s, `{"name":null,"age":1}`)
		td.Cmp(t, err.Error(), "failed to decode field 'name': expected string, got null")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := decode[Person](t, s, `"Ada"`)
		if errors.KindOf(err) != errors.KindTypeMismatch {
			t.Errorf("Kind = %s, want type_mismatch", errors.KindOf(err))
		}
	})
}

func TestDecodeErrorsOutermostFirst(t *testing.T) {
	s := newSchema(t)

	_, err := decode[Painted](t, s, `{"x":"c"}`)
	want := "failed to decode field 'x': failed to decode literal: literal does not support 'c'; supported: 'a', 'b'."
	td.Cmp(t, err.Error(), want)
	if !errors.HasKind(err, errors.KindUnknownMember) {
		t.Error("chain should contain unknown_member")
	}
}

func TestDecodeScalars(t *testing.T) {
	s := newSchema(t)

	t.Run("integers", func(t *testing.T) {
		v, err := decode[int8](t, s, `-128`)
		td.CmpNoError(t, err)
		td.Cmp(t, v, int8(-128))

		_, err = decode[int8](t, s, `300`)
		td.Cmp(t, errors.KindOf(err), errors.KindOverflow)

		_, err = decode[uint](t, s, `-1`)
		td.Cmp(t, errors.KindOf(err), errors.KindOverflow)

		_, err = decode[int](t, s, `1.5`)
		td.Cmp(t, errors.KindOf(err), errors.KindTypeMismatch)

		big, err := decode[uint64](t, s, `18446744073709551615`)
		td.CmpNoError(t, err)
		td.Cmp(t, big, uint64(18446744073709551615))
	})

	t.Run("floats", func(t *testing.T) {
		v, err := decode[float32](t, s, `1.5`)
		td.CmpNoError(t, err)
		td.Cmp(t, v, float32(1.5))

		_, err = decode[float32](t, s, `1e300`)
		td.Cmp(t, errors.KindOf(err), errors.KindOverflow)

		i, err := decode[float64](t, s, `3`)
		td.CmpNoError(t, err)
		td.Cmp(t, i, 3.0)
	})

	t.Run("bool and string", func(t *testing.T) {
		b, err := decode[bool](t, s, `true`)
		td.CmpNoError(t, err)
		td.CmpTrue(t, b)

		_, err = decode[string](t, s, `1`)
		td.Cmp(t, err.Error(), "expected string, got number")
	})

	t.Run("named types", func(t *testing.T) {
		type celsius float64
		type id string
		c, err := decode[celsius](t, s, `21.5`)
		td.CmpNoError(t, err)
		td.Cmp(t, c, celsius(21.5))

		v, err := decode[id](t, s, `"u1"`)
		td.CmpNoError(t, err)
		td.Cmp(t, v, id("u1"))
	})
}

func TestDecodeSequence(t *testing.T) {
	s := newSchema(t)

	got, err := decode[[]int](t, s, `[1,2,3]`)
	td.CmpNoError(t, err)
	td.Cmp(t, got, []int{1, 2, 3})

	_, err = decode[[]int](t, s, `[1,2,"x"]`)
	if errors.KindOf(err) != errors.KindElementError {
		t.Fatalf("Kind = %s, want element_error", errors.KindOf(err))
	}
	td.Cmp(t, err.Error(), "failed to decode sequence element: expected integer, got string")

	empty, err := decode[[]int](t, s, `[]`)
	td.CmpNoError(t, err)
	td.Cmp(t, empty, []int{})

	null, err := decode[[]int](t, s, `null`)
	td.CmpNoError(t, err)
	td.CmpNil(t, null)
}

func TestDecodeSet(t *testing.T) {
	s := newSchema(t)

	got, err := decode[map[int]struct{}](t, s, `[1,1,2]`)
	td.CmpNoError(t, err)
	td.Cmp(t, got, map[int]struct{}{1: {}, 2: {}})
	td.CmpLen(t, got, 2)

	_, err = decode[map[int]struct{}](t, s, `{"a":1}`)
	td.Cmp(t, errors.KindOf(err), errors.KindTypeMismatch)
}

func TestDecodeMap(t *testing.T) {
	s := newSchema(t)

	got, err := decode[map[string]int](t, s, `{"a":1,"b":2}`)
	td.CmpNoError(t, err)
	td.Cmp(t, got, map[string]int{"a": 1, "b": 2})

	byLevel, err := decode[map[Level]bool](t, s, `{"info":true,"warn":false}`)
	td.CmpNoError(t, err)
	td.Cmp(t, byLevel, map[Level]bool{
		enum.Make[levels]("info"): true,
		enum.Make[levels]("warn"): false,
	})

	_, err = decode[map[Level]bool](t, s, `{"trace":true}`)
	td.Cmp(t, err.Error(), "failed to decode map key 'trace': literal does not support 'trace'; supported: 'debug', 'info', 'warn'.")

	_, err = decode[map[string]int](t, s, `{"a":"one"}`)
	td.Cmp(t, err.Error(), "failed to decode map value for key 'a': expected integer, got string")
}

func TestDecodeTuple(t *testing.T) {
	s := newSchema(t)

	pair, err := decode[tuple.Pair[string, int]](t, s, `["a",1]`)
	td.CmpNoError(t, err)
	td.Cmp(t, pair, tuple.NewPair("a", 1))

	arr, err := decode[[3]int](t, s, `[1,2,3]`)
	td.CmpNoError(t, err)
	td.Cmp(t, arr, [3]int{1, 2, 3})

	_, err = decode[tuple.Pair[string, int]](t, s, `["a"]`)
	td.Cmp(t, errors.KindOf(err), errors.KindArityMismatch)
	td.Cmp(t, err.Error(), "expected 2 elements, got 1")

	_, err = decode[tuple.Pair[string, int]](t, s, `["a","b"]`)
	td.Cmp(t, err.Error(), "failed to decode tuple element 1: expected integer, got string")
}

func TestDecodeWrappers(t *testing.T) {
	s := newSchema(t)

	box, err := decode[own.Box[int]](t, s, `5`)
	td.CmpNoError(t, err)
	td.Cmp(t, box.Get(), 5)

	_, err = decode[own.Box[int]](t, s, `null`)
	td.Cmp(t, errors.KindOf(err), errors.KindNullNotAllowed)

	ref, err := decode[own.Ref[string]](t, s, `"x"`)
	td.CmpNoError(t, err)
	td.CmpTrue(t, ref.Valid())
	td.Cmp(t, ref.Get(), "x")

	_, err = decode[own.Ref[string]](t, s, `null`)
	td.Cmp(t, errors.KindOf(err), errors.KindNullNotAllowed)

	p, err := decode[*int](t, s, `null`)
	td.CmpNoError(t, err)
	td.CmpNil(t, p)

	opt, err := decode[optional.Option[int]](t, s, `7`)
	td.CmpNoError(t, err)
	td.Cmp(t, opt, optional.Some(7))
}

func TestDecodeRecursive(t *testing.T) {
	s := newSchema(t)

	tree, err := decode[Tree](t, s, `{"name":"root","children":[{"name":"a","children":[]},{"name":"b","children":[{"name":"c","children":[]}]}]}`)
	td.CmpNoError(t, err)
	td.Cmp(t, tree.Children[1].Children[0].Name, "c")

	list, err := decode[List](t, s, `{"value":1,"next":{"value":2,"next":null}}`)
	td.CmpNoError(t, err)
	td.Cmp(t, list, List{Value: 1, Next: &List{Value: 2}})
}

func TestDecodeInto(t *testing.T) {
	s := newSchema(t)

	target := Person{Name: "keep", Age: 9}
	err := s.DecodeInto(jsondoc.Reader{}, parse(t, `{"name":"new"}`), &target)
	if err == nil {
		t.Fatal("expected missing field error")
	}
	td.Cmp(t, target, Person{Name: "keep", Age: 9})

	err = s.DecodeInto(jsondoc.Reader{}, parse(t, `{"name":"new","age":1}`), &target)
	td.CmpNoError(t, err)
	td.Cmp(t, target, Person{Name: "new", Age: 1})

	err = s.DecodeInto(jsondoc.Reader{}, parse(t, `{}`), target)
	td.Cmp(t, errors.KindOf(err), errors.KindInvalidData)
}

func TestDecodeCustomCoder(t *testing.T) {
	s := newSchema(t)

	type celsius float64
	err := codec.RegisterCoder(s, codec.Coder[celsius]{
		Decode: func(r document.Reader, n document.Node) (celsius, error) {
			text, err := r.ToString(n)
			if err != nil {
				return 0, err
			}
			var c float64
			if _, err := fmt.Sscanf(text, "%gC", &c); err != nil {
				return 0, err
			}
			return celsius(c), nil
		},
		Encode: func(w document.Writer, v celsius) (document.Node, error) {
			return w.FromString(fmt.Sprintf("%gC", float64(v))), nil
		},
	})
	td.CmpNoError(t, err)

	got, err := decode[[]celsius](t, s, `["21.5C","-3C"]`)
	td.CmpNoError(t, err)
	td.Cmp(t, got, []celsius{21.5, -3})
	td.Cmp(t, render(t, s, got), `["21.5C","-3C"]`)

	err = codec.RegisterCoder(s, codec.Coder[celsius]{})
	td.Cmp(t, errors.KindOf(err), errors.KindInvalidSchema)
}

func TestDecodeTime(t *testing.T) {
	s := newSchema(t)

	got, err := decode[time.Time](t, s, `"2024-03-01T10:00:00Z"`)
	td.CmpNoError(t, err)
	td.Cmp(t, got, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	_, err = decode[time.Time](t, s, `"yesterday"`)
	td.Cmp(t, errors.KindOf(err), errors.KindInvalidData)
}

func TestBackendConstructor(t *testing.T) {
	s := newSchema(t)

	type envelope struct {
		Size    json.Number     `codec:"size"`
		Payload json.RawMessage `codec:"payload"`
	}
	src := `{"size":12345678901234567890,"payload":{"b":[1,2],"a":null}}`
	got, err := decode[envelope](t, s, src)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Size, json.Number("12345678901234567890"))
	td.Cmp(t, string(got.Payload), `{"b":[1,2],"a":null}`)
	td.Cmp(t, render(t, s, got), src)
}

func unixCoder() codec.Coder[time.Time] {
	return codec.Coder[time.Time]{
		Decode: func(r document.Reader, n document.Node) (time.Time, error) {
			sec, err := r.ToInt(n)
			if err != nil {
				return time.Time{}, err
			}
			return time.Unix(sec, 0).UTC(), nil
		},
		Encode: func(w document.Writer, v time.Time) (document.Node, error) {
			return w.FromInt(v.Unix()), nil
		},
	}
}

func TestRegisteredCoderBeatsBackendHook(t *testing.T) {
	s := newSchema(t)
	td.CmpNoError(t, codec.RegisterCoder(s, unixCoder()))

	type stamped struct {
		At time.Time `codec:"at"`
	}
	at := stamped{At: time.Unix(1700000000, 0).UTC()}

	td.Cmp(t, render(t, s, at), `{"at":1700000000}`)

	node, err := codec.EncodeWith(s, yamldoc.Writer{}, at)
	td.CmpNoError(t, err)
	out, err := yamldoc.Render(node, yamldoc.DefaultOptions())
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "at: 1700000000\n")

	tree, err := yamldoc.Parse([]byte("at: 1700000000\n"))
	td.CmpNoError(t, err)
	got, err := codec.DecodeWith[stamped](s, yamldoc.Reader{}, tree)
	td.CmpNoError(t, err)
	td.Cmp(t, got, at)

	td.CmpNoError(t, codec.RegisterCoder(s, codec.Coder[json.Number]{
		Decode: func(r document.Reader, n document.Node) (json.Number, error) {
			text, err := r.ToString(n)
			return json.Number(text), err
		},
		Encode: func(w document.Writer, v json.Number) (document.Node, error) {
			return w.FromString(string(v)), nil
		},
	}))
	td.Cmp(t, render(t, s, json.Number("12")), `"12"`)
	num, err := decode[json.Number](t, s, `"12"`)
	td.CmpNoError(t, err)
	td.Cmp(t, num, json.Number("12"))
}
