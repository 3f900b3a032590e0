package jsondoc_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/wippyai/shapecodec/document/jsondoc"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
)

type service struct {
	Name    string                `codec:"name"`
	Port    int                   `codec:"port"`
	Hosts   []string              `codec:"hosts"`
	Timeout optional.Option[int]  `codec:"timeout"`
	Extra   map[string]float64    `codec:"extra"`
	Owner   *string               `codec:"owner"`
	Weights map[string]struct{}   `codec:"weights"`
	Meta    json.RawMessage       `codec:"meta"`
	Serial  json.Number           `codec:"serial"`
	Notes   optional.Option[bool] `codec:"notes"`
}

func TestParse(t *testing.T) {
	t.Run("keeps member order", func(t *testing.T) {
		tree, err := jsondoc.Parse([]byte(`{"b":1,"a":{"d":[],"c":null}}`), jsondoc.Options{})
		td.CmpNoError(t, err)
		obj := tree.(*jsondoc.Object)
		td.Cmp(t, obj.Keys(), []string{"b", "a"})

		out, err := jsondoc.Render(tree, jsondoc.Options{})
		td.CmpNoError(t, err)
		td.Cmp(t, string(out), `{"b":1,"a":{"d":[],"c":null}}`)
	})

	t.Run("numbers stay textual", func(t *testing.T) {
		tree, err := jsondoc.Parse([]byte(`[12345678901234567890, 1.50]`), jsondoc.Options{})
		td.CmpNoError(t, err)
		td.Cmp(t, tree.(*jsondoc.Array).Items(), []any{json.Number("12345678901234567890"), json.Number("1.50")})
	})

	t.Run("comments and trailing commas", func(t *testing.T) {
		src := "{\n  // listener\n  \"port\": 80, /* default */\n  \"hosts\": [\"a\",],\n}"
		tree, err := jsondoc.Parse([]byte(src), jsondoc.DefaultOptions())
		td.CmpNoError(t, err)
		td.Cmp(t, tree.(*jsondoc.Object).Keys(), []string{"port", "hosts"})

		_, err = jsondoc.Parse([]byte(src), jsondoc.Options{})
		td.Cmp(t, errors.KindOf(err), errors.KindInvalidData)
		td.CmpHasPrefix(t, err.Error(), "parse json: ")
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			src  string
			msg  string
		}{
			{name: "trailing data", src: `{} {}`, msg: "parse json: unexpected data after top-level value"},
			{name: "empty", src: ``, msg: "parse json: unexpected EOF"},
			{name: "truncated", src: `{"a":`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := jsondoc.Parse([]byte(tt.src), jsondoc.Options{})
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.msg != "" {
					td.Cmp(t, err.Error(), tt.msg)
				}
			})
		}
	})
}

func TestReaderScalars(t *testing.T) {
	r := jsondoc.Reader{}

	tests := []struct {
		name string
		run  func() (any, error)
		want any
		kind errors.Kind
	}{
		{name: "int", run: func() (any, error) { return r.ToInt(json.Number("-12")) }, want: int64(-12)},
		{name: "int from float literal", run: func() (any, error) { return r.ToInt(json.Number("1.5")) }, kind: errors.KindTypeMismatch},
		{name: "int overflow", run: func() (any, error) { return r.ToInt(json.Number("99999999999999999999")) }, kind: errors.KindOverflow},
		{name: "int from whole float64", run: func() (any, error) { return r.ToInt(float64(3)) }, want: int64(3)},
		{name: "uint", run: func() (any, error) { return r.ToUint(json.Number("18446744073709551615")) }, want: uint64(18446744073709551615)},
		{name: "uint negative", run: func() (any, error) { return r.ToUint(json.Number("-1")) }, kind: errors.KindOverflow},
		{name: "float", run: func() (any, error) { return r.ToFloat(json.Number("2.5e3")) }, want: 2500.0},
		{name: "float overflow", run: func() (any, error) { return r.ToFloat(json.Number("1e400")) }, kind: errors.KindOverflow},
		{name: "string", run: func() (any, error) { return r.ToString("x") }, want: "x"},
		{name: "string from number", run: func() (any, error) { return r.ToString(json.Number("1")) }, kind: errors.KindTypeMismatch},
		{name: "bool", run: func() (any, error) { return r.ToBool(true) }, want: true},
		{name: "raw bool", run: func() (any, error) { return r.ToBool(json.RawMessage(`false`)) }, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if tt.kind != "" {
				td.Cmp(t, errors.KindOf(err), tt.kind)
				return
			}
			td.CmpNoError(t, err)
			td.Cmp(t, got, tt.want)
		})
	}
}

func TestReaderPlainTrees(t *testing.T) {
	r := jsondoc.Reader{}

	obj, err := r.ToObject(map[string]any{"b": 1.0, "a": "x"})
	td.CmpNoError(t, err)
	fields := r.Fields(obj)
	td.Cmp(t, len(fields), 2)
	td.Cmp(t, fields[0].Name, "a")
	td.Cmp(t, fields[1].Name, "b")

	_, err = r.Field("missing", obj)
	td.Cmp(t, errors.KindOf(err), errors.KindFieldNotFound)

	_, err = r.ToArray("x")
	td.CmpString(t, err, "expected array, got string")

	td.CmpTrue(t, r.IsEmpty(nil))
	td.CmpTrue(t, r.IsEmpty(json.RawMessage(`null`)))
	td.CmpFalse(t, r.IsEmpty(json.RawMessage(`0`)))
}

func TestUnmarshal(t *testing.T) {
	src := `{
		// service definition
		"name": "api",
		"port": 8080,
		"hosts": ["a", "b"],
		"extra": {"x": 1.5},
		"weights": ["w2", "w1"],
		"meta": {"z": 1, "y": [true]},
		"serial": 12345678901234567890,
		"unknown": "ignored",
	}`

	got, err := jsondoc.Unmarshal[service]([]byte(src))
	td.CmpNoError(t, err)
	td.Cmp(t, got, service{
		Name:    "api",
		Port:    8080,
		Hosts:   []string{"a", "b"},
		Extra:   map[string]float64{"x": 1.5},
		Weights: map[string]struct{}{"w1": {}, "w2": {}},
		Meta:    json.RawMessage(`{"z":1,"y":[true]}`),
		Serial:  json.Number("12345678901234567890"),
	})

	_, err = jsondoc.Unmarshal[service]([]byte(`{"name":"api"}`))
	td.CmpString(t, err, "field named 'port' not found")
}

func TestUnmarshalInto(t *testing.T) {
	var svc service
	svc.Name = "keep"

	err := jsondoc.UnmarshalInto([]byte(`{"name":"new","port":"80"}`), &svc, jsondoc.DefaultOptions())
	td.CmpTrue(t, errors.HasKind(err, errors.KindTypeMismatch))
	td.CmpString(t, err, "failed to decode field 'port': expected integer, got string")
	td.Cmp(t, svc.Name, "keep")

	err = jsondoc.UnmarshalInto([]byte(`{"name":"new","port":80,"hosts":[],"extra":null,"weights":[],"meta":null,"serial":1}`),
		&svc, jsondoc.DefaultOptions())
	td.CmpNoError(t, err)
	td.Cmp(t, svc.Name, "new")
	td.Cmp(t, svc.Port, 80)
	td.Cmp(t, svc.Serial, json.Number("1"))

	err = jsondoc.UnmarshalInto([]byte(`{}`), svc, jsondoc.DefaultOptions())
	td.Cmp(t, errors.KindOf(err), errors.KindInvalidData)
}

func TestMarshal(t *testing.T) {
	owner := "team"
	svc := service{
		Name:    "api",
		Port:    1,
		Hosts:   []string{"h"},
		Timeout: optional.Some(5),
		Owner:   &owner,
		Weights: map[string]struct{}{"b": {}, "a": {}},
		Meta:    json.RawMessage(`{"k": 1}`),
		Serial:  json.Number("7"),
	}

	out, err := jsondoc.Marshal(svc)
	td.CmpNoError(t, err)
	td.Cmp(t, string(out),
		`{"name":"api","port":1,"hosts":["h"],"timeout":5,"extra":null,"owner":"team",`+
			`"weights":["a","b"],"meta":{"k":1},"serial":7}`)

	out, err = jsondoc.MarshalWith([]int{1, 2}, jsondoc.Options{Indent: "  "})
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "[\n  1,\n  2\n]")

	back, err := jsondoc.Unmarshal[service](indented(t, svc))
	td.CmpNoError(t, err)
	td.Cmp(t, back.Weights, svc.Weights)
	td.Cmp(t, back.Owner, &owner)
	td.Cmp(t, back.Timeout, optional.Some(5))

	svc.Serial = "not a number"
	_, err = jsondoc.Marshal(svc)
	td.CmpTrue(t, errors.HasKind(err, errors.KindInvalidData))
	td.CmpContains(t, err.Error(), "is not a JSON number")
}

func indented(t *testing.T, v service) []byte {
	t.Helper()
	out, err := jsondoc.MarshalWith(v, jsondoc.Options{Indent: "\t"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n\t\"name\": \"api\"") {
		t.Errorf("expected tab indentation, got %s", out)
	}
	return out
}
