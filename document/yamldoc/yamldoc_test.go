package yamldoc_test

import (
	"testing"
	"time"

	"github.com/maxatome/go-testdeep/td"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/document/yamldoc"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/record"
	"github.com/wippyai/shapecodec/tuple"
)

type modes struct{}

func (modes) Members() []string { return []string{"fast", "safe"} }

type job struct {
	Name      string                        `codec:"name"`
	Mode      enum.Literal[modes]           `codec:"mode"`
	Retries   uint8                         `codec:"retries"`
	Weight    float64                       `codec:"weight"`
	Args      []string                      `codec:"args"`
	Env       map[string]string             `codec:"env"`
	Window    tuple.Pair[int, int]          `codec:"window"`
	StartedAt time.Time                     `codec:"started_at"`
	Deadline  optional.Option[time.Time]    `codec:"deadline"`
	Extra     yaml.Node                     `codec:"extra"`
	Owners    map[string]struct{}           `codec:"owners"`
	Limits    map[enum.Literal[modes]]int64 `codec:"limits"`
}

const jobYAML = `
name: nightly
mode: safe
retries: 3
weight: 2
args: [--all, "42"]
env:
  HOME: /root
  DEBUG: "true"
window: [1, 5]
started_at: 2024-03-01T10:00:00Z
extra:
  any: [thing, 1]
owners: [bob, alice]
limits:
  fast: 10
`

func TestUnmarshal(t *testing.T) {
	got, err := yamldoc.Unmarshal[job]([]byte(jobYAML))
	td.CmpNoError(t, err)

	td.Cmp(t, got.Name, "nightly")
	td.Cmp(t, got.Mode.String(), "safe")
	td.Cmp(t, got.Retries, uint8(3))
	td.Cmp(t, got.Weight, 2.0)
	td.Cmp(t, got.Args, []string{"--all", "42"})
	td.Cmp(t, got.Env, map[string]string{"HOME": "/root", "DEBUG": "true"})
	td.Cmp(t, got.Window, tuple.NewPair(1, 5))
	td.CmpTrue(t, got.StartedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	td.CmpTrue(t, got.Deadline.IsNone())
	td.Cmp(t, got.Extra.Kind, yaml.MappingNode)
	td.Cmp(t, got.Owners, map[string]struct{}{"alice": {}, "bob": {}})
	td.Cmp(t, got.Limits, map[enum.Literal[modes]]int64{enum.Make[modes]("fast"): 10})
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
		msg  string
	}{
		{
			name: "type mismatch carries line",
			src:  "name: x\nmode: fast\nretries: many\n",
			kind: errors.KindTypeMismatch,
			msg:  "failed to decode field 'retries': expected unsigned integer, got string at line 3",
		},
		{
			name: "overflow",
			src:  "name: x\nmode: fast\nretries: 300\n",
			kind: errors.KindOverflow,
		},
		{
			name: "negative unsigned",
			src:  "name: x\nmode: fast\nretries: -1\n",
			kind: errors.KindOverflow,
		},
		{
			name: "unknown literal",
			src:  "name: x\nmode: slow\n",
			kind: errors.KindUnknownMember,
		},
		{
			name: "not a mapping",
			src:  "- a\n",
			kind: errors.KindTypeMismatch,
			msg:  "expected object, got array at line 1",
		},
		{
			name: "empty document",
			src:  "",
			kind: errors.KindTypeMismatch,
			msg:  "expected object, got null",
		},
		{
			name: "syntax",
			src:  "name: [\n",
			kind: errors.KindInvalidData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yamldoc.Unmarshal[job]([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			td.CmpTrue(t, errors.HasKind(err, tt.kind), "kind %s in %v", tt.kind, err)
			if tt.msg != "" {
				td.CmpString(t, err, tt.msg)
			}
		})
	}
}

func TestParseFollowsAliases(t *testing.T) {
	type pair struct {
		A []int `codec:"a"`
		B []int `codec:"b"`
	}
	got, err := yamldoc.Unmarshal[pair]([]byte("a: &nums [1, 2]\nb: *nums\n"))
	td.CmpNoError(t, err)
	td.Cmp(t, got, pair{A: []int{1, 2}, B: []int{1, 2}})
}

func TestMarshal(t *testing.T) {
	type entry struct {
		Name    string                `codec:"name"`
		Port    string                `codec:"port"`
		Flag    string                `codec:"flag"`
		Empty   string                `codec:"empty"`
		Ratio   float64               `codec:"ratio"`
		Count   int                   `codec:"count"`
		Enabled bool                  `codec:"enabled"`
		Note    optional.Option[bool] `codec:"note"`
		Missing *int                  `codec:"missing"`
	}

	out, err := yamldoc.Marshal(entry{Name: "web", Port: "8080", Flag: "yes", Ratio: 1, Count: -2, Enabled: true})
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), `name: web
port: "8080"
flag: "yes"
empty: ""
ratio: 1.0
count: -2
enabled: true
`)

	out, err = yamldoc.Marshal([]int{1, 2})
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "- 1\n- 2\n")

	out, err = yamldoc.Marshal[*int](nil)
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "null\n")
}

func TestRoundTrip(t *testing.T) {
	in, err := yamldoc.Unmarshal[job]([]byte(jobYAML))
	td.CmpNoError(t, err)
	in.Deadline = optional.Some(time.Date(2025, 1, 2, 3, 4, 5, 600, time.FixedZone("", 3600)))

	out, err := yamldoc.MarshalWith(in, yamldoc.Options{Indent: 4})
	td.CmpNoError(t, err)
	td.CmpContains(t, string(out), `- "42"`)
	td.CmpContains(t, string(out), `DEBUG: "true"`)
	td.CmpContains(t, string(out), "deadline: 2025-01-02T03:04:05.0000006+01:00")

	back, err := yamldoc.Unmarshal[job](out)
	td.CmpNoError(t, err)
	td.Cmp(t, back.Args, in.Args)
	td.Cmp(t, back.Env, in.Env)
	td.Cmp(t, back.Owners, in.Owners)
	want, _ := in.Deadline.Get()
	got, ok := back.Deadline.Get()
	td.CmpTrue(t, ok)
	td.CmpTrue(t, got.Equal(want))
	td.CmpTrue(t, back.StartedAt.Equal(in.StartedAt))

	var extra struct {
		Any []any `yaml:"any"`
	}
	td.CmpNoError(t, back.Extra.Decode(&extra))
	td.Cmp(t, extra.Any, []any{"thing", 1})
}

func TestUnmarshalInto(t *testing.T) {
	type server struct {
		HostName   string
		ListenPort int
	}
	copts := codec.DefaultOptions()
	copts.Naming = record.NamingKebab
	opts := yamldoc.DefaultOptions()
	opts.Schema = codec.NewSchema(copts)

	var srv server
	err := yamldoc.UnmarshalInto([]byte("host-name: a\nlisten-port: 80\n"), &srv, opts)
	td.CmpNoError(t, err)
	td.Cmp(t, srv, server{HostName: "a", ListenPort: 80})

	err = yamldoc.UnmarshalInto([]byte("host-name: b\n"), &srv, opts)
	td.Cmp(t, errors.KindOf(err), errors.KindMissingField)
	td.Cmp(t, srv.HostName, "a")
}

func TestRegisteredTimeCoder(t *testing.T) {
	type event struct {
		At time.Time `codec:"at"`
	}
	opts := yamldoc.DefaultOptions()
	opts.Schema = codec.NewSchema(codec.DefaultOptions())
	codec.MustRegisterCoder(opts.Schema, codec.Coder[time.Time]{
		Decode: func(r document.Reader, n document.Node) (time.Time, error) {
			sec, err := r.ToInt(n)
			return time.Unix(sec, 0).UTC(), err
		},
		Encode: func(w document.Writer, v time.Time) (document.Node, error) {
			return w.FromInt(v.Unix()), nil
		},
	})

	in := event{At: time.Unix(1700000000, 0).UTC()}
	out, err := yamldoc.MarshalWith(in, opts)
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "at: 1700000000\n")

	back, err := yamldoc.UnmarshalWith[event](out, opts)
	td.CmpNoError(t, err)
	td.Cmp(t, back, in)

	// Without a registered coder the native timestamp is kept.
	out, err = yamldoc.Marshal(in)
	td.CmpNoError(t, err)
	td.Cmp(t, string(out), "at: 2023-11-14T22:13:20Z\n")
}
