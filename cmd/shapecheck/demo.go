package main

import (
	"reflect"
	"sort"

	"github.com/wippyai/shapecodec/codec"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
	"github.com/wippyai/shapecodec/tuple"
)

type protocols struct{}

func (protocols) Members() []string { return []string{"http", "grpc", "tcp"} }

// Service is a deployable service manifest.
type Service struct {
	Name     string                     `codec:"name"`
	Protocol enum.Literal[protocols]    `codec:"protocol"`
	Listen   tuple.Pair[string, uint16] `codec:"listen"`
	Replicas optional.Option[uint32]    `codec:"replicas"`
	TLS      *TLS                       `codec:"tls"`
	Env      map[string]string          `codec:"env"`
	Tags     map[string]struct{}        `codec:"tags"`
	Routes   []Route                    `codec:"routes"`
	Health   optional.Option[Probe]     `codec:"health"`
}

// TLS fields are untagged and named by the --naming convention.
type TLS struct {
	CertFile   string
	KeyFile    string
	MinVersion optional.Option[string]
}

// Route is a tagged union on "kind".
type Route interface{ route() }

type proxyKinds struct{}

func (proxyKinds) Members() []string { return []string{"proxy"} }

type redirectKinds struct{}

func (redirectKinds) Members() []string { return []string{"redirect", "moved"} }

type staticKinds struct{}

func (staticKinds) Members() []string { return []string{"static"} }

type Proxy struct {
	Kind     enum.Literal[proxyKinds] `codec:"kind"`
	Path     string                   `codec:"path"`
	Upstream string                   `codec:"upstream"`
	Timeout  optional.Option[int64]   `codec:"timeout_ms"`
}

func (Proxy) route() {}

type Redirect struct {
	Kind enum.Literal[redirectKinds] `codec:"kind"`
	Path string                      `codec:"path"`
	To   string                      `codec:"to"`
	Code optional.Option[uint16]     `codec:"code"`
}

func (Redirect) route() {}

type Static struct {
	Kind enum.Literal[staticKinds] `codec:"kind"`
	Path string                    `codec:"path"`
	Root string                    `codec:"root"`
}

func (Static) route() {}

// Probe is an untagged sum: an HTTP check or a bare TCP port.
type Probe interface{}

type HTTPProbe struct {
	Path string `codec:"path"`
	Port uint16 `codec:"port"`
}

type TCPProbe struct {
	Port uint16 `codec:"port"`
}

// Rule is a recursive access rule.
type Rule struct {
	Name  string `codec:"name"`
	Allow bool   `codec:"allow"`
	When  Cond   `codec:"when"`
}

// Cond is an untagged sum of matchers and combinators.
type Cond interface{ cond() }

type Match struct {
	Field  string `codec:"field"`
	Equals string `codec:"equals"`
}

func (Match) cond() {}

type All struct {
	All []Cond `codec:"all"`
}

func (All) cond() {}

type Not struct {
	Not own.Box[Cond] `codec:"not"`
}

func (Not) cond() {}

type demo struct {
	typ  reflect.Type
	name string
	help string
}

var demos = map[string]demo{
	"service": {name: "service", typ: reflect.TypeOf(Service{}), help: "service manifest with routes and health probe"},
	"rule":    {name: "rule", typ: reflect.TypeOf(Rule{}), help: "access rule with nested conditions"},
	"rules":   {name: "rules", typ: reflect.TypeOf([]Rule{}), help: "list of access rules"},
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newDemoSchema registers the demo unions and sums on a fresh schema.
func newDemoSchema(opts codec.Options) (*codec.Schema, error) {
	s := codec.NewSchema(opts)
	if err := codec.RegisterTaggedUnion[Route](s, "kind", Proxy{}, Redirect{}, Static{}); err != nil {
		return nil, err
	}
	if err := codec.RegisterSum[Probe](s, HTTPProbe{}, TCPProbe{}); err != nil {
		return nil, err
	}
	if err := codec.RegisterSum[Cond](s, Match{}, All{}, Not{}); err != nil {
		return nil, err
	}
	return s, nil
}
