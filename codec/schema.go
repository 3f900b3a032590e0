package codec

import (
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/shapecodec/codec/internal/shape"
	"github.com/wippyai/shapecodec/document"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/record"
)

// Schema holds registered unions, sums and custom coders together with
// the shapes compiled from them. A Schema is safe for concurrent use.
// Registrations invalidate previously compiled shapes.
type Schema struct {
	log    *zap.Logger
	coders map[reflect.Type]*shape.Coder
	unions map[reflect.Type]*unionDef
	sums   map[reflect.Type][]reflect.Type
	cache  sync.Map // reflect.Type -> *shape.Shape
	opts   Options
	mu     sync.Mutex
}

type unionDef struct {
	discriminator string
	alts          []unionAlt
}

type unionAlt struct {
	goType reflect.Type
	enum   *enum.Schema
}

// Default is the schema used by the package-level functions.
var Default = NewSchema(DefaultOptions())

// NewSchema creates a Schema. time.Time is pre-registered as RFC 3339
// text unless the backend codes it natively.
func NewSchema(opts Options) *Schema {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	s := &Schema{
		log:    log.With(zap.String("component", "codec")),
		coders: make(map[reflect.Type]*shape.Coder),
		unions: make(map[reflect.Type]*unionDef),
		sums:   make(map[reflect.Type][]reflect.Type),
		opts:   opts,
	}
	if err := registerCoder(s, timeCoder(), true); err != nil {
		panic(err)
	}
	return s
}

// Options returns the configuration.
func (s *Schema) Options() Options {
	return s.opts
}

// Coder is a custom coder for T. It takes precedence over backend hooks
// and every structural rule for T.
type Coder[T any] struct {
	Decode func(r document.Reader, n document.Node) (T, error)
	Encode func(w document.Writer, v T) (document.Node, error)
}

// RegisterCoder installs c for T, replacing any earlier coder.
func RegisterCoder[T any](s *Schema, c Coder[T]) error {
	return registerCoder(s, c, false)
}

func registerCoder[T any](s *Schema, c Coder[T], builtin bool) error {
	t := typeOf[T]()
	if c.Decode == nil || c.Encode == nil {
		return errors.InvalidSchema("coder for %s needs both Decode and Encode", t)
	}
	erased := &shape.Coder{
		Decode: func(r document.Reader, n document.Node) (reflect.Value, error) {
			v, err := c.Decode(r, n)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&v).Elem(), nil
		},
		Encode: func(w document.Writer, v reflect.Value) (document.Node, error) {
			var typed T
			reflect.ValueOf(&typed).Elem().Set(v)
			return c.Encode(w, typed)
		},
		Builtin: builtin,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.coders[t] = erased
	s.invalidate()
	s.log.Debug("registered coder", zap.Stringer("type", t), zap.Bool("builtin", builtin))
	return nil
}

// MustRegisterCoder is like RegisterCoder but panics on error.
func MustRegisterCoder[T any](s *Schema, c Coder[T]) {
	if err := RegisterCoder(s, c); err != nil {
		panic(err)
	}
}

// RegisterTaggedUnion registers the interface type U as a tagged union.
// Each alternative is a value whose dynamic type is a struct, or pointer
// to struct, implementing U and carrying an enumeration field with
// document name discriminator. Alternatives are tried in order; an
// alternative whose discriminator values are all accepted by an earlier
// one is rejected as unreachable.
func RegisterTaggedUnion[U any](s *Schema, discriminator string, alternatives ...U) error {
	types, err := alternativeTypes(typeOf[U](), alternatives)
	if err != nil {
		return err
	}
	return s.RegisterTaggedUnionType(typeOf[U](), discriminator, types...)
}

// MustRegisterTaggedUnion is like RegisterTaggedUnion but panics on
// error.
func MustRegisterTaggedUnion[U any](s *Schema, discriminator string, alternatives ...U) {
	if err := RegisterTaggedUnion(s, discriminator, alternatives...); err != nil {
		panic(err)
	}
}

// RegisterSum registers the interface type U as an untagged sum. Decoding
// tries the alternatives' types in order and keeps the first success.
func RegisterSum[U any](s *Schema, alternatives ...U) error {
	types, err := alternativeTypes(typeOf[U](), alternatives)
	if err != nil {
		return err
	}
	return s.RegisterSumType(typeOf[U](), types...)
}

// MustRegisterSum is like RegisterSum but panics on error.
func MustRegisterSum[U any](s *Schema, alternatives ...U) {
	if err := RegisterSum(s, alternatives...); err != nil {
		panic(err)
	}
}

func alternativeTypes[U any](iface reflect.Type, alternatives []U) ([]reflect.Type, error) {
	types := make([]reflect.Type, len(alternatives))
	for i, a := range alternatives {
		t := reflect.TypeOf(any(a))
		if t == nil {
			return nil, errors.InvalidSchema("alternative %d of %s is nil", i, iface)
		}
		types[i] = t
	}
	return types, nil
}

// RegisterTaggedUnionType is the reflection form of RegisterTaggedUnion.
func (s *Schema) RegisterTaggedUnionType(iface reflect.Type, discriminator string, alternatives ...reflect.Type) error {
	if err := checkAlternatives(iface, alternatives); err != nil {
		return err
	}
	if discriminator == "" {
		return errors.InvalidSchema("tagged union %s needs a discriminator field name", iface)
	}

	def := &unionDef{discriminator: discriminator}
	for _, alt := range alternatives {
		es, err := s.discriminatorSchema(alt, discriminator)
		if err != nil {
			return err
		}
		for _, prev := range def.alts {
			if prev.enum.ContainsAll(es) {
				return errors.InvalidSchema("tagged union %s: alternative %s is unreachable, %s accepts every %s value",
					iface, alt, prev.goType, discriminator)
			}
			if prev.enum.ContainsAny(es) {
				s.log.Warn("tagged union alternatives overlap",
					zap.Stringer("union", iface),
					zap.Stringer("earlier", prev.goType),
					zap.Stringer("later", alt),
					zap.String("discriminator", discriminator))
			}
		}
		def.alts = append(def.alts, unionAlt{goType: alt, enum: es})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sums, iface)
	s.unions[iface] = def
	s.invalidate()
	s.log.Debug("registered tagged union",
		zap.Stringer("type", iface),
		zap.String("discriminator", discriminator),
		zap.Int("alternatives", len(alternatives)))
	return nil
}

// RegisterSumType is the reflection form of RegisterSum.
func (s *Schema) RegisterSumType(iface reflect.Type, alternatives ...reflect.Type) error {
	if err := checkAlternatives(iface, alternatives); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unions, iface)
	s.sums[iface] = append([]reflect.Type(nil), alternatives...)
	s.invalidate()
	s.log.Debug("registered sum",
		zap.Stringer("type", iface),
		zap.Int("alternatives", len(alternatives)))
	return nil
}

func checkAlternatives(iface reflect.Type, alternatives []reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errors.InvalidSchema("union type must be an interface, got %v", iface)
	}
	if len(alternatives) == 0 {
		return errors.InvalidSchema("%s needs at least one alternative", iface)
	}
	seen := make(map[reflect.Type]bool, len(alternatives))
	for _, alt := range alternatives {
		if alt == nil || alt.Kind() == reflect.Interface {
			return errors.InvalidSchema("alternative %v of %s must be a concrete type", alt, iface)
		}
		if !alt.Implements(iface) {
			return errors.InvalidSchema("alternative %s does not implement %s", alt, iface)
		}
		if seen[alt] {
			return errors.DuplicateName("alternative", alt.String())
		}
		seen[alt] = true
	}
	return nil
}

// discriminatorSchema returns the member set of alt's discriminator field.
func (s *Schema) discriminatorSchema(alt reflect.Type, discriminator string) (*enum.Schema, error) {
	st := alt
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, errors.InvalidSchema("tagged union alternative %s must be a struct", alt)
	}
	rs, err := record.Of(st, s.opts.Naming)
	if err != nil {
		return nil, err
	}
	i, ok := rs.Lookup(discriminator)
	if !ok {
		return nil, errors.InvalidSchema("tagged union alternative %s has no field %q", alt, discriminator)
	}
	ft := rs.Field(i).Type
	if !enum.IsLiteral(ft) {
		return nil, errors.InvalidSchema("discriminator field %q of %s must be an enumeration literal, got %s",
			discriminator, alt, ft)
	}
	return enum.SchemaOf(ft)
}

// invalidate drops compiled shapes. Callers hold s.mu.
func (s *Schema) invalidate() {
	s.cache.Clear()
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func timeCoder() Coder[time.Time] {
	return Coder[time.Time]{
		Decode: func(r document.Reader, n document.Node) (time.Time, error) {
			text, err := r.ToString(n)
			if err != nil {
				return time.Time{}, err
			}
			t, err := time.Parse(time.RFC3339Nano, text)
			if err != nil {
				return time.Time{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
					Value(text).
					GoType("time.Time").
					Cause(err).
					Detail("invalid RFC 3339 time").
					Build()
			}
			return t, nil
		},
		Encode: func(w document.Writer, v time.Time) (document.Node, error) {
			return w.FromString(v.Format(time.RFC3339Nano)), nil
		},
	}
}
