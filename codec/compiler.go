package codec

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/shapecodec/codec/internal/shape"
	"github.com/wippyai/shapecodec/enum"
	"github.com/wippyai/shapecodec/errors"
	"github.com/wippyai/shapecodec/optional"
	"github.com/wippyai/shapecodec/own"
	"github.com/wippyai/shapecodec/record"
	"github.com/wippyai/shapecodec/tuple"
)

// shapeOf returns the compiled shape of t, compiling it on first use.
// A failed compile caches nothing.
func (s *Schema) shapeOf(t reflect.Type) (*shape.Shape, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
			Detail("Go type cannot be nil").
			Build()
	}
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*shape.Shape), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*shape.Shape), nil
	}

	c := &compiler{schema: s, pending: make(map[reflect.Type]*shape.Shape)}
	sh, err := c.compile(t, nil)
	if err != nil {
		s.log.Debug("compile failed", zap.Stringer("type", t), zap.Error(err))
		return nil, err
	}
	for typ, p := range c.pending {
		s.cache.Store(typ, p)
	}
	s.log.Debug("compiled shape",
		zap.Stringer("type", t),
		zap.Stringer("kind", sh.Kind),
		zap.Int("shapes", len(c.pending)))
	return sh, nil
}

// compiler holds the state of one compile pass. Shapes are registered in
// pending before they are filled so recursive references resolve to the
// shape under construction.
type compiler struct {
	schema  *Schema
	pending map[reflect.Type]*shape.Shape
}

func (c *compiler) compile(t reflect.Type, path []string) (*shape.Shape, error) {
	if sh, ok := c.pending[t]; ok {
		return sh, nil
	}
	if cached, ok := c.schema.cache.Load(t); ok {
		return cached.(*shape.Shape), nil
	}

	sh := &shape.Shape{GoType: t}
	c.pending[t] = sh
	if err := c.fill(sh, path); err != nil {
		return nil, err
	}
	return sh, nil
}

// fill resolves the shape of sh.GoType. The first matching rule wins:
// custom coder, Box/Ref/pointer, Option, enumeration, tagged union,
// record, tuple, sum, sequence, set, map, scalar.
func (c *compiler) fill(sh *shape.Shape, path []string) error {
	t := sh.GoType

	if coder, ok := c.schema.coders[t]; ok {
		sh.Kind = shape.KindCustom
		sh.Custom = coder
		return nil
	}

	switch {
	case own.IsWrapper(t):
		elem, shared := own.Describe(t)
		sh.Kind = shape.KindBox
		if shared {
			sh.Kind = shape.KindRef
		}
		return c.compileElem(sh, elem, path)
	case t.Kind() == reflect.Pointer:
		sh.Kind = shape.KindPointer
		return c.compileNullable(sh, t.Elem(), path)
	case optional.IsOption(t):
		sh.Kind = shape.KindOption
		return c.compileNullable(sh, optional.ElemOf(t), path)
	case enum.IsLiteral(t):
		return c.compileEnum(sh, path)
	case t.Kind() == reflect.Interface:
		return c.compileInterface(sh, path)
	case tuple.IsTuple(t):
		return c.compileTuple(sh, path)
	case t.Kind() == reflect.Struct:
		return c.compileRecord(sh, path)
	case t.Kind() == reflect.Array:
		return c.compileArray(sh, path)
	case t.Kind() == reflect.Slice:
		sh.Kind = shape.KindSequence
		return c.compileElem(sh, t.Elem(), path)
	case t.Kind() == reflect.Map:
		return c.compileMap(sh, path)
	default:
		return c.compileScalar(sh, path)
	}
}

func (c *compiler) compileElem(sh *shape.Shape, elem reflect.Type, path []string) error {
	es, err := c.compile(elem, path)
	if err != nil {
		return err
	}
	sh.Elem = es
	return nil
}

// compileNullable compiles the element of a pointer or Option. A nullable
// element is rejected since null would decode to the outer level only.
func (c *compiler) compileNullable(sh *shape.Shape, elem reflect.Type, path []string) error {
	if err := c.compileElem(sh, elem, path); err != nil {
		return err
	}
	if k := sh.Elem.Kind; k == shape.KindPointer || k == shape.KindOption {
		return errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(sh.GoType.String()).
			Detail("%s nests nullable %s", sh.GoType, sh.Elem.GoType).
			Build()
	}
	return nil
}

func (c *compiler) compileEnum(sh *shape.Shape, path []string) error {
	es, err := enum.SchemaOf(sh.GoType)
	if err != nil {
		return errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
			Path(path...).
			GoType(sh.GoType.String()).
			Cause(err).
			Detail("invalid enumeration").
			Build()
	}
	sh.Kind = shape.KindEnum
	sh.Enum = es
	return nil
}

func (c *compiler) compileInterface(sh *shape.Shape, path []string) error {
	t := sh.GoType
	if def, ok := c.schema.unions[t]; ok {
		sh.Kind = shape.KindTaggedUnion
		sh.Discriminator = def.discriminator
		sh.Alternatives = make([]shape.Alternative, len(def.alts))
		for i, alt := range def.alts {
			as, err := c.compile(alt.goType, appendPath(path, alt.goType.String()))
			if err != nil {
				return err
			}
			sh.Alternatives[i] = shape.Alternative{Shape: as, Enum: alt.enum}
		}
		return nil
	}

	if alts, ok := c.schema.sums[t]; ok {
		sh.Kind = shape.KindSum
		sh.Alternatives = make([]shape.Alternative, len(alts))
		for i, alt := range alts {
			as, err := c.compile(alt, appendPath(path, alt.String()))
			if err != nil {
				return err
			}
			sh.Alternatives[i] = shape.Alternative{Shape: as}
		}
		return nil
	}

	return errors.New(errors.PhaseCompile, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("interface %s is not registered as a tagged union or sum", t).
		Build()
}

func (c *compiler) compileRecord(sh *shape.Shape, path []string) error {
	rs, err := record.Of(sh.GoType, c.schema.opts.Naming)
	if err != nil {
		return err
	}
	sh.Kind = shape.KindRecord
	sh.Record = rs
	sh.Fields = make([]shape.Field, rs.Len())
	for i := 0; i < rs.Len(); i++ {
		f := rs.Field(i)
		fs, err := c.compile(f.Type, appendPath(path, f.Name))
		if err != nil {
			return err
		}
		sh.Fields[i] = shape.Field{Shape: fs, Name: f.Name, Index: f.Index, Required: f.Required}
	}
	return nil
}

func (c *compiler) compileTuple(sh *shape.Shape, path []string) error {
	t := sh.GoType
	var fields []shape.Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strconv.Itoa(len(fields))
		fs, err := c.compile(sf.Type, appendPath(path, name))
		if err != nil {
			return err
		}
		fields = append(fields, shape.Field{Shape: fs, Name: name, Index: i, Required: true})
	}

	if arity := tuple.Arity(t); arity != len(fields) {
		return errors.New(errors.PhaseCompile, errors.KindInvalidSchema).
			Path(path...).
			GoType(t.String()).
			Detail("tuple declares arity %d but has %d exported fields", arity, len(fields)).
			Build()
	}
	sh.Kind = shape.KindTuple
	sh.Fields = fields
	return nil
}

func (c *compiler) compileArray(sh *shape.Shape, path []string) error {
	t := sh.GoType
	es, err := c.compile(t.Elem(), appendPath(path, "[]"))
	if err != nil {
		return err
	}
	sh.Kind = shape.KindTuple
	sh.Elem = es
	sh.Fields = make([]shape.Field, t.Len())
	for i := range sh.Fields {
		sh.Fields[i] = shape.Field{Shape: es, Name: strconv.Itoa(i), Index: i, Required: true}
	}
	return nil
}

var emptyStruct = reflect.TypeOf(struct{}{})

// compileMap handles map[T]struct{} as a set and maps with string or
// enumeration keys as maps.
func (c *compiler) compileMap(sh *shape.Shape, path []string) error {
	t := sh.GoType
	if t.Elem() == emptyStruct {
		sh.Kind = shape.KindSet
		return c.compileElem(sh, t.Key(), appendPath(path, "[]"))
	}

	key := t.Key()
	if key.Kind() != reflect.String && !enum.IsLiteral(key) {
		return errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("map key %s must be a string or enumeration", key).
			Build()
	}
	ks, err := c.compile(key, path)
	if err != nil {
		return err
	}
	if ks.Kind == shape.KindCustom {
		return errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("map key %s has a custom coder; keys must be plain strings or enumerations", key).
			Build()
	}
	sh.Kind = shape.KindMap
	sh.Key = ks
	return c.compileElem(sh, t.Elem(), appendPath(path, "{}"))
}

func (c *compiler) compileScalar(sh *shape.Shape, path []string) error {
	switch sh.GoType.Kind() {
	case reflect.Bool:
		sh.Kind = shape.KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sh.Kind = shape.KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sh.Kind = shape.KindUint
	case reflect.Float32, reflect.Float64:
		sh.Kind = shape.KindFloat
	case reflect.String:
		sh.Kind = shape.KindString
	default:
		return errors.Unsupported(errors.PhaseCompile, path, sh.GoType.String())
	}
	return nil
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
