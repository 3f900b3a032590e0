package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema  Phase = "schema"  // enum/record/union registration
	PhaseCompile Phase = "compile" // Go type to shape
	PhaseDecode  Phase = "decode"  // document to Go
	PhaseEncode  Phase = "encode"  // Go to document
	PhaseParse   Phase = "parse"   // raw bytes to document tree
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch          Kind = "type_mismatch"
	KindUnknownMember         Kind = "unknown_member"
	KindMissingDiscriminator  Kind = "missing_discriminator"
	KindNoMatchingAlternative Kind = "no_matching_alternative"
	KindMissingField          Kind = "missing_field"
	KindFieldError            Kind = "field_error"
	KindElementError          Kind = "element_error"
	KindArityMismatch         Kind = "arity_mismatch"
	KindNoAlternativeMatched  Kind = "no_alternative_matched"
	KindAlternativeError      Kind = "alternative_error"
	KindFieldNotFound         Kind = "field_not_found"
	KindNullNotAllowed        Kind = "null_not_allowed"
	KindOverflow              Kind = "overflow"
	KindUnsupported           Kind = "unsupported"
	KindDuplicateName         Kind = "duplicate_name"
	KindEmptyEnum             Kind = "empty_enum"
	KindInvalidSchema         Kind = "invalid_schema"
	KindInvalidData           Kind = "invalid_data"
)

// Error is the structured error type used throughout the codec.
//
// Error renders outermost context first: the detail of this error, then
// the rendering of its cause. Callers wrap inner errors by setting Cause,
// so a chain reads "failed to decode field 'x': failed to decode literal: ...".
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	switch {
	case e.Detail != "":
		b.WriteString(e.Detail)
	case e.GoType != "":
		b.WriteString(string(e.Kind))
		b.WriteString(" for Go type ")
		b.WriteString(e.GoType)
	default:
		b.WriteString(string(e.Kind))
	}

	if len(e.Path) > 0 {
		b.WriteString(" (at ")
		b.WriteString(strings.Join(e.Path, "."))
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the type path (used for schema and compile errors)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// KindOf reports the Kind of the outermost *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// HasKind reports whether any *Error in err's chain has the given kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Convenience constructors for common error patterns

// TypeMismatch creates a document node kind mismatch error
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// UnknownMember creates an enumeration membership error. The accepted
// names are listed single-quoted, comma-separated, in declaration order.
func UnknownMember(value string, accepted []string) *Error {
	quoted := make([]string, len(accepted))
	for i, a := range accepted {
		quoted[i] = "'" + a + "'"
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownMember,
		Value:  value,
		Detail: fmt.Sprintf("literal does not support '%s'; supported: %s.", value, strings.Join(quoted, ", ")),
	}
}

// MissingField creates a missing required field error
func MissingField(name string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingField,
		Value:  name,
		Detail: fmt.Sprintf("field named '%s' not found", name),
	}
}

// FieldNotFound creates a backend lookup failure
func FieldNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFieldNotFound,
		Value:  name,
		Detail: fmt.Sprintf("object has no field '%s'", name),
	}
}

// FieldError wraps the failure of a single record field
func FieldError(phase Phase, name string, cause error) *Error {
	verb := "decode"
	if phase == PhaseEncode {
		verb = "encode"
	}
	return &Error{
		Phase:  phase,
		Kind:   KindFieldError,
		Value:  name,
		Detail: fmt.Sprintf("failed to %s field '%s'", verb, name),
		Cause:  cause,
	}
}

// ElementError wraps the failure of a sequence, set or map element
func ElementError(phase Phase, what string, cause error) *Error {
	verb := "decode"
	if phase == PhaseEncode {
		verb = "encode"
	}
	return &Error{
		Phase:  phase,
		Kind:   KindElementError,
		Detail: fmt.Sprintf("failed to %s %s element", verb, what),
		Cause:  cause,
	}
}

// ArityMismatch creates a tuple length error
func ArityMismatch(want, got int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindArityMismatch,
		Value:  got,
		Detail: fmt.Sprintf("expected %d elements, got %d", want, got),
	}
}

// NullNotAllowed creates an absent value error for non-null wrappers
func NullNotAllowed(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullNotAllowed,
		GoType: goType,
		Detail: fmt.Sprintf("null is not allowed for %s", goType),
	}
}

// MissingDiscriminator creates an error for a union document lacking a
// string discriminator field
func MissingDiscriminator(field string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingDiscriminator,
		Value:  field,
		Detail: fmt.Sprintf("could not decode tagged union: field '%s' is missing or not a string", field),
	}
}

// NoMatchingAlternative creates an error for a discriminator value no
// alternative accepts
func NoMatchingAlternative(field, value string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNoMatchingAlternative,
		Value:  value,
		Detail: fmt.Sprintf("could not decode tagged union: no alternative matches %s '%s'", field, value),
	}
}

// AlternativeError wraps the failure of the tagged union alternative the
// discriminator selected
func AlternativeError(field, value string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindAlternativeError,
		Value:  value,
		Detail: fmt.Sprintf("could not decode tagged union with %s '%s'", field, value),
		Cause:  cause,
	}
}

// NoAlternativeMatched aggregates every attempted alternative's error,
// one per line in attempt order
func NoAlternativeMatched(attempts []error) *Error {
	var b strings.Builder
	b.WriteString("could not decode variant:")
	for _, err := range attempts {
		b.WriteString("\n - ")
		b.WriteString(err.Error())
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNoAlternativeMatched,
		Detail: b.String(),
	}
}

// Overflow creates an out-of-range scalar error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Value:  value,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
	}
}

// Unsupported creates an unsupported type error
func Unsupported(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("unsupported Go type %s", goType),
	}
}

// DuplicateName creates a schema error for a repeated enum member or
// record field name
func DuplicateName(what, name string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindDuplicateName,
		Value:  name,
		Detail: fmt.Sprintf("duplicate %s name '%s'", what, name),
	}
}

// InvalidSchema creates a generic schema definition error
func InvalidSchema(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindInvalidSchema,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a document parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
