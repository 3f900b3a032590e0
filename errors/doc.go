// Package errors provides structured error types for the shapecodec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a detail message and a cause chain. Rendering puts the
// outermost context first, so a failure deep inside a document reads:
//
//	failed to decode field 'shape': could not decode tagged union: no alternative matches kind 'hexagon'
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindUnsupported).
//		Path("Config", "Hook").
//		GoType("func()").
//		Detail("functions cannot be encoded").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingField("name")
//	err := errors.FieldError(errors.PhaseDecode, "age", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only.
package errors
