package result

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps an error. err must be non-nil.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// From adapts a Go (value, error) return pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Err returns the error, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Value returns the value, or the zero T on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Unwrap converts back to the Go (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// OrElse replaces the error with fn(err). Successful results pass through.
func (r Result[T]) OrElse(fn func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	return Fail[T](fn(r.err))
}

// Map applies fn to the value of a successful result.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return Ok(fn(r.value))
}

// AndThen chains a fallible step onto a successful result.
func AndThen[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return fn(r.value)
}

// Try chains a step returning a Go (value, error) pair.
func Try[T, U any](r Result[T], fn func(T) (U, error)) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return From(fn(r.value))
}
