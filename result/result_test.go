package result

import (
	"errors"
	"strconv"
	"testing"
)

func TestOkAndFail(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() || ok.Value() != 42 || ok.Err() != nil {
		t.Errorf("Ok(42) = %+v", ok)
	}

	boom := errors.New("boom")
	failed := Fail[int](boom)
	if failed.IsOk() {
		t.Error("Fail should not be ok")
	}
	if failed.Value() != 0 {
		t.Errorf("Value() = %d, want zero", failed.Value())
	}
	if !errors.Is(failed.Err(), boom) {
		t.Errorf("Err() = %v, want %v", failed.Err(), boom)
	}
}

func TestFrom(t *testing.T) {
	r := From(strconv.Atoi("12"))
	if v, err := r.Unwrap(); err != nil || v != 12 {
		t.Errorf("Unwrap() = %d, %v", v, err)
	}

	r = From(strconv.Atoi("x"))
	if r.IsOk() {
		t.Error("From with error should fail")
	}
}

func TestMapShortCircuits(t *testing.T) {
	calls := 0
	double := func(v int) int {
		calls++
		return v * 2
	}

	if got := Map(Ok(3), double).Value(); got != 6 {
		t.Errorf("Map(Ok(3)) = %d, want 6", got)
	}

	boom := errors.New("boom")
	r := Map(Fail[int](boom), double)
	if !errors.Is(r.Err(), boom) {
		t.Errorf("Map should keep the first error, got %v", r.Err())
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestAndThenKeepsFirstError(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	r := AndThen(Fail[int](first), func(int) Result[string] {
		return Fail[string](second)
	})
	if !errors.Is(r.Err(), first) {
		t.Errorf("AndThen error = %v, want first", r.Err())
	}

	r = AndThen(Ok(1), func(int) Result[string] {
		return Fail[string](second)
	})
	if !errors.Is(r.Err(), second) {
		t.Errorf("AndThen error = %v, want second", r.Err())
	}
}

func TestTry(t *testing.T) {
	r := Try(Ok("7"), strconv.Atoi)
	if r.Value() != 7 {
		t.Errorf("Try = %d, want 7", r.Value())
	}

	r = Try(Ok("seven"), strconv.Atoi)
	if r.IsOk() {
		t.Error("Try should surface the step's error")
	}
}

func TestOrElse(t *testing.T) {
	wrapped := errors.New("wrapped")
	r := Fail[int](errors.New("inner")).OrElse(func(error) error { return wrapped })
	if !errors.Is(r.Err(), wrapped) {
		t.Errorf("OrElse = %v, want wrapped", r.Err())
	}

	r = Ok(5).OrElse(func(error) error {
		t.Error("OrElse should not run on success")
		return nil
	})
	if r.Value() != 5 {
		t.Errorf("Value() = %d, want 5", r.Value())
	}
}
