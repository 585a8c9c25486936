package domain

// Result is either a value or an empty outcome with the reason it is empty.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Empty reports an empty outcome.
func Empty[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool { return r.ok }

// Value returns the carried value (zero value when empty).
func (r Result[T]) Value() T { return r.value }

// Reason returns why the result is empty ("" when ok).
func (r Result[T]) Reason() string { return r.reason }
