// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// Result is the sum Ok(A) | Err(Failure[E]). Aborted is represented as an
// Err carrying AbortedFailure[E]().
type Result[A, E any] struct {
	ok      bool
	value   A
	failure Failure[E]
}

// Ok constructs a successful Result.
func Ok[E, A any](a A) Result[A, E] {
	return Result[A, E]{ok: true, value: a}
}

// Err constructs a failed Result from a Failure.
func Err[A, E any](f Failure[E]) Result[A, E] {
	return Result[A, E]{ok: false, failure: f}
}

// IsOk reports whether the Result is a success.
func (r Result[A, E]) IsOk() bool { return r.ok }

// IsErr reports whether the Result is a failure.
func (r Result[A, E]) IsErr() bool { return !r.ok }

// Value returns the success value and true, or the zero value and false.
func (r Result[A, E]) Value() (A, bool) {
	if r.ok {
		return r.value, true
	}
	var zero A
	return zero, false
}

// Failure returns the Failure and true, or a zero Failure and false.
func (r Result[A, E]) Failure() (Failure[E], bool) {
	if !r.ok {
		return r.failure, true
	}
	return Failure[E]{}, false
}

// MapResult applies f to a successful Result's value, leaving failures
// untouched.
func MapResult[A, B, E any](r Result[A, E], f func(A) B) Result[B, E] {
	if r.ok {
		return Ok[E, B](f(r.value))
	}
	return Err[B](r.failure)
}
