// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"fmt"

	"github.com/pkg/errors"
)

// FailureTag discriminates the three ways a computation can fail.
type FailureTag int

const (
	// FailureExpected is a typed, recoverable domain failure introduced by
	// Fail, FromEither(Left), or FromOption(None).
	FailureExpected FailureTag = iota
	// FailureUnexpected is a thrown/panicked value caught outside the typed
	// failure channel, e.g. a user callback panic caught by Make.
	FailureUnexpected
	// FailureAborted marks cancellation/interruption.
	FailureAborted
)

func (t FailureTag) String() string {
	switch t {
	case FailureExpected:
		return "Expected"
	case FailureUnexpected:
		return "Unexpected"
	case FailureAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// abortedSentinel is the single shared value carried by every Aborted
// failure, per spec: "a single shared sentinel value is acceptable."
type abortedSentinel struct{}

// ErrAborted is the sentinel error RunPromise squashes Aborted failures to.
var ErrAborted = errors.New("micro: effect aborted")

// Failure is the tagged sum carried by a failed Result.
type Failure[E any] struct {
	tag      FailureTag
	expected E
	defect   any
}

// Expected constructs a typed, recoverable domain failure.
func Expected[E any](e E) Failure[E] {
	return Failure[E]{tag: FailureExpected, expected: e}
}

// Unexpected constructs a failure carrying an untyped defect.
func Unexpected[E any](defect any) Failure[E] {
	return Failure[E]{tag: FailureUnexpected, defect: defect}
}

// AbortedFailure constructs the cancellation failure variant.
func AbortedFailure[E any]() Failure[E] {
	return Failure[E]{tag: FailureAborted, defect: abortedSentinel{}}
}

// Tag reports which of the three failure kinds this is.
func (f Failure[E]) Tag() FailureTag { return f.tag }

// AsExpected returns the typed error and true if this is an Expected failure.
func (f Failure[E]) AsExpected() (E, bool) {
	if f.tag == FailureExpected {
		return f.expected, true
	}
	var zero E
	return zero, false
}

// Defect returns the untyped panic value and true if this is Unexpected.
func (f Failure[E]) Defect() (any, bool) {
	if f.tag == FailureUnexpected {
		return f.defect, true
	}
	return nil, false
}

// IsAborted reports whether this failure is the Aborted variant.
func (f Failure[E]) IsAborted() bool { return f.tag == FailureAborted }

// Error implements the error interface so a Failure can be handed to
// anything expecting a plain Go error (RunSync re-raises Failure values
// this way).
func (f Failure[E]) Error() string {
	switch f.tag {
	case FailureExpected:
		return fmt.Sprintf("micro: expected failure: %v", f.expected)
	case FailureUnexpected:
		if err, ok := f.defect.(error); ok {
			return fmt.Sprintf("micro: unexpected defect: %v", err)
		}
		return fmt.Sprintf("micro: unexpected defect: %v", f.defect)
	case FailureAborted:
		return ErrAborted.Error()
	default:
		return "micro: unknown failure"
	}
}

// DefectError wraps a non-error defect value so RunPromise can squash it
// into a plain Go error while still exposing the original value via Unwrap
// when it was already an error.
type DefectError struct {
	Defect any
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("micro: defect: %v", e.Defect)
}

func (e *DefectError) Unwrap() error {
	if err, ok := e.Defect.(error); ok {
		return err
	}
	return nil
}

// squash converts a Failure into a plain Go error the way RunPromise's
// user-visible squash policy requires (spec §7): Expected -> the inner
// error wrapped with a stack via pkg/errors, Unexpected -> a *DefectError,
// Aborted -> ErrAborted.
func squash[E any](f Failure[E]) error {
	switch f.tag {
	case FailureExpected:
		if err, ok := any(f.expected).(error); ok {
			return errors.WithStack(err)
		}
		return errors.Errorf("micro: %v", f.expected)
	case FailureUnexpected:
		return &DefectError{Defect: f.defect}
	case FailureAborted:
		return ErrAborted
	default:
		return errors.New("micro: unknown failure")
	}
}
