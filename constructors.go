// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"github.com/IBM/fp-go/v2/either"
	"github.com/IBM/fp-go/v2/option"
)

// Succeed builds an Effect that always succeeds with a, resolving its
// continuation synchronously (spec.md §8 property 2).
func Succeed[E, A any](a A) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(Ok[E](a))
	})
}

// Fail builds an Effect that always fails with the typed error e.
func Fail[A, E any](e E) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(Err[A](Expected[E](e)))
	})
}

// Die builds an Effect that always fails with an untyped defect.
func Die[A, E any](defect any) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(Err[A](Unexpected[E](defect)))
	})
}

// FailWith builds an Effect that always fails with the given Failure as-is.
func FailWith[A, E any](f Failure[E]) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(Err[A](f))
	})
}

// Sync evaluates thunk eagerly when run; a panic is caught and converted
// to Unexpected by Make the same as any other constructor body.
func Sync[E, A any](thunk func() A) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(Ok[E](thunk()))
	})
}

// FromResult lifts an already-computed Result into an Effect.
func FromResult[A, E any](r Result[A, E]) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(r)
	})
}

// FromOption lifts an option.Option[A] (github.com/IBM/fp-go/v2/option,
// spec.md §6's Option collaborator) into an Effect. Some(a) succeeds with
// a; None fails Expected carrying the None value itself in the error
// slot — spec.md §9's Open Question decision: preserve this convention
// rather than flattening None to Aborted or a nullary failure, exactly as
// the source does.
func FromOption[A any](o option.Option[A]) Effect[A, option.Option[A]] {
	return Make(func(_ *Env, k func(Result[A, option.Option[A]])) {
		k(option.Fold(
			func() Result[A, option.Option[A]] { return Err[A](Expected(o)) },
			func(a A) Result[A, option.Option[A]] { return Ok[option.Option[A]](a) },
		)(o))
	})
}

// FromEither lifts an either.Either[E, A] (github.com/IBM/fp-go/v2/either)
// into an Effect. Right(a) succeeds with a; Left(e) fails Expected(e).
func FromEither[E, A any](e either.Either[E, A]) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		k(either.Fold(
			func(l E) Result[A, E] { return Err[A](Expected(l)) },
			func(r A) Result[A, E] { return Ok[E](r) },
		)(e))
	})
}

// Suspend defers construction of the inner Effect until run time,
// exactly as spec.md §4.1 describes — the functional-programming-library
// analogue of kont's Suspend, which defers a CPS function's construction
// the same way.
func Suspend[A, E any](thunk func() Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(thunk(), env, k)
	})
}

// Service reads a service of type T from the Env's current Context,
// keyed by tag. A missing service is a programmer error, not a domain
// failure: it panics, which Make converts into Err(Unexpected(...)) the
// same way any other callback panic is handled.
func Service[T, E any](tag *Tag[T]) Effect[T, E] {
	return Make(func(env *Env, k func(Result[T, E])) {
		v, ok := GetTag(Context_(env), tag)
		if !ok {
			panic(&missingServiceError{id: tag.ID()})
		}
		k(Ok[E](v))
	})
}

type missingServiceError struct{ id string }

func (e *missingServiceError) Error() string {
	return "micro: service not found in context: " + e.id
}
