// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// Locally runs self against an Env derived by writing ref to value,
// leaving the ambient Env the caller holds untouched — the Effect-world
// analogue of kont's reader.go AskReader/MapReader pair, generalized
// from a single fixed reader environment to an arbitrary Ref.
func Locally[A, E, T any](self Effect[A, E], ref *Ref[T], value T) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(self, WithRef(env, ref, value), k)
	})
}

// ProvideContext runs self with svc added to the current Context, the
// idiom services are installed for Service[T, E] lookups.
func ProvideContext[A, E, T any](self Effect[A, E], tag *Tag[T], svc T) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		ctx := AddTag(Context_(env), tag, svc)
		RunEffect(self, WithRef(env, RefContext, ctx), k)
	})
}

// ProvideConcurrency runs self with RefConcurrency overridden, the
// combinator forEach's Inherit mode consults.
func ProvideConcurrency[A, E any](self Effect[A, E], c Concurrency) Effect[A, E] {
	return Locally(self, RefConcurrency, c)
}
