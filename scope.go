// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// ScopeState is a Scope's lifecycle state.
type ScopeState int

const (
	ScopeOpen ScopeState = iota
	ScopeClosed
)

// Finalizer is a Scope finalizer. It receives the Result the scope is
// closing with (boxed as any, since Scope itself isn't generic over the
// type a given Scoped/AcquireUseRelease call happens to produce) so a
// release can observe whether the resource's user succeeded or failed
// (spec.md §4.4: "registers release(a, finalResult) as a scope
// finalizer").
type Finalizer func(env *Env, closeResult any) Effect[struct{}, any]

// Scope collects finalizers registered by AcquireRelease and runs them in
// LIFO order when Close is called, the same acquire/release/release-in-
// reverse-order discipline resource.go's Bracket enforces for a single
// resource, generalized here to an arbitrary number of them (spec.md §5).
type Scope struct {
	mu          sync.Mutex
	state       ScopeState
	finalizers  []Finalizer
	children    []*Scope
	closeResult any
}

// NewScope creates a fresh, open, empty Scope.
func NewScope() *Scope {
	return &Scope{}
}

// Fork creates a child Scope closed automatically when the parent closes,
// in addition to being closeable independently (spec.md §5's nested-scope
// requirement).
func (s *Scope) Fork() *Scope {
	child := NewScope()
	s.mu.Lock()
	if s.state == ScopeClosed {
		s.mu.Unlock()
		child.state = ScopeClosed
		return child
	}
	s.children = append(s.children, child)
	s.mu.Unlock()
	return child
}

// AddFinalizer registers fin to run during Close, ahead of any finalizer
// already registered (LIFO). If the Scope is already closed, fin runs
// immediately against env and the Result the Scope already closed with
// — matching the "adding to a closed scope still runs (doesn't silently
// drop) the finalizer" rule spec.md §5 states explicitly for
// acquire-after-close safety, and spec.md §3's "addFinalizer(f): ... run
// f(storedResult) immediately".
func (s *Scope) AddFinalizer(env *Env, fin Finalizer) {
	s.mu.Lock()
	if s.state == ScopeClosed {
		closeResult := s.closeResult
		s.mu.Unlock()
		RunEffect(fin(env, closeResult), env, func(Result[struct{}, any]) {})
		return
	}
	s.finalizers = append(s.finalizers, fin)
	s.mu.Unlock()
}

// Close runs every registered finalizer in LIFO order against
// closeResult, then every child Scope's finalizers the same way, and
// marks the Scope closed. A finalizer's own failure doesn't stop the
// remaining finalizers from running; all collected failures are returned
// together.
func (s *Scope) Close(env *Env, closeResult any) Effect[struct{}, []any] {
	return Make(func(env *Env, k func(Result[struct{}, []any])) {
		s.mu.Lock()
		if s.state == ScopeClosed {
			s.mu.Unlock()
			k(Ok[[]any](struct{}{}))
			return
		}
		s.state = ScopeClosed
		s.closeResult = closeResult
		finalizers := s.finalizers
		children := s.children
		s.finalizers = nil
		s.children = nil
		s.mu.Unlock()

		// Finalizers must run to completion even if env's signal is
		// already aborted (spec.md §8 testable property 8: "rel(a,
		// Err(Aborted)) still runs to completion before the surrounding
		// effect settles"). RefInterruptible is forced false directly on
		// a derived Env rather than via the Uninterruptible combinator:
		// Uninterruptible is itself Make-based, so its own pre-flight
		// guard would check the original (aborted, interruptible) env
		// before ever flipping the ref, and short-circuit every
		// finalizer to Aborted without running it. refTrampoline is reset
		// to nil so each finalizer runs on a trampoline of its own: a
		// synchronously-settling finalizer then finishes (and its failure
		// is recorded) before the next one starts and before k is called,
		// rather than being queued on the caller's running trampoline.
		finalizerEnv := WithRef(WithRef(env, RefInterruptible, false), refTrampoline, nil)

		var failures []any
		for i := len(finalizers) - 1; i >= 0; i-- {
			RunEffect(finalizers[i](finalizerEnv, closeResult), finalizerEnv, func(r Result[struct{}, any]) {
				if failure, failed := r.Failure(); failed {
					failures = append(failures, failure)
				}
			})
		}
		for i := len(children) - 1; i >= 0; i-- {
			RunEffect(children[i].Close(finalizerEnv, closeResult), finalizerEnv, func(r Result[struct{}, []any]) {
				if failure, failed := r.Failure(); failed {
					failures = append(failures, failure)
				}
			})
		}
		logScopeClosed(len(failures))
		if len(failures) > 0 {
			k(Err[struct{}](Unexpected[[]any](failures)))
			return
		}
		k(Ok[[]any](struct{}{}))
	})
}

// Scoped runs self inside a freshly forked child Scope of the Env's
// current scope (or a brand-new root Scope if none is installed),
// closing it once self settles regardless of success, failure, or abort.
// The Scope closes with self's own Result, so any finalizer registered
// against it (directly, or via AcquireRelease/AcquireUseRelease) can
// observe whether self succeeded or failed.
func Scoped[A, E any](self Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		parent := CurrentScope(env)
		var scope *Scope
		if parent != nil {
			scope = parent.Fork()
		} else {
			scope = NewScope()
		}
		scopedEnv := WithRef(env, RefScope, scope)
		RunEffect(self, scopedEnv, func(r Result[A, E]) {
			RunEffect(scope.Close(env, r), env, func(Result[struct{}, []any]) {
				k(r)
			})
		})
	})
}

// AcquireRelease acquires a resource via acquire, registers release
// against the Env's current Scope so it fires (LIFO, at most once) when
// that Scope closes, and succeeds with the acquired resource. acquire
// itself always runs uninterruptibly so a resource can never be acquired
// without its release being registered (spec.md §5 invariant). release
// receives the Scope's close-time Result (boxed as any) alongside the
// acquired value, per spec.md §4.4.
func AcquireRelease[A, E any](acquire Effect[A, E], release func(a A, closeResult any) Effect[struct{}, any]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(Uninterruptible(acquire), env, func(r Result[A, E]) {
			if failure, failed := r.Failure(); failed {
				k(Err[A](failure))
				return
			}
			a, _ := r.Value()
			if scope := CurrentScope(env); scope != nil {
				scope.AddFinalizer(env, func(_ *Env, closeResult any) Effect[struct{}, any] {
					return release(a, closeResult)
				})
			}
			k(Ok[E](a))
		})
	})
}

// AcquireUseRelease acquires a resource, runs use against it, and
// guarantees release runs afterward regardless of use's outcome — the
// bracket pattern of resource.go's Bracket, generalized to this module's
// typed Failure channel and its Scope-based finalizer registration
// instead of returning an Either directly. release observes use's own
// Result (success or failure) via the Scope close-time value Scoped
// threads through.
func AcquireUseRelease[A, E, B any](acquire Effect[A, E], use func(A) Effect[B, E], release func(a A, closeResult any) Effect[struct{}, any]) Effect[B, E] {
	return Scoped(FlatMap(AcquireRelease(acquire, release), use))
}
