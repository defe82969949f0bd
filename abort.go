// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// AbortSignal and AbortController are the host cancellation primitive
// spec.md §6 requires: "a cancellable signal/controller abstraction
// supporting addEventListener/removeEventListener, signal.aborted, and
// controller.abort()". The shape follows the W3C AbortController pattern
// observed in other_examples/joeycumines-go-utilpkg/eventloop/abort.go,
// with the one-shot/affine discipline kont's Affine and Suspension types
// use: the signal settles at most once, guarded here by a mutex-protected
// aborted flag.
type AbortSignal struct {
	mu       sync.Mutex
	aborted  bool
	reason   any
	handlers []*abortListener
	nextID   uint64
}

type abortListener struct {
	id uint64
	fn func(reason any)
}

func newAbortSignal() *AbortSignal { return &AbortSignal{} }

// Aborted reports whether the signal has fired.
func (s *AbortSignal) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Reason returns the abort reason, or nil if not yet aborted.
func (s *AbortSignal) Reason() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// ListenerID identifies a registered abort listener so it can be removed.
type ListenerID uint64

// AddEventListener registers fn to run when the signal aborts. If the
// signal is already aborted, fn runs synchronously before this call
// returns — matching spec.md §4.6's "adding after settlement invokes
// immediately" discipline used throughout this module's observer sets.
func (s *AbortSignal) AddEventListener(fn func(reason any)) ListenerID {
	s.mu.Lock()
	if s.aborted {
		reason := s.reason
		s.mu.Unlock()
		fn(reason)
		return 0
	}
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, &abortListener{id: id, fn: fn})
	s.mu.Unlock()
	return ListenerID(id)
}

// RemoveEventListener removes a previously registered listener. No-op if
// id is zero (already-fired registration) or already removed.
func (s *AbortSignal) RemoveEventListener(id ListenerID) {
	if id == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.handlers {
		if l.id == uint64(id) {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *AbortSignal) fire(reason any) {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.aborted = true
	s.reason = reason
	handlers := s.handlers
	s.handlers = nil
	s.mu.Unlock()
	for _, l := range handlers {
		l.fn(reason)
	}
}

// AbortController owns the cancellation of an AbortSignal.
type AbortController struct {
	signal *AbortSignal
}

// NewAbortController creates a controller with a fresh, non-aborted
// signal — the primitive spec.md §3 requires uninterruptible regions to
// observe instead of an outer controller's signal.
func NewAbortController() *AbortController {
	return &AbortController{signal: newAbortSignal()}
}

// Signal returns the controller's signal.
func (c *AbortController) Signal() *AbortSignal { return c.signal }

// Abort triggers the controller's signal. Idempotent: subsequent calls
// after the first are no-ops (spec.md §8 property 10, "Handle idempotence",
// generalizes the same one-shot requirement to the underlying controller).
func (c *AbortController) Abort(reason any) {
	if reason == nil {
		reason = abortedSentinel{}
	}
	c.signal.fire(reason)
}
