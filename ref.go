// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// Ref is a typed key into an Environment with a default value, the
// MicroEnvRef of spec.md's glossary. Two Refs are the same key iff they
// are the same pointer — NewRef always returns a fresh identity, the same
// way kont's Ask[E]/Get[S] effect operations are keyed by their own type
// rather than by an arbitrary string.
type Ref[T any] struct {
	name string
	def  T
}

// NewRef creates a fresh reference identity carrying a default value.
// name is used only for diagnostics (panic messages, String()).
func NewRef[T any](name string, def T) *Ref[T] {
	return &Ref[T]{name: name, def: def}
}

// Name returns the reference's diagnostic identifier.
func (r *Ref[T]) Name() string { return r.name }

// Default returns the reference's default value.
func (r *Ref[T]) Default() T { return r.def }
