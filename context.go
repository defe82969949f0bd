// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// Context is a minimal stand-in for the "generic service-context mapping"
// spec.md §6 names as an external collaborator consumed by interface only.
//
// The pack's closest real analogue, github.com/pumped-fn/pumped-go's
// Scope/Tag graph, is a dependency-injection resolver with reactive
// dependents and extensions — importing it for a single typed lookup
// would be exactly the unjustified, oversized dependency this corpus
// itself avoids (see DESIGN.md). Context instead mirrors the shape kont
// already uses internally for its Reader effect (reader.go's Ask[E]/
// readerHandler: a typed key dispatched through a pointer), generalized
// to hold more than one service at a time via the same persistent-list
// technique Env uses.
type Context struct {
	head *ctxNode
}

type ctxNode struct {
	key   any
	value any
	next  *ctxNode
}

// emptyContext is the zero Context, returned by RefContext's default.
var emptyContext = &Context{}

// Tag is a generic tag constructor taking a stable identifier string
// (spec.md §6). Two Tags are the same key iff they are the same pointer.
type Tag[T any] struct {
	id string
}

// NewTag creates a fresh, uniquely-identified service tag.
func NewTag[T any](id string) *Tag[T] { return &Tag[T]{id: id} }

// ID returns the tag's stable identifier string.
func (t *Tag[T]) ID() string { return t.id }

// GetTag looks up tag in ctx.
func GetTag[T any](ctx *Context, tag *Tag[T]) (T, bool) {
	if ctx != nil {
		for n := ctx.head; n != nil; n = n.next {
			if n.key == tag {
				return n.value.(T), true
			}
		}
	}
	var zero T
	return zero, false
}

// AddTag returns a new Context with tag bound to v, shadowing any
// existing binding for tag.
func AddTag[T any](ctx *Context, tag *Tag[T], v T) *Context {
	var head *ctxNode
	if ctx != nil {
		head = ctx.head
	}
	return &Context{head: &ctxNode{key: tag, value: v, next: head}}
}

// MergeContext combines base and overrides into one Context in which
// overrides' bindings take precedence, and overrides' own internal
// shadowing order is preserved. base may be nil.
func MergeContext(base, overrides *Context) *Context {
	if overrides == nil || overrides.head == nil {
		if base == nil {
			return emptyContext
		}
		return base
	}
	// Collect overrides' entries, most-recently-added first, then replay
	// them oldest-first on top of base so later AddTag calls still shadow
	// earlier ones.
	var entries []*ctxNode
	for n := overrides.head; n != nil; n = n.next {
		entries = append(entries, n)
	}
	result := base
	for i := len(entries) - 1; i >= 0; i-- {
		var head *ctxNode
		if result != nil {
			head = result.head
		}
		result = &Context{head: &ctxNode{key: entries[i].key, value: entries[i].value, next: head}}
	}
	return result
}
