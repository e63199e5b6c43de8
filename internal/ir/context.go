package ir

import (
	"sort"
	"sync"
)

// Context is the shared environment pipelines are constructed against. It
// registers known operation kinds and which kinds may nest inside them.
//
// A Context must outlive every pass manager built on it and may be shared
// across managers running in parallel on independent modules.
//
// Thread-safety: all methods are safe for concurrent use via internal
// locking; registration and lookup may interleave freely.
type Context struct {
	mu    sync.RWMutex
	kinds map[string]map[string]bool // kind -> allowed nested kinds
}

// NewContext creates an empty Context with no registered kinds.
func NewContext() *Context {
	return &Context{kinds: make(map[string]map[string]bool)}
}

// BuiltinContext creates a Context with the builtin dialect registered:
// "builtin.module" nesting "func.func".
func BuiltinContext() *Context {
	c := NewContext()
	c.RegisterKind("builtin.module", "func.func")
	c.RegisterKind("func.func")
	return c
}

// RegisterKind registers an operation kind and the kinds allowed to nest
// inside it. Re-registering a kind extends its allowed nested set.
func (c *Context) RegisterKind(kind string, nested ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info := c.kinds[kind]
	if info == nil {
		info = make(map[string]bool)
		c.kinds[kind] = info
	}
	for _, n := range nested {
		info[n] = true
	}
}

// Known reports whether the kind is registered. AnyKind is always known.
func (c *Context) Known(kind string) bool {
	if kind == AnyKind {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.kinds[kind]
	return ok
}

// AllowsNested reports whether child operations of kind child may occur
// inside operations of kind parent.
func (c *Context) AllowsNested(parent, child string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.kinds[parent]
	if !ok {
		return false
	}
	return info[child]
}

// Kinds returns all registered kinds in sorted order.
func (c *Context) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.kinds))
	for k := range c.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Adopt registers every kind observed in the operation tree, allowing the
// parent/child nestings the tree exhibits. Used by loaders that accept
// modules from external files; hand-written tests register kinds explicitly.
func (c *Context) Adopt(op *Op) {
	if op == nil {
		return
	}
	c.RegisterKind(op.Kind)
	for _, child := range op.Children {
		c.RegisterKind(op.Kind, child.Kind)
		c.Adopt(child)
	}
}
