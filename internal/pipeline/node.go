package pipeline

import (
	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
)

// passEntry is one scheduled pass plus the textual options it was created
// from. Options are kept so the printer can round-trip them; the pass itself
// stays opaque.
type passEntry struct {
	p    pass.Pass
	opts map[string]string
}

// item is one slot in a pipeline: exactly one of entry or nested is set.
// Keeping passes and nested pipelines in a single ordered list preserves
// declaration order for both printing and execution.
type item struct {
	entry  *passEntry
	nested *OpPassManager
}

// OpPassManager is a pipeline node scoped to one operation kind: an ordered
// sequence of passes and nested pipelines for descendant kinds.
//
// Whether a nested kind can actually occur under the anchor is validated
// lazily at run time against the ir.Context's nesting rules, never at
// construction - the rules are supplied externally.
type OpPassManager struct {
	anchor string
	items  []item
	nested map[string]*OpPassManager
}

func newOpPassManager(anchor string) *OpPassManager {
	return &OpPassManager{
		anchor: anchor,
		nested: make(map[string]*OpPassManager),
	}
}

// Anchor returns the operation kind this pipeline applies to, or ir.AnyKind.
func (n *OpPassManager) Anchor() string {
	return n.anchor
}

// AddPass appends a pass to the pipeline. The pass's declared anchor must be
// compatible with the node's anchor; ir.AnyKind on either side matches
// anything (the concrete kind is re-checked against the actual operation at
// run time).
func (n *OpPassManager) AddPass(p pass.Pass) error {
	return n.addEntry(p, nil)
}

func (n *OpPassManager) addEntry(p pass.Pass, opts map[string]string) error {
	if p.Anchor() != ir.AnyKind && n.anchor != ir.AnyKind && p.Anchor() != n.anchor {
		return newError(CodeSyntax, "pass %q expects anchor %q, pipeline is anchored at %q",
			p.Name(), p.Anchor(), n.anchor)
	}
	n.items = append(n.items, item{entry: &passEntry{p: p, opts: opts}})
	return nil
}

// Nest returns the nested pipeline for the given kind, creating and
// appending it on first use. Re-nesting an existing kind returns the
// first-seen node (merge-by-anchor-kind: new passes append to it), which
// keeps printing round-trip stable.
func (n *OpPassManager) Nest(kind string) *OpPassManager {
	if existing, ok := n.nested[kind]; ok {
		return existing
	}
	child := newOpPassManager(kind)
	n.nested[kind] = child
	n.items = append(n.items, item{nested: child})
	return child
}

// PassNames returns the names of directly scheduled passes in order,
// skipping nested pipelines. Used by tests and the CLI.
func (n *OpPassManager) PassNames() []string {
	var names []string
	for _, it := range n.items {
		if it.entry != nil {
			names = append(names, it.entry.p.Name())
		}
	}
	return names
}

// NestedKinds returns the anchor kinds of nested pipelines in declaration
// order.
func (n *OpPassManager) NestedKinds() []string {
	var kinds []string
	for _, it := range n.items {
		if it.nested != nil {
			kinds = append(kinds, it.nested.anchor)
		}
	}
	return kinds
}

// clone deep-copies the pipeline tree. Add parses into a clone so a syntax
// error leaves the manager untouched.
func (n *OpPassManager) clone() *OpPassManager {
	out := newOpPassManager(n.anchor)
	for _, it := range n.items {
		if it.entry != nil {
			opts := it.entry.opts
			var optsCopy map[string]string
			if opts != nil {
				optsCopy = make(map[string]string, len(opts))
				for k, v := range opts {
					optsCopy[k] = v
				}
			}
			// Pass instances are stateless w.r.t. scheduling, shared by value.
			out.items = append(out.items, item{entry: &passEntry{p: it.entry.p, opts: optsCopy}})
			continue
		}
		child := it.nested.clone()
		out.nested[child.anchor] = child
		out.items = append(out.items, item{nested: child})
	}
	return out
}

// mergeFrom appends src's items into n, merging nested pipelines by anchor
// kind (first-seen node wins, new passes appended).
func (n *OpPassManager) mergeFrom(src *OpPassManager) {
	for _, it := range src.items {
		if it.entry != nil {
			n.items = append(n.items, item{entry: it.entry})
			continue
		}
		n.Nest(it.nested.anchor).mergeFrom(it.nested)
	}
}
