package pipeline

import (
	"sort"
	"strings"
)

// printInto emits the node's items in declaration order: passes as
// "name" or "name{k=v ...}" with options sorted by key, nested pipelines as
// "kind(...)". The printed text, re-parsed, reconstructs a structurally
// identical tree - the round-trip invariant behind PassManager.String.
func (n *OpPassManager) printInto(b *strings.Builder) {
	for i, it := range n.items {
		if i > 0 {
			b.WriteString(",")
		}
		if it.entry != nil {
			printEntry(b, it.entry)
			continue
		}
		b.WriteString(it.nested.anchor)
		b.WriteString("(")
		it.nested.printInto(b)
		b.WriteString(")")
	}
}

func printEntry(b *strings.Builder, e *passEntry) {
	b.WriteString(e.p.Name())
	if len(e.opts) == 0 {
		return
	}
	keys := make([]string, 0, len(e.opts))
	for k := range e.opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(e.opts[k])
	}
	b.WriteString("}")
}

// Text returns the node's canonical pipeline text without the anchor
// wrapper.
func (n *OpPassManager) Text() string {
	var b strings.Builder
	n.printInto(&b)
	return b.String()
}
