package ir

import (
	"sort"
	"strings"
)

// Dump renders the subtree rooted at op as indented text, one operation per
// line. Attributes print sorted by key so output is deterministic; the same
// tree always dumps to the same text, which golden tests rely on.
//
// Example:
//
//	builtin.module @main {
//	  func.func @f {dead=true} {
//	    arith.addi
//	  }
//	}
func Dump(op *Op) string {
	var b strings.Builder
	dumpOp(&b, op, 0)
	return b.String()
}

func dumpOp(b *strings.Builder, op *Op, depth int) {
	if op == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(op.Kind)
	if op.Name != "" {
		b.WriteString(" @")
		b.WriteString(op.Name)
	}
	if len(op.Attrs) > 0 {
		b.WriteString(" {")
		for i, key := range sortedKeys(op.Attrs) {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(op.Attrs[key])
		}
		b.WriteString("}")
	}
	if len(op.Children) == 0 {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, child := range op.Children {
		dumpOp(b, child, depth+1)
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("}\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
