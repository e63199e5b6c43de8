package ir

// Walk visits op and every operation nested under it in pre-order
// (node before descendants, children in declaration order).
func Walk(op *Op, visit func(*Op)) {
	if op == nil {
		return
	}
	visit(op)
	for _, child := range op.Children {
		Walk(child, visit)
	}
}

// CollectKind returns every operation strictly below op whose kind matches,
// in pre-order. AnyKind matches every descendant.
func CollectKind(op *Op, kind string) []*Op {
	var out []*Op
	if op == nil {
		return out
	}
	for _, child := range op.Children {
		Walk(child, func(o *Op) {
			if kind == AnyKind || o.Kind == kind {
				out = append(out, o)
			}
		})
	}
	return out
}

// CountKinds returns a histogram of operation kinds in the subtree rooted at
// op, including op itself.
func CountKinds(op *Op) map[string]int {
	counts := make(map[string]int)
	Walk(op, func(o *Op) {
		counts[o.Kind]++
	})
	return counts
}
