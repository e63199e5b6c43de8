package ir

import (
	"fmt"
	"strings"
)

// VerifyError reports structural invariant violations found in a subtree.
// All violations are collected (no fail-fast) so a single verifier run gives
// the complete picture.
type VerifyError struct {
	Violations []string
}

// Error implements the error interface, joining violations newline-separated.
func (e *VerifyError) Error() string {
	return strings.Join(e.Violations, "\n")
}

// Verify checks structural invariants of the subtree rooted at op against
// the context's kind registry and nesting rules:
//   - every operation has a non-empty kind
//   - every kind is registered in the context
//   - every nesting is allowed by the parent kind's rules
//
// Returns nil when the subtree is well-formed, or a *VerifyError carrying
// every violation found.
func Verify(ctx *Context, op *Op) error {
	var violations []string
	verifyOp(ctx, op, opPath(op, 0, ""), &violations)
	if len(violations) > 0 {
		return &VerifyError{Violations: violations}
	}
	return nil
}

func verifyOp(ctx *Context, op *Op, path string, violations *[]string) {
	if op == nil {
		return
	}
	if op.Kind == "" {
		*violations = append(*violations, fmt.Sprintf("%s: operation has empty kind", path))
		return
	}
	if op.Kind == AnyKind {
		*violations = append(*violations, fmt.Sprintf("%s: %q is not a concrete operation kind", path, AnyKind))
		return
	}
	if !ctx.Known(op.Kind) {
		*violations = append(*violations, fmt.Sprintf("%s: unknown operation kind %q", path, op.Kind))
		return
	}
	for i, child := range op.Children {
		childPath := opPath(child, i, path)
		if child.Kind != "" && ctx.Known(child.Kind) && !ctx.AllowsNested(op.Kind, child.Kind) {
			*violations = append(*violations, fmt.Sprintf("%s: kind %q may not nest inside %q", childPath, child.Kind, op.Kind))
		}
		verifyOp(ctx, child, childPath, violations)
	}
}

func opPath(op *Op, index int, parent string) string {
	label := op.Kind
	if label == "" {
		label = "<missing>"
	}
	if parent == "" {
		return label
	}
	return fmt.Sprintf("%s/%s[%d]", parent, label, index)
}
