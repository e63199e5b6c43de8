package pass

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/passline/internal/ir"
)

// DefaultRegistry returns a registry with the built-in passes registered:
//
//	canonicalize     (mutation)  drop subtrees attributed dead=true
//	cse              (mutation)  deduplicate identical sibling subtrees
//	strip-debuginfo  (mutation)  remove debug.* attributes
//	print-op-stats   (analysis)  log an operation-kind histogram
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("canonicalize", newCanonicalize)
	r.MustRegister("cse", newCSE)
	r.MustRegister("strip-debuginfo", newStripDebugInfo)
	r.MustRegister("print-op-stats", newOpStats)
	return r
}

// rejectUnknownOpts fails on option keys the pass does not understand.
// The error surfaces as a pipeline syntax error at parse time.
func rejectUnknownOpts(opts map[string]string, allowed ...string) error {
	for key := range opts {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

// canonicalizePass removes operations attributed dead=true, iterating until
// a fixpoint or the configured iteration cap.
type canonicalizePass struct {
	maxIterations int
}

func newCanonicalize(opts map[string]string) (Pass, error) {
	if err := rejectUnknownOpts(opts, "max-iterations"); err != nil {
		return nil, err
	}
	maxIterations := 4
	if raw, ok := opts["max-iterations"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid max-iterations %q: expected positive integer", raw)
		}
		maxIterations = n
	}
	return &canonicalizePass{maxIterations: maxIterations}, nil
}

func (p *canonicalizePass) Name() string           { return "canonicalize" }
func (p *canonicalizePass) Anchor() string         { return ir.AnyKind }
func (p *canonicalizePass) Capability() Capability { return Mutation }

func (p *canonicalizePass) Run(ctx context.Context, op *ir.Op) error {
	for i := 0; i < p.maxIterations; i++ {
		if !removeDead(op) {
			return nil
		}
	}
	return nil
}

// removeDead drops direct and nested children attributed dead=true.
// Reports whether anything was removed.
func removeDead(op *ir.Op) bool {
	changed := false
	kept := op.Children[:0]
	for _, child := range op.Children {
		if child.Attr("dead") == "true" {
			changed = true
			continue
		}
		if removeDead(child) {
			changed = true
		}
		kept = append(kept, child)
	}
	op.Children = kept
	return changed
}

// csePass deduplicates structurally identical sibling subtrees, keeping the
// first occurrence. Identity is the canonical fingerprint.
type csePass struct{}

func newCSE(opts map[string]string) (Pass, error) {
	if err := rejectUnknownOpts(opts); err != nil {
		return nil, err
	}
	return &csePass{}, nil
}

func (p *csePass) Name() string           { return "cse" }
func (p *csePass) Anchor() string         { return ir.AnyKind }
func (p *csePass) Capability() Capability { return Mutation }

func (p *csePass) Run(ctx context.Context, op *ir.Op) error {
	dedupeSiblings(op)
	return nil
}

func dedupeSiblings(op *ir.Op) {
	seen := make(map[string]bool, len(op.Children))
	kept := op.Children[:0]
	for _, child := range op.Children {
		fp := ir.Fingerprint(child)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		dedupeSiblings(child)
		kept = append(kept, child)
	}
	op.Children = kept
}

// stripDebugInfoPass removes attributes under the debug. prefix.
type stripDebugInfoPass struct{}

func newStripDebugInfo(opts map[string]string) (Pass, error) {
	if err := rejectUnknownOpts(opts); err != nil {
		return nil, err
	}
	return &stripDebugInfoPass{}, nil
}

func (p *stripDebugInfoPass) Name() string           { return "strip-debuginfo" }
func (p *stripDebugInfoPass) Anchor() string         { return ir.AnyKind }
func (p *stripDebugInfoPass) Capability() Capability { return Mutation }

func (p *stripDebugInfoPass) Run(ctx context.Context, op *ir.Op) error {
	ir.Walk(op, func(o *ir.Op) {
		for key := range o.Attrs {
			if strings.HasPrefix(key, "debug.") {
				delete(o.Attrs, key)
			}
		}
	})
	return nil
}

// opStatsPass logs a histogram of operation kinds in the anchored subtree.
// Analysis only; the IR is never touched.
type opStatsPass struct{}

func newOpStats(opts map[string]string) (Pass, error) {
	if err := rejectUnknownOpts(opts); err != nil {
		return nil, err
	}
	return &opStatsPass{}, nil
}

func (p *opStatsPass) Name() string           { return "print-op-stats" }
func (p *opStatsPass) Anchor() string         { return ir.AnyKind }
func (p *opStatsPass) Capability() Capability { return Analysis }

func (p *opStatsPass) Run(ctx context.Context, op *ir.Op) error {
	counts := ir.CountKinds(op)
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		slog.Info("op stats", "kind", kind, "count", counts[kind])
	}
	return nil
}
