package pipeline

import (
	"strings"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
)

// PassManager is the owning root of a pipeline tree: one anchor operation
// kind, the configuration flags, and the root OpPassManager node.
//
// A PassManager exclusively owns its entire pipeline tree; nodes are never
// shared between managers. The ir.Context it is built against is external
// and must outlive the manager.
//
// Managers are single-threaded: Add and Run must not overlap on the same
// instance. Multiple managers may share one Context and run in parallel on
// independent modules.
type PassManager struct {
	ctx        *ir.Context
	root       *OpPassManager
	verifyEach bool
	printIR    bool
	detached   bool
	running    bool
	sink       TraceSink
	tokens     RunTokenGenerator
}

// New creates a PassManager anchored at the given operation kind. The kind
// may be unknown to the context - anchors are validated lazily at run time,
// not at construction. An empty anchor means ir.AnyKind.
//
// Fails with INVALID_CONTEXT when ctx is nil.
func New(anchor string, ctx *ir.Context) (*PassManager, error) {
	if ctx == nil {
		return nil, newError(CodeInvalidContext, "pass manager requires a context")
	}
	if anchor == "" {
		anchor = ir.AnyKind
	}
	return &PassManager{
		ctx:    ctx,
		root:   newOpPassManager(anchor),
		tokens: UUIDv7Generator{},
	}, nil
}

// NewAny creates a PassManager anchored at the wildcard kind: it applies to
// whatever kind the target module's root operation has.
func NewAny(ctx *ir.Context) (*PassManager, error) {
	return New(ir.AnyKind, ctx)
}

// Parse constructs a PassManager from full pipeline text. When the text is a
// single anchored group - "builtin.module(...)" - that kind becomes the root
// anchor; otherwise the manager is anchored at ir.AnyKind.
//
// Fails with PIPELINE_SYNTAX (diagnostics and offset attached) on malformed
// text or unknown pass names.
func Parse(text string, reg *pass.Registry, ctx *ir.Context) (*PassManager, error) {
	pm, err := NewAny(ctx)
	if err != nil {
		return nil, err
	}
	scratch := newOpPassManager(ir.AnyKind)
	if err := parseText(text, reg, scratch); err != nil {
		return nil, err
	}
	if len(scratch.items) == 1 && scratch.items[0].nested != nil {
		pm.root = scratch.items[0].nested
	} else {
		pm.root = scratch
	}
	return pm, nil
}

// EnableVerifier toggles running the structural verifier after every pass.
// Pure configuration; no IR is touched until the next Run. Idempotent.
func (pm *PassManager) EnableVerifier(enable bool) {
	pm.verifyEach = enable
}

// VerifierEnabled reports the verify-each-pass flag.
func (pm *PassManager) VerifierEnabled() bool {
	return pm.verifyEach
}

// EnableIRPrinting turns on dumping the IR after every pass. One-directional
// on purpose: this is a debug-only escape hatch, so there is no disable.
func (pm *PassManager) EnableIRPrinting() {
	pm.printIR = true
}

// IRPrintingEnabled reports the print-after-passes flag.
func (pm *PassManager) IRPrintingEnabled() bool {
	return pm.printIR
}

// SetTraceSink installs a sink receiving run and pass events. A nil sink
// disables tracing.
func (pm *PassManager) SetTraceSink(sink TraceSink) {
	pm.sink = sink
}

// SetRunTokens overrides the run-token generator. Tests install a fixed
// generator for deterministic traces; the default is UUIDv7.
func (pm *PassManager) SetRunTokens(g RunTokenGenerator) {
	pm.tokens = g
}

// Anchor returns the root anchor kind.
func (pm *PassManager) Anchor() string {
	return pm.root.anchor
}

// Root exposes the root pipeline node for programmatic construction
// (AddPass, Nest) and introspection.
func (pm *PassManager) Root() *OpPassManager {
	return pm.root
}

// Add parses pipeline text and merges the resulting nodes into the root.
//
// Merge rules:
//   - pass references append to the root's pass list
//   - an anchored group naming the root's own anchor kind merges its body
//     into the root
//   - any other anchored group merges into the nested pipeline of that kind
//     (first-seen node wins, new passes appended)
//   - when the root anchor is a named kind and the text is a single anchored
//     group naming a different kind, that is a PIPELINE_SYNTAX error
//
// Add is atomic with respect to this call: on any error the manager's
// pipeline tree is left unmodified.
func (pm *PassManager) Add(text string, reg *pass.Registry) error {
	if pm.detached {
		return newError(CodeInvalidHandle, "pass manager ownership was released")
	}
	if pm.running {
		return newError(CodeExecFailed, "pass manager is mid-run; Add is not re-entrant")
	}
	scratch := newOpPassManager(ir.AnyKind)
	if err := parseText(text, reg, scratch); err != nil {
		return err
	}
	if pm.root.anchor != ir.AnyKind && len(scratch.items) == 1 && scratch.items[0].nested != nil {
		group := scratch.items[0].nested
		if group.anchor != pm.root.anchor {
			diags := &DiagnosticBuffer{}
			diags.Append("pipeline anchored at %q cannot be added to a manager anchored at %q",
				group.anchor, pm.root.anchor)
			return newSyntaxError(1, diags, "pipeline anchored at %q cannot be added to a manager anchored at %q",
				group.anchor, pm.root.anchor)
		}
	}
	clone := pm.root.clone()
	absorbTopLevel(clone, scratch)
	pm.root = clone
	return nil
}

// absorbTopLevel merges parsed top-level items into the root node.
func absorbTopLevel(root, scratch *OpPassManager) {
	for _, it := range scratch.items {
		if it.entry != nil {
			root.items = append(root.items, item{entry: it.entry})
			continue
		}
		if it.nested.anchor == root.anchor {
			root.mergeFrom(it.nested)
			continue
		}
		root.Nest(it.nested.anchor).mergeFrom(it.nested)
	}
}

// String prints the pipeline tree in canonical textual form, suitable to be
// fed back through Add or Parse for round-tripping. A named root anchor
// prints as "anchor(...)"; a wildcard root prints its items bare.
func (pm *PassManager) String() string {
	if pm.root == nil {
		return ""
	}
	var b strings.Builder
	if pm.root.anchor != ir.AnyKind {
		b.WriteString(pm.root.anchor)
		b.WriteString("(")
		pm.root.printInto(&b)
		b.WriteString(")")
		return b.String()
	}
	pm.root.printInto(&b)
	return b.String()
}
