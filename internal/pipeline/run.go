package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/roach88/passline/internal/ir"
)

// RunTokenGenerator produces unique tokens identifying one Run call.
// Implemented by UUIDv7Generator (production) and fixed generators (tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens. Stateless and
// safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Trace event outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFail   = "fail"
	OutcomeVerify = "verify-fail"
	OutcomeIRDump = "ir-dump"
)

// TraceEvent records one pass execution (or IR dump) during a run.
type TraceEvent struct {
	RunToken string
	Seq      int64
	Pass     string
	OpKind   string
	OpPath   string
	Outcome  string
	Detail   string
}

// TraceSink receives run lifecycle and pass events. Sinks are side-effect
// only: they never affect the pass/fail outcome of a run.
type TraceSink interface {
	RunStarted(token, anchor, pipeline string)
	PassRun(ev TraceEvent)
	RunFinished(token, outcome, diagnostics string)
}

// runState carries the per-run diagnostic buffer, trace token, and event
// sequence. Created fresh for every Run call; no cross-run state.
type runState struct {
	pm    *PassManager
	diags *DiagnosticBuffer
	token string
	seq   int64
}

func (rs *runState) emit(passName, opKind, opPath, outcome, detail string) {
	if rs.pm.sink == nil {
		return
	}
	rs.seq++
	rs.pm.sink.PassRun(TraceEvent{
		RunToken: rs.token,
		Seq:      rs.seq,
		Pass:     passName,
		OpKind:   opKind,
		OpPath:   opPath,
		Outcome:  outcome,
		Detail:   detail,
	})
}

// Run executes the pipeline over the target module, walking the IR tree in
// lock-step with the pipeline tree and halting on first failure.
//
// The module is borrowed for the duration of this call only; the manager
// retains no reference afterward. Runs are non-transactional: mutations made
// by passes that completed before a failure are not rolled back.
func (pm *PassManager) Run(ctx context.Context, mod *ir.Module) error {
	if pm.detached {
		return newError(CodeInvalidHandle, "pass manager ownership was released")
	}
	if pm.running {
		return newError(CodeExecFailed, "pass manager is mid-run; Run is not re-entrant")
	}
	if mod == nil || mod.Root == nil {
		return newError(CodeExecFailed, "nil module")
	}
	if pm.root.anchor != ir.AnyKind && mod.RootKind() != pm.root.anchor {
		return newError(CodeAnchorMismatch, "pipeline anchored at %q cannot run on module rooted at %q",
			pm.root.anchor, mod.RootKind())
	}

	pm.running = true
	defer func() { pm.running = false }()

	rs := &runState{
		pm:    pm,
		diags: &DiagnosticBuffer{},
		token: pm.tokens.Generate(),
	}
	if pm.sink != nil {
		pm.sink.RunStarted(rs.token, pm.root.anchor, pm.String())
	}
	slog.Debug("pipeline run starting",
		"run", rs.token,
		"anchor", pm.root.anchor,
		"pipeline", pm.String(),
	)

	err := rs.runNode(ctx, pm.root, mod.Root, mod.RootKind())
	if err != nil {
		if pm.sink != nil {
			pm.sink.RunFinished(rs.token, OutcomeFail, rs.diags.Join())
		}
		slog.Debug("pipeline run failed", "run", rs.token, "error", err)
		return err
	}
	if pm.sink != nil {
		pm.sink.RunFinished(rs.token, OutcomeOK, "")
	}
	slog.Debug("pipeline run finished", "run", rs.token)
	return nil
}

// runNode executes one pipeline node over one IR operation: passes and
// nested pipelines in declaration order, nested pipelines applying to every
// matching descendant pre-order.
func (rs *runState) runNode(ctx context.Context, node *OpPassManager, op *ir.Op, path string) error {
	for _, it := range node.items {
		if err := ctx.Err(); err != nil {
			rs.diags.Append("run cancelled at %s: %v", path, err)
			return rs.execErr("run cancelled: %v", err)
		}
		if it.entry != nil {
			if err := rs.runPass(ctx, it.entry, op, path); err != nil {
				return err
			}
			continue
		}
		if err := rs.runNested(ctx, it.nested, op, path); err != nil {
			return err
		}
	}
	return nil
}

func (rs *runState) runPass(ctx context.Context, entry *passEntry, op *ir.Op, path string) error {
	p := entry.p
	if p.Anchor() != ir.AnyKind && p.Anchor() != op.Kind {
		rs.diags.Append("pass %q expects operation kind %q, got %q at %s", p.Name(), p.Anchor(), op.Kind, path)
		return rs.execErr("pass %q cannot run on %q", p.Name(), op.Kind)
	}

	slog.Debug("running pass", "run", rs.token, "pass", p.Name(), "kind", op.Kind, "path", path)
	if err := p.Run(ctx, op); err != nil {
		rs.diags.Append("pass %q failed on %s: %v", p.Name(), path, err)
		rs.emit(p.Name(), op.Kind, path, OutcomeFail, err.Error())
		return rs.execErr("pass %q failed on %q", p.Name(), op.Kind)
	}
	rs.emit(p.Name(), op.Kind, path, OutcomeOK, "")

	if rs.pm.verifyEach {
		if err := ir.Verify(rs.pm.ctx, op); err != nil {
			rs.diags.Append("verification failed after pass %q at %s:", p.Name(), path)
			rs.diags.Append("%v", err)
			rs.emit(p.Name(), op.Kind, path, OutcomeVerify, err.Error())
			e := newError(CodeVerifyFailed, "IR verification failed after pass %q", p.Name())
			e.Diagnostics = rs.diags.Join()
			return e
		}
	}
	if rs.pm.printIR {
		dump := ir.Dump(op)
		slog.Debug("ir after pass", "run", rs.token, "pass", p.Name(), "path", path, "ir", dump)
		rs.emit(p.Name(), op.Kind, path, OutcomeIRDump, dump)
	}
	return nil
}

func (rs *runState) runNested(ctx context.Context, nested *OpPassManager, op *ir.Op, path string) error {
	// Nesting rules come from the external context, so child-kind validity
	// is checked here, lazily, not at pipeline construction.
	if nested.anchor != ir.AnyKind {
		if !rs.pm.ctx.Known(nested.anchor) {
			rs.diags.Append("pipeline references unknown operation kind %q under %s", nested.anchor, path)
			return rs.execErr("unknown operation kind %q in pipeline", nested.anchor)
		}
	}
	for i, target := range ir.CollectKind(op, nested.anchor) {
		childPath := fmt.Sprintf("%s/%s[%d]", path, target.Kind, i)
		if err := rs.runNode(ctx, nested, target, childPath); err != nil {
			return err
		}
	}
	return nil
}

func (rs *runState) execErr(format string, args ...any) *Error {
	e := newError(CodeExecFailed, format, args...)
	e.Diagnostics = rs.diags.Join()
	return e
}
