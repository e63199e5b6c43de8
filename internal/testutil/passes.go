// Package testutil provides deterministic helpers shared by tests and the
// conformance harness: recording passes with observable side effects, a
// fixed run-token generator, and an in-memory trace sink.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
)

// Recorder accumulates an execution-order log. Passes created by
// RegisterRecorder append "name@kind" entries, letting tests assert the
// exact order the engine ran passes in.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Recorder struct {
	mu      sync.Mutex
	entries []string
}

// Record appends one entry.
func (r *Recorder) Record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of the recorded log.
func (r *Recorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// recorderPass appends its name and the anchored op kind to a Recorder.
type recorderPass struct {
	name   string
	anchor string
	rec    *Recorder
}

func (p *recorderPass) Name() string                { return p.name }
func (p *recorderPass) Anchor() string              { return p.anchor }
func (p *recorderPass) Capability() pass.Capability { return pass.Analysis }

func (p *recorderPass) Run(ctx context.Context, op *ir.Op) error {
	p.rec.Record(fmt.Sprintf("%s@%s", p.name, op.Kind))
	return nil
}

// RegisterRecorder registers a recording pass under the given name, anchored
// at ir.AnyKind.
func RegisterRecorder(reg *pass.Registry, rec *Recorder, name string) {
	reg.MustRegister(name, func(opts map[string]string) (pass.Pass, error) {
		if len(opts) > 0 {
			return nil, errors.New("recorder passes take no options")
		}
		return &recorderPass{name: name, anchor: ir.AnyKind, rec: rec}, nil
	})
}

// NewRecorderPass creates a recording pass directly, for programmatic
// AddPass use.
func NewRecorderPass(name, anchor string, rec *Recorder) pass.Pass {
	return &recorderPass{name: name, anchor: anchor, rec: rec}
}

// failPass records itself, then reports failure.
type failPass struct {
	name string
	rec  *Recorder
}

func (p *failPass) Name() string                { return p.name }
func (p *failPass) Anchor() string              { return ir.AnyKind }
func (p *failPass) Capability() pass.Capability { return pass.Analysis }

func (p *failPass) Run(ctx context.Context, op *ir.Op) error {
	if p.rec != nil {
		p.rec.Record(fmt.Sprintf("%s@%s", p.name, op.Kind))
	}
	return errors.New("intentional failure")
}

// RegisterFail registers a pass that always fails, recording its execution
// first when rec is non-nil.
func RegisterFail(reg *pass.Registry, rec *Recorder, name string) {
	reg.MustRegister(name, func(opts map[string]string) (pass.Pass, error) {
		return &failPass{name: name, rec: rec}, nil
	})
}

// breakIRPass nests an operation of an unregistered kind under the anchor,
// breaking the structural invariant the verifier checks.
type breakIRPass struct {
	name string
}

func (p *breakIRPass) Name() string                { return p.name }
func (p *breakIRPass) Anchor() string              { return ir.AnyKind }
func (p *breakIRPass) Capability() pass.Capability { return pass.Mutation }

func (p *breakIRPass) Run(ctx context.Context, op *ir.Op) error {
	op.Children = append(op.Children, ir.NewOp("bogus.unregistered"))
	return nil
}

// RegisterBreakIR registers a pass that corrupts the IR so verification
// fails.
func RegisterBreakIR(reg *pass.Registry, name string) {
	reg.MustRegister(name, func(opts map[string]string) (pass.Pass, error) {
		return &breakIRPass{name: name}, nil
	})
}
