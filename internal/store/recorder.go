package store

import (
	"context"
	"log/slog"

	"github.com/roach88/passline/internal/pipeline"
)

// TraceRecorder adapts a Store to pipeline.TraceSink. Sinks are side-effect
// only by contract, so write failures are logged and swallowed - a broken
// trace database never fails a pipeline run.
type TraceRecorder struct {
	store             *Store
	fingerprintBefore string
	fingerprintAfter  func() string
}

// NewTraceRecorder creates a recorder persisting into the store.
// fingerprintBefore is the target module's fingerprint at run start,
// recorded on the run row. fingerprintAfter, when non-nil, is evaluated at
// run finish to capture the module's post-run identity.
func NewTraceRecorder(s *Store, fingerprintBefore string, fingerprintAfter func() string) *TraceRecorder {
	return &TraceRecorder{
		store:             s,
		fingerprintBefore: fingerprintBefore,
		fingerprintAfter:  fingerprintAfter,
	}
}

// RunStarted implements pipeline.TraceSink.
func (r *TraceRecorder) RunStarted(token, anchor, pipelineText string) {
	if err := r.store.BeginRun(context.Background(), token, anchor, pipelineText, r.fingerprintBefore); err != nil {
		slog.Error("trace recorder: begin run failed", "run", token, "error", err)
	}
}

// PassRun implements pipeline.TraceSink.
func (r *TraceRecorder) PassRun(ev pipeline.TraceEvent) {
	if err := r.store.WritePassEvent(context.Background(), ev); err != nil {
		slog.Error("trace recorder: write pass event failed", "run", ev.RunToken, "seq", ev.Seq, "error", err)
	}
}

// RunFinished implements pipeline.TraceSink.
func (r *TraceRecorder) RunFinished(token, outcome, diagnostics string) {
	after := ""
	if r.fingerprintAfter != nil {
		after = r.fingerprintAfter()
	}
	if err := r.store.FinishRun(context.Background(), token, outcome, diagnostics, after); err != nil {
		slog.Error("trace recorder: finish run failed", "run", token, "error", err)
	}
}
