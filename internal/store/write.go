package store

import (
	"context"
	"fmt"

	"github.com/roach88/passline/internal/pipeline"
)

// BeginRun inserts the run record in the "running" state.
func (s *Store) BeginRun(ctx context.Context, token, anchor, pipelineText, fingerprintBefore string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_token, anchor, pipeline, fingerprint_before)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_token) DO NOTHING
	`, token, anchor, pipelineText, fingerprintBefore)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", token, err)
	}
	return nil
}

// FinishRun records the final outcome, diagnostics, and post-run module
// fingerprint of a run.
func (s *Store) FinishRun(ctx context.Context, token, outcome, diagnostics, fingerprintAfter string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET outcome = ?, diagnostics = ?, fingerprint_after = ?
		WHERE run_token = ?
	`, outcome, diagnostics, fingerprintAfter, token)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", token, err)
	}
	return nil
}

// WritePassEvent appends one pass-execution event. Duplicate (run, seq)
// pairs are silently ignored for idempotency.
func (s *Store) WritePassEvent(ctx context.Context, ev pipeline.TraceEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pass_events (run_token, seq, pass, op_kind, op_path, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`, ev.RunToken, ev.Seq, ev.Pass, ev.OpKind, ev.OpPath, ev.Outcome, ev.Detail)
	if err != nil {
		return fmt.Errorf("write pass event %s/%d: %w", ev.RunToken, ev.Seq, err)
	}
	return nil
}
