package store

import (
	"context"
	"fmt"

	"github.com/roach88/passline/internal/pipeline"
)

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	Token             string
	Anchor            string
	Pipeline          string
	FingerprintBefore string
	FingerprintAfter  string
	Outcome           string
	Diagnostics       string
}

// ListRuns returns all recorded runs in insertion order.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, anchor, pipeline, fingerprint_before, fingerprint_after, outcome, diagnostics
		FROM runs
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.Token, &r.Anchor, &r.Pipeline,
			&r.FingerprintBefore, &r.FingerprintAfter, &r.Outcome, &r.Diagnostics); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadRun returns a single run record, or an error when the token is
// unknown.
func (s *Store) ReadRun(ctx context.Context, token string) (RunRecord, error) {
	var r RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT run_token, anchor, pipeline, fingerprint_before, fingerprint_after, outcome, diagnostics
		FROM runs
		WHERE run_token = ?
	`, token).Scan(&r.Token, &r.Anchor, &r.Pipeline,
		&r.FingerprintBefore, &r.FingerprintAfter, &r.Outcome, &r.Diagnostics)
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", token, err)
	}
	return r, nil
}

// ReadTrace returns a run's pass events in sequence order.
func (s *Store) ReadTrace(ctx context.Context, token string) ([]pipeline.TraceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, seq, pass, op_kind, op_path, outcome, detail
		FROM pass_events
		WHERE run_token = ?
		ORDER BY seq
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read trace %s: %w", token, err)
	}
	defer rows.Close()

	var events []pipeline.TraceEvent
	for rows.Next() {
		var ev pipeline.TraceEvent
		if err := rows.Scan(&ev.RunToken, &ev.Seq, &ev.Pass, &ev.OpKind,
			&ev.OpPath, &ev.Outcome, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan pass event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
