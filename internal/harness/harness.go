package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
	"github.com/roach88/passline/internal/pipeline"
	"github.com/roach88/passline/internal/testutil"
)

// Result holds the outcome of one scenario execution.
type Result struct {
	Name     string
	Passed   bool
	Failures []string
	Trace    []string // "pass@kind" successful executions in order
	Printed  string   // canonical pipeline text
	Dump     string   // final IR dump
}

func (r *Result) addFailure(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	r.Passed = false
}

// Run executes a scenario against the given pass registry and evaluates its
// expectations. Each scenario gets a fresh module, context, manager, and
// trace sink; a deterministic run token keeps traces reproducible.
//
// The returned error reports harness-level problems (scenario cannot be
// set up); expectation mismatches land in Result.Failures instead.
func Run(sc *Scenario, reg *pass.Registry) (*Result, error) {
	result := &Result{Name: sc.Name, Passed: true}

	irCtx := sc.BuildContext()
	mod := sc.BuildModule()

	pm, err := pipeline.New(sc.Anchor, irCtx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: create manager: %w", sc.Name, err)
	}
	pm.SetRunTokens(testutil.NewFixedTokenGenerator("scenario-run"))
	sink := testutil.NewMemorySink()
	pm.SetTraceSink(sink)
	pm.EnableVerifier(sc.Verify)

	runErr := pm.Add(sc.Pipeline, reg)
	if runErr == nil {
		result.Printed = pm.String()
		runErr = pm.Run(context.Background(), mod)
	}

	result.Trace = sink.PassSequence(pipeline.OutcomeOK)
	result.Dump = ir.Dump(mod.Root)

	evaluate(sc, result, runErr)
	return result, nil
}

func evaluate(sc *Scenario, result *Result, runErr error) {
	if sc.Expect.ErrorCode == "" {
		if runErr != nil {
			result.addFailure("expected success, got %v", runErr)
		}
	} else {
		var pe *pipeline.Error
		if runErr == nil {
			result.addFailure("expected error code %s, run succeeded", sc.Expect.ErrorCode)
		} else if !errors.As(runErr, &pe) {
			result.addFailure("expected pipeline error %s, got %v", sc.Expect.ErrorCode, runErr)
		} else if string(pe.Code) != sc.Expect.ErrorCode {
			result.addFailure("expected error code %s, got %s: %s", sc.Expect.ErrorCode, pe.Code, pe.Message)
		}
	}

	if sc.Expect.Trace != nil {
		if !equalStrings(sc.Expect.Trace, result.Trace) {
			result.addFailure("trace mismatch: expected %v, got %v", sc.Expect.Trace, result.Trace)
		}
	}

	if sc.Expect.Printed != "" && sc.Expect.Printed != result.Printed {
		result.addFailure("printed pipeline mismatch: expected %q, got %q", sc.Expect.Printed, result.Printed)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
