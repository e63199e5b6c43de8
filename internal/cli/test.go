package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/passline/internal/harness"
	"github.com/roach88/passline/internal/pass"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

// TestSummary holds the overall test result.
type TestSummary struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command: run conformance scenarios.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenario.yaml>...",
		Short: "Run conformance scenarios",
		Long: `Run YAML conformance scenarios against the built-in pass registry,
validating pipeline parsing, canonical printing, execution order, and
error propagation.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing files, malformed scenarios)

Examples:
  passline test scenarios/*.yaml
  passline test scenarios/nested.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	reg := pass.DefaultRegistry()

	summary := TestSummary{}
	for _, path := range paths {
		sc, err := harness.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		result, err := harness.Run(sc, reg)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to run scenario", err)
		}
		summary.Scenarios = append(summary.Scenarios, ScenarioResult{
			Name:     result.Name,
			Pass:     result.Passed,
			Failures: result.Failures,
		})
		summary.Total++
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, sc := range summary.Scenarios {
			status := "PASS"
			if !sc.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", status, sc.Name)
			for _, failure := range sc.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", failure)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d scenarios passed\n", summary.Passed, summary.Total)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}
