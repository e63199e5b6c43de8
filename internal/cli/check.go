package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
	"github.com/roach88/passline/internal/pipeline"
)

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Canonical string `json:"canonical"`
	Anchor    string `json:"anchor"`
}

// NewCheckCommand creates the check command: parse pipeline text and print
// it back in canonical form, proving it round-trips.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <pipeline>",
		Short: "Parse pipeline text and print its canonical form",
		Long: `Parse textual pipeline syntax against the built-in pass registry and print
the canonical form. A single top-level anchored group fixes the root anchor.

Examples:
  passline check "func.func(canonicalize,cse)"
  passline check "canonicalize{max-iterations=2},cse" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}

			pm, err := pipeline.Parse(args[0], pass.DefaultRegistry(), ir.NewContext())
			if err != nil {
				var pe *pipeline.Error
				if errors.As(err, &pe) {
					_ = formatter.Error(string(pe.Code), pe.Message, pe.Diagnostics)
				}
				return WrapExitError(ExitCommandError, "invalid pipeline", err)
			}
			if rootOpts.Format == "json" {
				return formatter.Success(CheckResult{Canonical: pm.String(), Anchor: pm.Anchor()})
			}
			return formatter.Success(pm.String())
		},
	}
	return cmd
}
