package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
	"github.com/roach88/passline/internal/pipeline"
	"github.com/roach88/passline/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Pipeline string
	Anchor   string
	Verify   bool
	PrintIR  bool
	Database string
}

// RunResult is the JSON payload of a successful run.
type RunResult struct {
	RunOutcome string `json:"outcome"`
	Pipeline   string `json:"pipeline"`
	Anchor     string `json:"anchor"`
	Dump       string `json:"dump"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <module.cue>",
		Short: "Run a pass pipeline over an IR module",
		Long: `Load an IR module from a CUE file and run a textual pass pipeline over it.

The pipeline uses the nested grammar "pass,op.kind(pass,...)"; the final IR
is printed on success. With --db, the run and every pass execution are
recorded in a SQLite trace database for later inspection with "trace".

Exit codes:
  0 - Pipeline ran to completion
  1 - A pass or the verifier reported failure
  2 - Command error (bad module file, malformed pipeline, anchor mismatch)

Examples:
  passline run --pipeline "canonicalize,func.func(cse)" module.cue
  passline run --pipeline "cse" --anchor builtin.module --verify module.cue
  passline run --pipeline "canonicalize" --db traces.db --print-ir module.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pipeline, "pipeline", "", "textual pass pipeline (required)")
	cmd.Flags().StringVar(&opts.Anchor, "anchor", ir.AnyKind, "root anchor operation kind")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "run the structural verifier after every pass")
	cmd.Flags().BoolVar(&opts.PrintIR, "print-ir", false, "dump the IR after every pass (debug)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")
	_ = cmd.MarkFlagRequired("pipeline")

	return cmd
}

func runPipeline(opts *RunOptions, modulePath string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	slog.Info("loading module", "path", modulePath)
	mod, irCtx, err := LoadModule(modulePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load module", err)
	}

	reg := pass.DefaultRegistry()
	pm, err := pipeline.New(opts.Anchor, irCtx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create pass manager", err)
	}
	if err := pm.Add(opts.Pipeline, reg); err != nil {
		reportPipelineError(formatter, err)
		return WrapExitError(ExitCommandError, "invalid pipeline", err)
	}
	pm.EnableVerifier(opts.Verify)
	if opts.PrintIR {
		pm.EnableIRPrinting()
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
		pm.SetTraceSink(store.NewTraceRecorder(st, ir.Fingerprint(mod.Root), func() string {
			return ir.Fingerprint(mod.Root)
		}))
	}

	slog.Info("running pipeline", "pipeline", pm.String(), "anchor", pm.Anchor())
	if err := pm.Run(cmd.Context(), mod); err != nil {
		reportPipelineError(formatter, err)
		if pipeline.IsAnchorMismatch(err) {
			return WrapExitError(ExitCommandError, "anchor mismatch", err)
		}
		return WrapExitError(ExitFailure, "pipeline failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(RunResult{
			RunOutcome: "ok",
			Pipeline:   pm.String(),
			Anchor:     pm.Anchor(),
			Dump:       ir.Dump(mod.Root),
		})
	}
	return formatter.Success(ir.Dump(mod.Root))
}

func reportPipelineError(formatter *OutputFormatter, err error) {
	var pe *pipeline.Error
	if errors.As(err, &pe) {
		_ = formatter.Error(string(pe.Code), pe.Message, pe.Diagnostics)
		return
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), "")
}

// configureLogging sets the default slog handler per the verbose flag.
func configureLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
