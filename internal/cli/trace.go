package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/passline/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// TraceResult is the JSON payload for a single-run trace.
type TraceResult struct {
	Run    store.RunRecord `json:"run"`
	Events []TraceEventOut `json:"events"`
}

// TraceEventOut is the JSON form of one pass event.
type TraceEventOut struct {
	Seq     int64  `json:"seq"`
	Pass    string `json:"pass"`
	OpKind  string `json:"op_kind"`
	OpPath  string `json:"op_path"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// NewTraceCommand creates the trace command: inspect recorded runs.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-token]",
		Short: "Inspect recorded pipeline runs",
		Long: `List pipeline runs recorded by "run --db", or show the full pass-event
timeline of one run.

Examples:
  passline trace --db traces.db
  passline trace --db traces.db 0190a5e2-7b2c-7f7e-a... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open trace database", err)
			}
			defer st.Close()

			if len(args) == 0 {
				return listRuns(opts, st, cmd)
			}
			return showTrace(opts, st, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(opts *TraceOptions, st *store.Store, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s anchor=%s  %s\n", r.Token, r.Outcome, r.Anchor, r.Pipeline)
	}
	return nil
}

func showTrace(opts *TraceOptions, st *store.Store, cmd *cobra.Command, token string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	run, err := st.ReadRun(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown run token", err)
	}
	events, err := st.ReadTrace(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	if opts.Format == "json" {
		out := TraceResult{Run: run}
		for _, ev := range events {
			out.Events = append(out.Events, TraceEventOut{
				Seq:     ev.Seq,
				Pass:    ev.Pass,
				OpKind:  ev.OpKind,
				OpPath:  ev.OpPath,
				Outcome: ev.Outcome,
				Detail:  ev.Detail,
			})
		}
		return formatter.Success(out)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s)\npipeline: %s\n", run.Token, run.Outcome, run.Pipeline)
	if run.Diagnostics != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "diagnostics:\n%s\n", run.Diagnostics)
	}
	for _, ev := range events {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-10s %-20s %s\n", ev.Seq, ev.Outcome, ev.Pass, ev.OpPath)
	}
	return nil
}
