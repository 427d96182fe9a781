package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Case  string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded simulator runs",
		Long: `Show simulator runs recorded in the run ledger.

Runs are listed newest first. --case restricts the listing to a single
case; --limit caps the number of rows.

Examples:
  simreg history --db ./runs.db
  simreg history --db ./runs.db --case fuzz-fcfs
  simreg history --db ./runs.db --limit 5 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite run ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Case, "case", "", "filter to a single case")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum rows to show")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// A missing ledger is a user error, not an empty listing
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		_ = formatter.Error("E_NO_LEDGER", fmt.Sprintf("ledger not found: %s", opts.DB), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", opts.DB))
	}

	ctx := context.Background()

	ledger, err := history.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run ledger", err)
	}
	defer ledger.Close()

	var records []history.Record
	if opts.Case != "" {
		records, err = ledger.ForCase(ctx, opts.Case, opts.Limit)
	} else {
		records, err = ledger.Recent(ctx, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query run ledger", err)
	}

	if opts.Format == "json" {
		return formatter.Success(records)
	}

	return outputHistoryText(cmd, records)
}

// outputHistoryText renders ledger rows as a table, newest first.
func outputHistoryText(cmd *cobra.Command, records []history.Record) error {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCASE\tVARIANT\tTARGET\tEXIT\tPASS")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			rec.StartedAt.UTC().Format(time.RFC3339),
			rec.Case,
			rec.Variant,
			rec.Target,
			rec.ExitCode,
			passMark(rec.Pass))
	}
	return w.Flush()
}

// passMark renders a boolean verdict for table output.
func passMark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}
