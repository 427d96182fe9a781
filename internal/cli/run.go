package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/harness"
	"github.com/rtlci/simreg/internal/history"
	"github.com/rtlci/simreg/internal/invocation"
	"github.com/rtlci/simreg/internal/registry"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Backend string
	Debug   bool
	SimDir  string
	LogDir  string
	Make    string
	DB      string

	// Runner allows overriding the simulator launcher (for testing).
	// If nil, defaults to a MakeRunner rooted at SimDir.
	Runner invocation.Runner
}

// CaseResult summarizes one executed case for output.
type CaseResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// RunSummary aggregates case results for output.
type RunSummary struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <case>...",
		Short: "Execute regression cases against the simulator",
		Long: `Execute built-in regression cases against the simulator.

Each case composes a make invocation for the chosen backend, supplies
the memory model's runtime configuration, and launches the simulator.
Equivalence cases run the simulator once per variant and require the
statistics region of every log to match byte for byte.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (unknown case, simulator could not start, etc.)

Examples:
  simreg run fuzz-fcfs
  simreg run runtime-config-equivalence --backend vcs --debug
  simreg run fuzz-fcfs fuzz-frfcfs --format json
  simreg run fuzz-llc --db ./runs.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(opts, args, cmd)
		},
	}

	addExecFlags(cmd, opts)

	return cmd
}

// addExecFlags registers the execution flags shared by run and suite.
func addExecFlags(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().StringVar(&opts.Backend, "backend", "verilator", "simulation backend (verilator|vcs)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "use the waveform-enabled debug target")
	cmd.Flags().StringVar(&opts.SimDir, "sim-dir", ".", "directory containing the simulator makefile")
	cmd.Flags().StringVar(&opts.LogDir, "log-dir", "logs", "directory for captured equivalence logs")
	cmd.Flags().StringVar(&opts.Make, "make", "make", "make executable used to launch the simulator")
	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite run ledger (optional)")
}

func runCases(opts *RunOptions, names []string, cmd *cobra.Command) error {
	reg := registry.Builtin()

	cases := make([]registry.TestCase, 0, len(names))
	for _, name := range names {
		tc, ok := reg.Get(name)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown case %q (see 'simreg list')", name))
		}
		cases = append(cases, tc)
	}

	return executeCases(opts, cases, cmd)
}

// executeCases runs the given cases sequentially and reports a summary.
// Shared by run (built-in cases) and suite (cases loaded from YAML).
func executeCases(opts *RunOptions, cases []registry.TestCase, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	runner := opts.Runner
	if runner == nil {
		runner = &invocation.MakeRunner{
			Dir:     opts.SimDir,
			Command: opts.Make,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		}
	}

	h := harness.New(runner, opts.SimDir, opts.LogDir).WithLogger(slog.Default())

	if opts.DB != "" {
		ledger, err := history.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run ledger", err)
		}
		defer func() {
			if closeErr := ledger.Close(); closeErr != nil {
				slog.Error("error closing run ledger", "error", closeErr)
			}
		}()
		h = h.WithLedger(ledger)
	}

	// Setup signal handling so Ctrl-C kills an in-flight simulator
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, aborting", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	out := cmd.OutOrStdout()
	summary := RunSummary{Cases: make([]CaseResult, 0, len(cases))}
	for _, tc := range cases {
		result, err := h.Execute(ctx, tc, opts.Backend, opts.Debug)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("case %s failed to execute", tc.Name), err)
		}

		cr := CaseResult{Name: tc.Name, Pass: result.Pass, Errors: result.Errors()}
		summary.Cases = append(summary.Cases, cr)
		summary.Total++
		if result.Pass {
			summary.Passed++
			if opts.Format != "json" {
				fmt.Fprintf(out, "✓ %s\n", tc.Name)
			}
		} else {
			summary.Failed++
			if opts.Format != "json" {
				fmt.Fprintf(out, "✗ %s\n", tc.Name)
				for _, msg := range cr.Errors {
					fmt.Fprintf(out, "  %s\n", msg)
				}
			}
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(out, summary)
	}
	return outputRunText(out, summary)
}

// setupLogging configures the default slog logger for command execution.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// outputRunJSON renders the summary as a JSON response envelope.
func outputRunJSON(w io.Writer, summary RunSummary) error {
	resp := CLIResponse{
		Status: "ok",
		Data:   summary,
	}
	if summary.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_CASE_FAILED",
			Message: fmt.Sprintf("%d case(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}
	return nil
}

// outputRunText renders the summary as human-readable text.
func outputRunText(w io.Writer, summary RunSummary) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n",
		summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
