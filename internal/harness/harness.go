// Package harness executes test cases against the external simulator.
//
// The harness is the only component that sequences the full pipeline:
// it assembles an invocation from the case definition, launches it
// through the injected Runner, and for equivalence cases extracts the
// marked log regions and compares them. Test failures (a broken
// runtime config, a non-zero exit, a missing marker, diverging
// regions) are accumulated on the Result with the stage that produced
// them; errors returned from Execute are infrastructure faults such as
// an unwritable log directory or a failed ledger append.
//
// Execution is strictly sequential. Equivalence legs run in
// declaration order and stop at the first failed leg; extraction and
// diffing only happen once every leg has exited cleanly.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rtlci/simreg/internal/history"
	"github.com/rtlci/simreg/internal/invocation"
	"github.com/rtlci/simreg/internal/logdiff"
	"github.com/rtlci/simreg/internal/logextract"
	"github.com/rtlci/simreg/internal/registry"
)

// Harness drives test case execution.
type Harness struct {
	runner invocation.Runner
	simDir string
	logDir string
	ledger *history.Ledger
	logger *slog.Logger
}

// New creates a harness that launches runs through runner from the
// simulation directory simDir. Equivalence log files land in logDir,
// which defaults to "logs" and resolves against simDir when relative.
func New(runner invocation.Runner, simDir, logDir string) *Harness {
	if logDir == "" {
		logDir = "logs"
	}
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(simDir, logDir)
	}
	return &Harness{
		runner: runner,
		simDir: simDir,
		logDir: logDir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLedger records every launch to the given run ledger.
func (h *Harness) WithLedger(ledger *history.Ledger) *Harness {
	h.ledger = ledger
	return h
}

// WithLogger routes per-run events to the given logger.
func (h *Harness) WithLogger(logger *slog.Logger) *Harness {
	h.logger = logger
	return h
}

// Execute runs one test case against the given backend and returns its
// result. Test failures are recorded on the result; a non-nil error
// means the harness itself could not proceed.
func (h *Harness) Execute(ctx context.Context, tc registry.TestCase, backend string, debug bool) (*Result, error) {
	result := NewResult(tc.Name, backend, debug)

	switch mode := tc.ExecMode().(type) {
	case registry.SingleRun:
		if err := h.executeSingle(ctx, tc, backend, debug, result); err != nil {
			return nil, err
		}
	case registry.EquivalenceRun:
		if err := h.executeEquivalence(ctx, tc, mode, backend, debug, result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("case %q: unsupported execution mode %T", tc.Name, mode)
	}

	return result, nil
}

// executeSingle performs one launch and requires exit code zero.
func (h *Harness) executeSingle(ctx context.Context, tc registry.TestCase, backend string, debug bool, result *Result) error {
	spec := invocation.Spec{
		Backend:   backend,
		Debug:     debug,
		RunConfig: tc.RunConfig,
		PlusArgs:  tc.PlusArgs,
		MakeArgs:  append(tc.DesignArgs(), tc.MakeArgs...),
		Dir:       h.simDir,
	}

	_, err := h.runOne(ctx, tc.Name, "", spec, result)
	return err
}

// executeEquivalence launches every variant, then extracts and compares
// the marked log regions.
//
// Variant semantics: the variant's RunConfig applies as given, a
// non-nil PlusArgs slice replaces the case default, and MakeArgs are
// appended after the case-level make arguments.
func (h *Harness) executeEquivalence(ctx context.Context, tc registry.TestCase, mode registry.EquivalenceRun, backend string, debug bool, result *Result) error {
	if err := os.MkdirAll(h.logDir, 0755); err != nil {
		return fmt.Errorf("create log directory %s: %w", h.logDir, err)
	}

	logFiles := make([]string, 0, len(mode.Runs))
	labels := make([]string, 0, len(mode.Runs))

	for _, variant := range mode.Runs {
		logFile := filepath.Join(h.logDir, tc.Name+"-"+variant.Name+".log")

		plusArgs := tc.PlusArgs
		if variant.PlusArgs != nil {
			plusArgs = variant.PlusArgs
		}

		makeArgs := append(tc.DesignArgs(), tc.MakeArgs...)
		makeArgs = append(makeArgs, variant.MakeArgs...)

		spec := invocation.Spec{
			Backend:   backend,
			Debug:     debug,
			RunConfig: variant.RunConfig,
			PlusArgs:  plusArgs,
			LogFile:   logFile,
			MakeArgs:  makeArgs,
			Dir:       h.simDir,
		}

		ok, err := h.runOne(ctx, tc.Name, variant.Name, spec, result)
		if err != nil {
			return err
		}
		if !ok {
			// Remaining legs and the comparison are moot once a leg fails.
			return nil
		}

		logFiles = append(logFiles, logFile)
		labels = append(labels, variant.Name)
	}

	extracts := make([][]string, len(logFiles))
	for i, logFile := range logFiles {
		lines, err := logextract.Extract(logFile, mode.Marker, mode.Skip)
		if err != nil {
			result.Fail(StageExtract, "%s: %v", labels[i], err)
			return nil
		}
		extracts[i] = lines
	}

	for i := 1; i < len(extracts); i++ {
		diff := logdiff.Diff(extracts[0], extracts[i], labels[0], labels[i])
		if !diff.Equal() {
			result.Fail(StageDiff, "%s", diff.Report())
			return nil
		}
		h.logger.Debug("equivalence regions match",
			"case", tc.Name,
			"base", labels[0],
			"variant", labels[i],
			"lines", len(extracts[i]),
		)
	}

	return nil
}

// runOne assembles and launches a single invocation, records the run
// report (and ledger row when recording is enabled), and reports
// whether the launch exited zero. Assembly failures and non-zero exits
// land on the result; the returned error is reserved for
// infrastructure faults.
func (h *Harness) runOne(ctx context.Context, caseName, variant string, spec invocation.Spec, result *Result) (bool, error) {
	inv, err := invocation.Build(spec)
	if err != nil {
		result.Fail(StageConfig, "%v", err)
		return false, nil
	}

	h.logger.Info("launching simulator",
		"case", caseName,
		"variant", variant,
		"target", inv.Target,
	)

	start := time.Now()
	runErr := h.runner.Run(ctx, inv)
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		exitCode = -1
		var procErr *invocation.ProcessError
		if errors.As(runErr, &procErr) {
			exitCode = procErr.ExitCode
		}
	}

	result.Runs = append(result.Runs, RunReport{
		Variant:  variant,
		Target:   inv.Target,
		Args:     inv.Args,
		LogFile:  spec.LogFile,
		ExitCode: exitCode,
		Duration: duration,
	})

	ok := runErr == nil
	if !ok {
		result.Fail(StageProcess, "%v", runErr)
	}

	h.logger.Info("simulator finished",
		"case", caseName,
		"variant", variant,
		"target", inv.Target,
		"exit_code", exitCode,
		"duration", duration,
	)

	if h.ledger != nil {
		rec := history.Record{
			Case:     caseName,
			Variant:  variant,
			Backend:  spec.Backend,
			Debug:    spec.Debug,
			Target:   inv.Target,
			Args:     inv.Args,
			ExitCode: exitCode,
			Pass:     ok,
			LogFile:  spec.LogFile,
			Duration: duration,
		}
		if err := h.ledger.Append(ctx, rec); err != nil {
			return false, fmt.Errorf("record run for case %q: %w", caseName, err)
		}
	}

	return ok, nil
}
