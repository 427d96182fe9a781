// Package testutil provides deterministic helpers for tests.
//
// The helpers stand in for the two nondeterministic inputs of the
// system: the external simulator process (ScriptedRunner) and wall-clock
// time (Clock). With both replaced, harness and ledger tests are fully
// reproducible without a simulator installation.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rtlci/simreg/internal/invocation"
)

// ScriptedRun is one predetermined outcome for a ScriptedRunner.
type ScriptedRun struct {
	// ExitCode is the simulated process exit code.
	ExitCode int

	// LogLines, when non-nil, are written to the invocation's LOGFILE
	// path before the outcome is reported, imitating a simulator that
	// produced a log and then exited.
	LogLines []string
}

// ScriptedRunner replays predetermined outcomes instead of launching
// processes. Each call consumes the next entry of the script; calls
// beyond the script succeed with exit code zero and no log.
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// harness never runs invocations concurrently.
type ScriptedRunner struct {
	mu     sync.Mutex
	script []ScriptedRun
	calls  []invocation.Invocation
}

// NewScriptedRunner creates a runner that replays outcomes in order.
func NewScriptedRunner(script ...ScriptedRun) *ScriptedRunner {
	return &ScriptedRunner{script: script}
}

// Run records the invocation and replays the next scripted outcome.
func (r *ScriptedRunner) Run(ctx context.Context, inv invocation.Invocation) error {
	r.mu.Lock()
	var outcome ScriptedRun
	if len(r.calls) < len(r.script) {
		outcome = r.script[len(r.calls)]
	}
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if outcome.LogLines != nil {
		logFile := LogFileArg(inv)
		if logFile == "" {
			return fmt.Errorf("scripted log lines but invocation has no %s argument", invocation.LogFileVar)
		}
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return err
		}
		content := strings.Join(outcome.LogLines, "\n") + "\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			return err
		}
	}

	if outcome.ExitCode != 0 {
		return &invocation.ProcessError{Target: inv.Target, ExitCode: outcome.ExitCode}
	}
	return nil
}

// Calls returns the invocations seen so far, in order.
func (r *ScriptedRunner) Calls() []invocation.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]invocation.Invocation, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallCount returns the number of invocations seen so far.
func (r *ScriptedRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// LogFileArg extracts the LOGFILE value from an invocation's arguments,
// or "" when none is present.
func LogFileArg(inv invocation.Invocation) string {
	prefix := invocation.LogFileVar + "="
	for _, arg := range inv.Args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix)
		}
	}
	return ""
}
