package harness

import (
	"fmt"
	"time"
)

// Stage identifies which phase of case execution produced a failure.
type Stage string

const (
	// StageConfig covers invocation assembly, including the eager
	// runtime-config file read.
	StageConfig Stage = "config"

	// StageProcess covers the external simulator launch.
	StageProcess Stage = "process"

	// StageExtract covers locating the marker and extracting the
	// post-marker log region.
	StageExtract Stage = "extract"

	// StageDiff covers the cross-variant region comparison.
	StageDiff Stage = "diff"
)

// RunReport describes one simulator launch performed for a case.
type RunReport struct {
	// Variant is the run variant name for equivalence legs, "" for
	// single runs.
	Variant string `json:"variant,omitempty"`

	// Target is the make target that was launched.
	Target string `json:"target"`

	// Args are the arguments passed after the target, in order.
	Args []string `json:"args,omitempty"`

	// LogFile is the captured log path, "" when no log was requested.
	LogFile string `json:"log_file,omitempty"`

	// ExitCode is the process exit code, -1 when the process never ran.
	ExitCode int `json:"exit_code"`

	// Duration is how long the launch took.
	Duration time.Duration `json:"duration"`
}

// Failure is one test failure with the stage that produced it.
type Failure struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// Result is the outcome of executing one test case.
type Result struct {
	// Case is the executed test case name.
	Case string `json:"case"`

	// Backend is the simulation backend the case ran against.
	Backend string `json:"backend"`

	// Debug reports whether the waveform-enabled target was used.
	Debug bool `json:"debug,omitempty"`

	// Pass indicates overall case success.
	// True if every launch exited zero and every comparison matched.
	Pass bool `json:"pass"`

	// Runs contains one report per simulator launch, in launch order.
	Runs []RunReport `json:"runs"`

	// Failures contains the recorded test failures.
	// Empty if Pass is true.
	Failures []Failure `json:"failures,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for case execution.
func NewResult(caseName, backend string, debug bool) *Result {
	return &Result{
		Case:     caseName,
		Backend:  backend,
		Debug:    debug,
		Pass:     true,
		Runs:     []RunReport{},
		Failures: []Failure{},
	}
}

// Fail records a test failure and marks the result as failed.
func (r *Result) Fail(stage Stage, format string, args ...any) {
	r.Failures = append(r.Failures, Failure{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
	r.Pass = false
}

// Errors returns the failure messages prefixed with their stage.
func (r *Result) Errors() []string {
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = fmt.Sprintf("[%s] %s", f.Stage, f.Message)
	}
	return msgs
}
