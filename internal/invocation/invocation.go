// Package invocation assembles and executes external simulator calls.
//
// The simulator is driven through a make-style build system: one primary
// target selects the backend (run-<backend>, with a -debug variant for
// waveform-enabled builds), followed by KEY=VALUE variable assignments.
// The assignment order is fixed so identical inputs always produce an
// identical command line:
//
//  1. the runtime-configuration assignment, when the config mode emits one
//  2. EXTRA_SIM_ARGS, always present, carrying the per-run plus-args
//  3. LOGFILE, when a log capture path is set
//  4. caller-supplied make arguments, verbatim
package invocation

import (
	"strings"

	"github.com/rtlci/simreg/internal/runconfig"
)

// Make variables recognized by the build system in addition to the
// runtime-configuration variable.
const (
	// ExtraArgsVar carries per-run simulator plus-args.
	ExtraArgsVar = "EXTRA_SIM_ARGS"

	// LogFileVar directs the simulator log to a caller-chosen path.
	LogFileVar = "LOGFILE"
)

// Spec collects the ingredients of one simulator invocation.
type Spec struct {
	// Backend selects the simulation backend (e.g. "verilator", "vcs").
	Backend string

	// Debug selects the waveform-enabled run-<backend>-debug target.
	Debug bool

	// RunConfig is the runtime-configuration source.
	RunConfig runconfig.Config

	// PlusArgs are simulator plus-args forwarded through EXTRA_SIM_ARGS.
	PlusArgs []string

	// LogFile is where the simulator writes its log. Empty leaves the
	// backend default in place.
	LogFile string

	// MakeArgs are additional KEY=VALUE arguments appended verbatim.
	MakeArgs []string

	// Dir is the simulation working directory. Relative runtime-config
	// paths resolve against it.
	Dir string
}

// Invocation is one fully assembled simulator call.
type Invocation struct {
	// Target is the primary make target, run-<backend>[-debug].
	Target string

	// Args are the KEY=VALUE arguments in their fixed order.
	Args []string
}

// Build assembles the argument list for one run. It launches nothing;
// the only side effect is the eager read of a custom runtime-config
// file, so a broken configuration fails here rather than mid-simulation.
func Build(spec Spec) (Invocation, error) {
	inv := Invocation{Target: Target(spec.Backend, spec.Debug)}

	cfgArg, ok, err := spec.RunConfig.Resolve(spec.Dir)
	if err != nil {
		return Invocation{}, err
	}
	if ok {
		inv.Args = append(inv.Args, cfgArg)
	}

	// EXTRA_SIM_ARGS is always emitted, even when empty, so the backend
	// sees a well-formed plus-args slot on every run.
	inv.Args = append(inv.Args, ExtraArgsVar+"="+strings.Join(spec.PlusArgs, " "))

	if spec.LogFile != "" {
		inv.Args = append(inv.Args, LogFileVar+"="+spec.LogFile)
	}

	inv.Args = append(inv.Args, spec.MakeArgs...)

	return inv, nil
}

// Target returns the primary make target for a backend.
func Target(backend string, debug bool) string {
	if debug {
		return "run-" + backend + "-debug"
	}
	return "run-" + backend
}

// String renders the invocation as it would appear on a command line.
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Target
	}
	return inv.Target + " " + strings.Join(inv.Args, " ")
}
