// Package registry holds the declarative catalog of simulator test
// cases.
//
// A test case is pure data: the design under test, its configuration
// strings, the runtime-configuration source, and an execution mode. The
// harness consumes these records; nothing in this package launches
// anything. Cases are immutable once registered and invocable by name
// with the backend and debug flag as the only external parameters.
package registry

import (
	"fmt"
	"strings"

	"github.com/rtlci/simreg/internal/runconfig"
)

// Make variables composed from a test case's design selection.
const (
	DesignVar         = "DESIGN"
	TargetConfigVar   = "TARGET_CONFIG"
	PlatformConfigVar = "PLATFORM_CONFIG"
)

// TestCase binds a design under test to the configuration needed to
// simulate it.
type TestCase struct {
	// Name uniquely identifies the case for selection by name.
	Name string

	// Design is the top-level hardware module under test.
	Design string

	// TargetConfig is the design's configuration string.
	TargetConfig string

	// PlatformConfigs are ordered platform fragment names, joined with
	// underscores into a single PLATFORM_CONFIG value. May be empty.
	PlatformConfigs []string

	// RunConfig is the default runtime-configuration source.
	RunConfig runconfig.Config

	// PlusArgs are the default simulator plus-args.
	PlusArgs []string

	// MakeArgs are additional make arguments appended to every run.
	MakeArgs []string

	// Mode selects how the case executes. Nil means SingleRun.
	Mode Mode
}

// DesignArgs returns the make arguments selecting the design under
// test. PLATFORM_CONFIG is omitted entirely when no fragments are set.
func (tc TestCase) DesignArgs() []string {
	args := []string{
		DesignVar + "=" + tc.Design,
		TargetConfigVar + "=" + tc.TargetConfig,
	}
	if len(tc.PlatformConfigs) > 0 {
		args = append(args, PlatformConfigVar+"="+strings.Join(tc.PlatformConfigs, "_"))
	}
	return args
}

// ExecMode returns the case's execution mode, defaulting to SingleRun.
func (tc TestCase) ExecMode() Mode {
	if tc.Mode == nil {
		return SingleRun{}
	}
	return tc.Mode
}

// Validate checks the structural requirements shared by built-in and
// suite-declared cases.
func (tc TestCase) Validate() error {
	if tc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if tc.Design == "" {
		return fmt.Errorf("design is required")
	}
	if tc.TargetConfig == "" {
		return fmt.Errorf("target_config is required")
	}

	switch m := tc.ExecMode().(type) {
	case SingleRun:
		return nil
	case EquivalenceRun:
		return m.validate()
	default:
		return fmt.Errorf("unknown execution mode %T", m)
	}
}

// Mode selects how a test case executes. The implementations are
// SingleRun and EquivalenceRun; the harness switches over them
// exhaustively.
type Mode interface {
	mode()
}

// SingleRun executes one invocation and passes on exit code zero.
type SingleRun struct{}

func (SingleRun) mode() {}

// EquivalenceRun executes every variant and requires their post-marker
// log regions to match line for line. Variants two onward are each
// compared against the first; the case passes only when every run exits
// zero and every comparison matches.
type EquivalenceRun struct {
	// Marker anchors log extraction for every variant.
	Marker string

	// Skip drops this many lines after the marker before comparing.
	Skip int

	// Runs are the invocation variants, at least two.
	Runs []RunVariant
}

func (EquivalenceRun) mode() {}

func (m EquivalenceRun) validate() error {
	if m.Marker == "" {
		return fmt.Errorf("equivalence: marker is required")
	}
	if m.Skip < 0 {
		return fmt.Errorf("equivalence: skip must be non-negative")
	}
	if len(m.Runs) < 2 {
		return fmt.Errorf("equivalence: at least two runs are required, got %d", len(m.Runs))
	}

	seen := make(map[string]bool, len(m.Runs))
	for i, v := range m.Runs {
		if v.Name == "" {
			return fmt.Errorf("equivalence: runs[%d]: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("equivalence: runs[%d]: duplicate run name %q", i, v.Name)
		}
		seen[v.Name] = true
	}

	return nil
}

// RunVariant is one leg of an equivalence run.
//
// RunConfig applies as given (the zero value selects the generated
// default). Nil PlusArgs inherit the case default; a non-nil slice
// replaces it, so a variant can deliberately run with no plus-args by
// setting an empty non-nil slice. MakeArgs are appended after the
// case-level make arguments.
type RunVariant struct {
	// Name labels the leg; it names the log file and the diff side.
	Name string

	// RunConfig is this leg's runtime-configuration source.
	RunConfig runconfig.Config

	// PlusArgs replace the case defaults for this leg when non-nil.
	PlusArgs []string

	// MakeArgs are appended after the case-level make arguments.
	MakeArgs []string
}
