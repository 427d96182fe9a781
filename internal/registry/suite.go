package registry

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rtlci/simreg/internal/runconfig"
)

// Suite is a named grouping of test cases loaded from YAML. Entries
// either reference a built-in case by name or declare a case inline; a
// suite adds nothing beyond selection and ordering.
type Suite struct {
	// Name identifies the suite in reports.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description"`

	// Cases lists the suite entries in execution order.
	Cases []SuiteCase `yaml:"cases"`
}

// SuiteCase is one suite entry: either a reference to a built-in case
// via Use, or an inline case declaration.
type SuiteCase struct {
	// Use references a built-in case by name. When set, no inline
	// fields may be given.
	Use string `yaml:"use,omitempty"`

	// Name uniquely identifies an inline case.
	Name string `yaml:"name,omitempty"`

	// Design is the top-level module under test.
	Design string `yaml:"design,omitempty"`

	// TargetConfig is the design's configuration string.
	TargetConfig string `yaml:"target_config,omitempty"`

	// PlatformConfigs are platform fragment names in order.
	PlatformConfigs []string `yaml:"platform_configs,omitempty"`

	// RunConfig selects the runtime-configuration mode.
	// Omitted means the generated default.
	RunConfig *RunConfigSpec `yaml:"run_config,omitempty"`

	// PlusArgs are the simulator plus-args.
	PlusArgs []string `yaml:"plus_args,omitempty"`

	// MakeArgs are extra make arguments appended verbatim.
	MakeArgs []string `yaml:"make_args,omitempty"`

	// Equivalence declares a multi-run equivalence check. Omitted means
	// a single run.
	Equivalence *EquivalenceSpec `yaml:"equivalence,omitempty"`
}

// RunConfigSpec is the YAML form of a runtime-configuration source.
type RunConfigSpec struct {
	// Kind is one of "default", "empty", "file".
	Kind string `yaml:"kind"`

	// Path is the configuration file, required when kind is "file".
	// Relative paths resolve against the simulation working directory.
	Path string `yaml:"path,omitempty"`
}

// EquivalenceSpec is the YAML form of an equivalence run.
type EquivalenceSpec struct {
	// Marker anchors log extraction for every run.
	Marker string `yaml:"marker"`

	// Skip drops lines after the marker before comparing.
	Skip int `yaml:"skip,omitempty"`

	// Runs are the invocation variants, at least two.
	Runs []VariantSpec `yaml:"runs"`
}

// VariantSpec is the YAML form of one equivalence leg.
type VariantSpec struct {
	// Name labels the leg; it names the log file and the diff side.
	Name string `yaml:"name"`

	// RunConfig selects this leg's runtime-configuration mode.
	RunConfig *RunConfigSpec `yaml:"run_config,omitempty"`

	// PlusArgs replace the case defaults for this leg.
	PlusArgs []string `yaml:"plus_args,omitempty"`

	// MakeArgs are appended after the case-level make arguments.
	MakeArgs []string `yaml:"make_args,omitempty"`
}

// Run-config kind names accepted in suite files.
const (
	RunConfigDefault = "default"
	RunConfigEmpty   = "empty"
	RunConfigFile    = "file"
)

// LoadSuite reads and parses a suite YAML file, resolving entries
// against the built-in registry. Unknown fields are rejected to catch
// typos, and every entry is validated before any case runs.
func LoadSuite(path string, builtin *Registry) (*Suite, []TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cases, err := resolveSuite(&suite, builtin)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid suite: %w", err)
	}

	return &suite, cases, nil
}

// resolveSuite validates the suite and resolves every entry to a
// TestCase.
func resolveSuite(s *Suite, builtin *Registry) ([]TestCase, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("cases list is required and must be non-empty")
	}

	cases := make([]TestCase, 0, len(s.Cases))
	seen := make(map[string]bool, len(s.Cases))
	for i, entry := range s.Cases {
		tc, err := resolveCase(i, entry, builtin)
		if err != nil {
			return nil, err
		}
		if seen[tc.Name] {
			return nil, fmt.Errorf("cases[%d]: duplicate case %q", i, tc.Name)
		}
		seen[tc.Name] = true
		cases = append(cases, tc)
	}

	return cases, nil
}

// resolveCase maps one suite entry to a TestCase.
func resolveCase(index int, entry SuiteCase, builtin *Registry) (TestCase, error) {
	if entry.Use != "" {
		if entry.Name != "" || entry.Design != "" || entry.TargetConfig != "" {
			return TestCase{}, fmt.Errorf("cases[%d]: use cannot be combined with an inline declaration", index)
		}
		tc, ok := builtin.Get(entry.Use)
		if !ok {
			return TestCase{}, fmt.Errorf("cases[%d]: unknown built-in case %q", index, entry.Use)
		}
		return tc, nil
	}

	tc := TestCase{
		Name:            entry.Name,
		Design:          entry.Design,
		TargetConfig:    entry.TargetConfig,
		PlatformConfigs: entry.PlatformConfigs,
		PlusArgs:        entry.PlusArgs,
		MakeArgs:        entry.MakeArgs,
	}

	cfg, err := resolveRunConfig(entry.RunConfig)
	if err != nil {
		return TestCase{}, fmt.Errorf("cases[%d]: %w", index, err)
	}
	tc.RunConfig = cfg

	if entry.Equivalence != nil {
		mode := EquivalenceRun{
			Marker: entry.Equivalence.Marker,
			Skip:   entry.Equivalence.Skip,
		}
		for j, run := range entry.Equivalence.Runs {
			vcfg, err := resolveRunConfig(run.RunConfig)
			if err != nil {
				return TestCase{}, fmt.Errorf("cases[%d].equivalence.runs[%d]: %w", index, j, err)
			}
			mode.Runs = append(mode.Runs, RunVariant{
				Name:      run.Name,
				RunConfig: vcfg,
				PlusArgs:  run.PlusArgs,
				MakeArgs:  run.MakeArgs,
			})
		}
		tc.Mode = mode
	}

	if err := tc.Validate(); err != nil {
		return TestCase{}, fmt.Errorf("cases[%d]: %w", index, err)
	}

	return tc, nil
}

// resolveRunConfig maps the YAML form to a runconfig.Config.
// A nil spec selects the generated default.
func resolveRunConfig(spec *RunConfigSpec) (runconfig.Config, error) {
	if spec == nil {
		return runconfig.Default(), nil
	}

	switch spec.Kind {
	case RunConfigDefault:
		if spec.Path != "" {
			return runconfig.Config{}, fmt.Errorf("run_config: path is only valid for kind %q", RunConfigFile)
		}
		return runconfig.Default(), nil
	case RunConfigEmpty:
		if spec.Path != "" {
			return runconfig.Config{}, fmt.Errorf("run_config: path is only valid for kind %q", RunConfigFile)
		}
		return runconfig.Empty(), nil
	case RunConfigFile:
		if spec.Path == "" {
			return runconfig.Config{}, fmt.Errorf("run_config: path is required for kind %q", RunConfigFile)
		}
		return runconfig.Custom(spec.Path), nil
	default:
		return runconfig.Config{}, fmt.Errorf("run_config: unknown kind %q (expected default, empty, or file)", spec.Kind)
	}
}
