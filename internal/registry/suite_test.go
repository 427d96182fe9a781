package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlci/simreg/internal/runconfig"
)

// writeSuite writes a suite YAML file into a temp dir and returns its path.
func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSuite_Valid(t *testing.T) {
	path := writeSuite(t, `
name: nightly
description: Nightly memory model regression.
cases:
  - use: fuzz-fcfs
  - name: short-fuzz
    design: AXI4Fuzzer
    target_config: FCFSConfig
    platform_configs: [BaseConfig, MCRams]
    run_config:
      kind: empty
    plus_args: ["+fuzzer-transactions=1024"]
    make_args: ["VERBOSE=0"]
`)

	suite, cases, err := LoadSuite(path, Builtin())
	require.NoError(t, err)
	assert.Equal(t, "nightly", suite.Name)
	require.Len(t, cases, 2)

	assert.Equal(t, "fuzz-fcfs", cases[0].Name)
	assert.Equal(t, "AXI4Fuzzer", cases[0].Design)

	assert.Equal(t, "short-fuzz", cases[1].Name)
	assert.Equal(t, runconfig.KindEmpty, cases[1].RunConfig.Kind())
	assert.Equal(t, []string{"+fuzzer-transactions=1024"}, cases[1].PlusArgs)
	assert.Equal(t, []string{"VERBOSE=0"}, cases[1].MakeArgs)
	assert.IsType(t, SingleRun{}, cases[1].ExecMode())
}

func TestLoadSuite_EquivalenceCase(t *testing.T) {
	path := writeSuite(t, `
name: equivalence
description: Cross-configuration equivalence checks.
cases:
  - name: cfg-equivalence
    design: AXI4Fuzzer
    target_config: FRFCFSConfig
    plus_args: ["+fuzzer-transactions=4096"]
    equivalence:
      marker: "Memory Model Stats:"
      skip: 1
      runs:
        - name: filecfg
          run_config:
            kind: file
            path: runtime.conf
        - name: plusargs
          run_config:
            kind: empty
          plus_args: ["+fuzzer-transactions=4096", "+mm_openPagePolicy=1"]
`)

	_, cases, err := LoadSuite(path, Builtin())
	require.NoError(t, err)
	require.Len(t, cases, 1)

	mode, ok := cases[0].ExecMode().(EquivalenceRun)
	require.True(t, ok)
	assert.Equal(t, "Memory Model Stats:", mode.Marker)
	assert.Equal(t, 1, mode.Skip)
	require.Len(t, mode.Runs, 2)
	assert.Equal(t, runconfig.KindCustom, mode.Runs[0].RunConfig.Kind())
	assert.Equal(t, "runtime.conf", mode.Runs[0].RunConfig.Path())
	assert.Equal(t, runconfig.KindEmpty, mode.Runs[1].RunConfig.Kind())
}

func TestLoadSuite_FileMissing(t *testing.T) {
	_, _, err := LoadSuite(filepath.Join(t.TempDir(), "missing.yaml"), Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read suite file")
}

func TestLoadSuite_UnknownField(t *testing.T) {
	path := writeSuite(t, `
name: typo
description: Catches typos.
case:
  - use: fuzz-fcfs
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadSuite_MissingName(t *testing.T) {
	path := writeSuite(t, `
description: No name.
cases:
  - use: fuzz-fcfs
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadSuite_EmptyCases(t *testing.T) {
	path := writeSuite(t, `
name: empty
description: Nothing to run.
cases: []
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases list is required")
}

func TestLoadSuite_UnknownBuiltin(t *testing.T) {
	path := writeSuite(t, `
name: bad-ref
description: References a case that does not exist.
cases:
  - use: no-such-case
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cases[0]: unknown built-in case "no-such-case"`)
}

func TestLoadSuite_UseWithInlineFields(t *testing.T) {
	path := writeSuite(t, `
name: conflicted
description: Mixes use with an inline declaration.
cases:
  - use: fuzz-fcfs
    design: AXI4Fuzzer
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use cannot be combined")
}

func TestLoadSuite_BadRunConfigKind(t *testing.T) {
	path := writeSuite(t, `
name: bad-kind
description: Unknown run config kind.
cases:
  - name: broken
    design: AXI4Fuzzer
    target_config: FCFSConfig
    run_config:
      kind: magical
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "magical"`)
}

func TestLoadSuite_FileKindRequiresPath(t *testing.T) {
	path := writeSuite(t, `
name: no-path
description: File kind without a path.
cases:
  - name: broken
    design: AXI4Fuzzer
    target_config: FCFSConfig
    run_config:
      kind: file
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestLoadSuite_PathOnlyForFileKind(t *testing.T) {
	path := writeSuite(t, `
name: stray-path
description: Path given for the empty kind.
cases:
  - name: broken
    design: AXI4Fuzzer
    target_config: FCFSConfig
    run_config:
      kind: empty
      path: runtime.conf
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is only valid")
}

func TestLoadSuite_EquivalenceTooFewRuns(t *testing.T) {
	path := writeSuite(t, `
name: short-equivalence
description: Only one equivalence leg.
cases:
  - name: broken
    design: AXI4Fuzzer
    target_config: FCFSConfig
    equivalence:
      marker: "Memory Model Stats:"
      runs:
        - name: only
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two runs")
}

func TestLoadSuite_DuplicateCaseNames(t *testing.T) {
	path := writeSuite(t, `
name: duplicated
description: Same case twice.
cases:
  - use: fuzz-fcfs
  - use: fuzz-fcfs
`)

	_, _, err := LoadSuite(path, Builtin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cases[1]: duplicate case "fuzz-fcfs"`)
}

func TestLoadSuite_OmittedRunConfigIsDefault(t *testing.T) {
	path := writeSuite(t, `
name: defaults
description: Run config omitted entirely.
cases:
  - name: plain
    design: AXI4Fuzzer
    target_config: FCFSConfig
`)

	_, cases, err := LoadSuite(path, Builtin())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, runconfig.KindDefault, cases[0].RunConfig.Kind())
}
