package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlci/simreg/internal/invocation"
)

func TestScriptedRunner_ReplaysOutcomesInOrder(t *testing.T) {
	runner := NewScriptedRunner(
		ScriptedRun{ExitCode: 0},
		ScriptedRun{ExitCode: 2},
	)

	err := runner.Run(context.Background(), invocation.Invocation{Target: "run-verilator"})
	assert.NoError(t, err)

	err = runner.Run(context.Background(), invocation.Invocation{Target: "run-verilator"})
	require.Error(t, err)
	var procErr *invocation.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, 2, procErr.ExitCode)
}

func TestScriptedRunner_BeyondScriptSucceeds(t *testing.T) {
	runner := NewScriptedRunner()

	err := runner.Run(context.Background(), invocation.Invocation{Target: "run-vcs"})
	assert.NoError(t, err)
	assert.Equal(t, 1, runner.CallCount())
}

func TestScriptedRunner_WritesScriptedLog(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "case-a.log")
	runner := NewScriptedRunner(
		ScriptedRun{LogLines: []string{"boot", "Memory Model Stats:", "totalReads: 4"}},
	)

	inv := invocation.Invocation{
		Target: "run-verilator",
		Args:   []string{"EXTRA_SIM_ARGS=", "LOGFILE=" + logFile},
	}
	require.NoError(t, runner.Run(context.Background(), inv))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "boot\nMemory Model Stats:\ntotalReads: 4\n", string(data))
}

func TestScriptedRunner_LogWithoutLogFileArg(t *testing.T) {
	runner := NewScriptedRunner(ScriptedRun{LogLines: []string{"line"}})

	err := runner.Run(context.Background(), invocation.Invocation{Target: "run-verilator"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), invocation.LogFileVar)
}

func TestScriptedRunner_RecordsInvocations(t *testing.T) {
	runner := NewScriptedRunner()

	first := invocation.Invocation{Target: "run-verilator", Args: []string{"EXTRA_SIM_ARGS="}}
	second := invocation.Invocation{Target: "run-vcs-debug", Args: []string{"EXTRA_SIM_ARGS=+a=1"}}
	require.NoError(t, runner.Run(context.Background(), first))
	require.NoError(t, runner.Run(context.Background(), second))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, first, calls[0])
	assert.Equal(t, second, calls[1])
}

func TestLogFileArg(t *testing.T) {
	inv := invocation.Invocation{
		Target: "run-verilator",
		Args:   []string{"EXTRA_SIM_ARGS=", "LOGFILE=/tmp/out.log", "DESIGN=AXI4Fuzzer"},
	}
	assert.Equal(t, "/tmp/out.log", LogFileArg(inv))

	assert.Equal(t, "", LogFileArg(invocation.Invocation{Target: "run-verilator"}))
}
