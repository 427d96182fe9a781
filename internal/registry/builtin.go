package registry

import (
	"fmt"

	"github.com/rtlci/simreg/internal/runconfig"
)

// StatsMarker is the line the memory model prints before its closing
// statistics dump. Equivalence cases anchor log extraction on it.
const StatsMarker = "Memory Model Stats:"

// builtinCases is the default catalog. Every case drives the AXI4
// fuzzer against one timing-model configuration. The equivalence case
// additionally checks that file-based runtime configuration and the
// same settings passed as plus-args leave the model in an identical
// final state.
var builtinCases = []TestCase{
	{
		Name:         "fuzz-fcfs",
		Design:       "AXI4Fuzzer",
		TargetConfig: "FCFSConfig",
		RunConfig:    runconfig.Default(),
		PlusArgs:     []string{"+fuzzer-transactions=16384"},
	},
	{
		Name:         "fuzz-frfcfs",
		Design:       "AXI4Fuzzer",
		TargetConfig: "FRFCFSConfig",
		RunConfig:    runconfig.Default(),
		PlusArgs:     []string{"+fuzzer-transactions=16384"},
	},
	{
		Name:            "fuzz-llc",
		Design:          "AXI4Fuzzer",
		TargetConfig:    "FRFCFSLLC4MBConfig",
		PlatformConfigs: []string{"BaseConfig", "MCRams"},
		RunConfig:       runconfig.Default(),
		PlusArgs:        []string{"+fuzzer-transactions=16384"},
	},
	{
		Name:         "fuzz-latency-pipe",
		Design:       "AXI4Fuzzer",
		TargetConfig: "LatencyPipeConfig",
		RunConfig:    runconfig.Default(),
		PlusArgs:     []string{"+fuzzer-transactions=8192"},
	},
	{
		Name:         "runtime-config-equivalence",
		Design:       "AXI4Fuzzer",
		TargetConfig: "FRFCFSConfig",
		RunConfig:    runconfig.Default(),
		PlusArgs:     []string{"+fuzzer-transactions=4096"},
		Mode: EquivalenceRun{
			Marker: StatsMarker,
			Runs: []RunVariant{
				{
					Name:      "filecfg",
					RunConfig: runconfig.Custom("runtime.conf"),
				},
				{
					Name:      "plusargs",
					RunConfig: runconfig.Empty(),
					PlusArgs: []string{
						"+fuzzer-transactions=4096",
						"+mm_relaxFunctionalModel=0",
						"+mm_openPagePolicy=1",
						"+mm_backendLatency=2",
						"+mm_dramTimings_tAL=0",
					},
				},
			},
		},
	},
}

// Builtin returns the default catalog as a fresh registry.
// Panics if the table itself is invalid; that is a programming error
// caught by the package tests.
func Builtin() *Registry {
	r := New()
	for _, tc := range builtinCases {
		if err := r.Add(tc); err != nil {
			panic(fmt.Sprintf("builtin case table: %v", err))
		}
	}
	return r
}
