// Command simreg drives memory-model simulator regressions.
package main

import (
	"fmt"
	"os"

	"github.com/rtlci/simreg/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
