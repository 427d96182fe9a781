package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/logextract"
)

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	Marker string
	Skip   int
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <log-file>",
		Short: "Extract the post-marker region from a simulator log",
		Long: `Extract the lines after a marker from a simulator log.

The region starts on the line after the first exact occurrence of the
marker and extends to the end of the file. --skip drops leading lines
from the region before printing.

Exit codes:
  0 - Region extracted
  2 - Command error (file unreadable, marker not found, etc.)

Examples:
  simreg extract logs/fuzz-fcfs.log --marker "Memory Model Stats:"
  simreg extract sim.log --marker "Memory Model Stats:" --skip 2 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Marker, "marker", "", "marker line anchoring the region (required)")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "lines to drop from the start of the region")
	_ = cmd.MarkFlagRequired("marker")

	return cmd
}

func runExtract(opts *ExtractOptions, path string, cmd *cobra.Command) error {
	lines, err := logextract.Extract(path, opts.Marker, opts.Skip)
	if err != nil {
		return WrapExitError(ExitCommandError, "extraction failed", err)
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{
			Status: "ok",
			Data: struct {
				File   string   `json:"file"`
				Marker string   `json:"marker"`
				Lines  []string `json:"lines"`
			}{File: path, Marker: opts.Marker, Lines: lines},
		})
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
