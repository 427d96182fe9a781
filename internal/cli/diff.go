package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/logdiff"
	"github.com/rtlci/simreg/internal/logextract"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Marker string
	Skip   int
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <log-a> <log-b>",
		Short: "Compare the post-marker regions of two simulator logs",
		Long: `Compare the post-marker regions of two simulator logs.

Both logs are cut at the first occurrence of the marker and the
remaining regions are compared line by line. The comparison is exact;
any byte difference is a divergence.

Exit codes:
  0 - Regions match
  1 - Regions diverge
  2 - Command error (file unreadable, marker not found, etc.)

Examples:
  simreg diff logs/a.log logs/b.log --marker "Memory Model Stats:"
  simreg diff a.log b.log --marker "Memory Model Stats:" --skip 2 --verbose`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Marker, "marker", "", "marker line anchoring both regions (required)")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "lines to drop from the start of each region")
	_ = cmd.MarkFlagRequired("marker")

	return cmd
}

func runDiff(opts *DiffOptions, pathA, pathB string, cmd *cobra.Command) error {
	linesA, err := logextract.Extract(pathA, opts.Marker, opts.Skip)
	if err != nil {
		return WrapExitError(ExitCommandError, "extraction failed", err)
	}
	linesB, err := logextract.Extract(pathB, opts.Marker, opts.Skip)
	if err != nil {
		return WrapExitError(ExitCommandError, "extraction failed", err)
	}

	result := logdiff.Diff(linesA, linesB, filepath.Base(pathA), filepath.Base(pathB))

	if opts.Format == "json" {
		return outputDiffJSON(cmd, result)
	}
	return outputDiffText(opts, cmd, result)
}

// outputDiffJSON renders the comparison as a JSON response envelope.
func outputDiffJSON(cmd *cobra.Command, result logdiff.Result) error {
	resp := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.Equal() {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_LOG_MISMATCH",
			Message: result.Report(),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		return err
	}

	if !result.Equal() {
		return NewExitError(ExitFailure, "log regions diverge")
	}
	return nil
}

// outputDiffText renders the comparison as human-readable text.
func outputDiffText(opts *DiffOptions, cmd *cobra.Command, result logdiff.Result) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Report())

	if result.Equal() {
		return nil
	}

	if opts.Verbose && result.Listing != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Listing)
	}
	return NewExitError(ExitFailure, "log regions diverge")
}
