package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/registry"
)

// CaseInfo describes one registered case for listing.
type CaseInfo struct {
	Name         string `json:"name"`
	Design       string `json:"design"`
	TargetConfig string `json:"target_config"`
	Mode         string `json:"mode"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in regression cases",
		Long: `List the built-in regression cases in registration order.

Examples:
  simreg list
  simreg list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	reg := registry.Builtin()
	infos := make([]CaseInfo, 0, reg.Len())
	for _, tc := range reg.Cases() {
		infos = append(infos, CaseInfo{
			Name:         tc.Name,
			Design:       tc.Design,
			TargetConfig: tc.TargetConfig,
			Mode:         modeName(tc.ExecMode()),
		})
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: infos})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESIGN\tTARGET CONFIG\tMODE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Design, info.TargetConfig, info.Mode)
	}
	return w.Flush()
}

// modeName renders a case's execution mode for display.
func modeName(mode registry.Mode) string {
	switch m := mode.(type) {
	case registry.EquivalenceRun:
		return fmt.Sprintf("equivalence(%d runs)", len(m.Runs))
	default:
		return "single"
	}
}
