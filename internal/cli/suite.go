package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtlci/simreg/internal/registry"
)

// SuiteOptions holds flags for the suite command.
type SuiteOptions struct {
	*RunOptions
	Check bool
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuiteOptions{RunOptions: &RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "suite <suite.yaml>",
		Short: "Execute a suite of cases loaded from YAML",
		Long: `Execute a suite of regression cases loaded from a YAML file.

A suite entry either references a built-in case by name or declares a
case inline. Cases run in file order with the same semantics as
'simreg run'.

Exit codes:
  0 - All cases passed (or suite is valid with --check)
  1 - One or more cases failed
  2 - Command error (unreadable suite file, unknown reference, etc.)

Examples:
  simreg suite nightly.yaml
  simreg suite nightly.yaml --backend vcs --db ./runs.db
  simreg suite nightly.yaml --check`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	addExecFlags(cmd, opts.RunOptions)
	cmd.Flags().BoolVar(&opts.Check, "check", false, "validate the suite file without running anything")

	return cmd
}

func runSuite(opts *SuiteOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	suite, cases, err := registry.LoadSuite(path, registry.Builtin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}

	formatter.VerboseLog("Loaded %d case(s) from %s", len(cases), path)

	if opts.Check {
		if opts.Format == "json" {
			return formatter.Success(struct {
				Suite string `json:"suite"`
				Cases int    `json:"cases"`
				Valid bool   `json:"valid"`
			}{Suite: suite.Name, Cases: len(cases), Valid: true})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d case(s) valid\n", suite.Name, len(cases))
		return nil
	}

	if opts.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "Suite: %s\n", suite.Name)
	}

	return executeCases(opts.RunOptions, cases, cmd)
}
