package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/plangraph/internal/graph"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult holds the validation outcome.
type ValidateResult struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a plan file without finalizing it",
		Long: `Validate a plan file: parse it, build the dependency graph and check
structural integrity (edge endpoints, acyclicity). The finalization passes
do not run, so the file is checked exactly as written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, planFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(formatter.GetErrWriter(), opts.Verbose)

	plan, err := LoadPlan(planFile)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	g, _, err := plan.Build()
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "plan graph construction failed", err)
	}
	logger.Debug("built plan", "name", plan.Name, "nodes", len(g.Nodes()))

	if err := g.Validate(); err != nil {
		code := ErrCodeBuildFailed
		if errors.Is(err, graph.ErrGraphHasCycle) {
			code = ErrCodeCycle
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "plan graph validation failed", err)
	}

	result := &ValidateResult{
		Name:  plan.Name,
		Valid: true,
		Nodes: len(g.Nodes()),
		Edges: len(plan.Edges),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Plan %q is valid: %d node(s), %d edge(s)\n", result.Name, result.Nodes, result.Edges)
	return nil
}
