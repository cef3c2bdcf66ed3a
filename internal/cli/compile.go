package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/plangraph/internal/graph"
	"github.com/roach88/plangraph/internal/harness"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult holds the compiled plan summary.
type CompileResult struct {
	Name          string `json:"name"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	Transactional bool   `json:"transactional"`
	Dump          string `json:"dump"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <plan-file>",
		Short: "Compile a plan file into a finalized execution graph",
		Long: `Compile a declarative plan file (YAML or CUE) into an execution graph.

The compiler builds the dependency graph, validates it, and runs the
finalization passes: marked-pair inversion, return-dependency merging,
selection widening, reload insertion and flow-node ordering.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Errors get formatted output, not usage text
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the plan dump to a file")

	return cmd
}

func runCompile(opts *CompileOptions, planFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics go to stderr to keep JSON output clean
		Verbose:   opts.Verbose,
	}
	logger := newLogger(formatter.GetErrWriter(), opts.Verbose)

	plan, err := LoadPlan(planFile)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	logger.Debug("loaded plan", "name", plan.Name, "nodes", len(plan.Nodes), "edges", len(plan.Edges))

	result, err := harness.RunWithLogger(plan, logger)
	if err != nil {
		if errors.Is(err, graph.ErrGraphHasCycle) {
			_ = formatter.Error(ErrCodeCycle, err.Error(), nil)
			return WrapExitError(ExitFailure, "plan graph is cyclic", err)
		}
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "compilation failed", err)
	}
	logger.Debug("finalized plan", "transactional", result.Graph.NeedsTransaction())

	dump := result.Graph.Format()
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(dump), 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		logger.Debug("wrote dump", "path", opts.Output)
	}

	summary := &CompileResult{
		Name:          plan.Name,
		Nodes:         len(result.Graph.Nodes()),
		Edges:         len(plan.Edges),
		Transactional: result.Graph.NeedsTransaction(),
		Dump:          dump,
	}
	return outputCompileSuccess(formatter, summary, opts.Output)
}

// outputCompileSuccess outputs a successful compilation.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled plan %q: %d node(s)\n\n", result.Name, result.Nodes)
	fmt.Fprint(formatter.Writer, result.Dump)
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote plan dump to %s\n", outputFile)
	}
	return nil
}

// outputLoadError formats a load error and converts it to an exit error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Error(), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
