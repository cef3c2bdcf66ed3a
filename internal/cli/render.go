package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/roach88/plangraph/internal/harness"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string // output file path
	As     string // "dot" | "svg"
}

// ValidRenderFormats defines the allowed render output formats.
var ValidRenderFormats = []string{"dot", "svg"}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <plan-file>",
		Short: "Render a compiled plan as DOT or SVG",
		Long: `Compile a plan file and render the finalized graph for visualization.

Operation nodes render as boxes, flow nodes as diamonds; branch edges are
bold and result nodes filled. SVG output goes through Graphviz.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: plan file with new extension)")
	cmd.Flags().StringVar(&opts.As, "as", "dot", "render format (dot|svg)")

	return cmd
}

func runRender(opts *RenderOptions, planFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(formatter.GetErrWriter(), opts.Verbose)

	if !isValidRenderFormat(opts.As) {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid render format %q: must be one of %v", opts.As, ValidRenderFormats), nil)
		return NewExitError(ExitCommandError, "invalid render format")
	}

	plan, err := LoadPlan(planFile)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result, err := harness.RunWithLogger(plan, logger)
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}

	dot := result.Graph.ToDOT()
	logger.Debug("generated DOT", "bytes", len(dot))

	data := []byte(dot)
	if opts.As == "svg" {
		data, err = renderSVG(cmd.Context(), dot)
		if err != nil {
			_ = formatter.Error(ErrCodeRenderFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "rendering SVG", err)
		}
		logger.Debug("rendered SVG", "bytes", len(data))
	}

	outputPath := opts.Output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(planFile, filepath.Ext(planFile)) + "." + opts.As
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		return WrapExitError(ExitCommandError, "writing output file", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"name": plan.Name, "output": outputPath, "format": opts.As})
	}
	fmt.Fprintf(formatter.Writer, "✓ Rendered plan %q to %s\n", plan.Name, outputPath)
	return nil
}

// isValidRenderFormat checks if the render format is allowed.
func isValidRenderFormat(format string) bool {
	for _, f := range ValidRenderFormats {
		if f == format {
			return true
		}
	}
	return false
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
