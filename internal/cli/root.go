// Package cli implements the plangraph command-line interface.
//
// The CLI compiles declarative plan files (YAML or CUE) into execution-plan
// graphs and inspects the result: a deterministic text dump, a DOT or SVG
// rendering, or a validation report. Commands are built with cobra; verbose
// diagnostics go through charmbracelet/log on stderr so JSON output stays
// machine-readable.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the plangraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "plangraph",
		Short: "Compile database operation plans into execution graphs",
		Long: `plangraph compiles declarative plan files into execution-plan graphs:
dependency-ordered DAGs of database operations with branch nodes, row-count
expectations and engine-capability aware finalization.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger creates the diagnostic logger. It writes to w and filters at
// debug level when verbose is set, info otherwise. Timestamps are formatted
// as "HH:MM:SS.ms".
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
