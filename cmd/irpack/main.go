package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"irpack/internal/version"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() (*cobra.Command, *cliEnv) {
	env := &cliEnv{}
	root := &cobra.Command{
		Use:           "irpack",
		Short:         "Inspect and move serialized IR modules",
		Long:          `irpack reads modules serialized as a header plus one blob per top-level declaration`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "path to irpack.toml (default: nearest one above the working directory)")
	root.PersistentFlags().String("store", "", "blob store as kind:path, overriding the configuration")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-mode", "", "trace storage mode (stream|ring|both)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(newDumpCmd(env))
	root.AddCommand(newListCmd(env))
	root.AddCommand(newPrintCmd(env))
	root.AddCommand(newCopyCmd(env))
	root.AddCommand(newSampleCmd(env))
	root.AddCommand(newVersionCmd())
	return root, env
}

// main runs the CLI and exits with status 1 on failure.
func main() {
	root, env := newRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "irpack: %v\n", err)
	}
	env.finish(os.Stderr, err != nil)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
