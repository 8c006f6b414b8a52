package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errValidationFailed signals that the report has already been printed and
// the process should exit non-zero without another message.
var errValidationFailed = errors.New("validation failed")

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "specskills",
	Short: "Validate spec-driven workflow artifacts",
	Long: `specskills checks the artifacts of a spec-driven workflow tree for
structural conformance and reports errors and warnings per file.

It validates:
  - Schema definitions   specs/schemas/*.yaml, *.yml
  - Capability specs     specs/<capability>/spec.md
  - Change workspaces    specs/changes/<change>/.change.json and nested specs

Warnings never fail a run. Any error exits with status 1.

Examples:
  specskills                 # Validate everything
  specskills --specs         # Validate capability specs only
  specskills --changes       # Validate change workspaces only
  specskills --json          # JSON output for CI
  specskills --watch         # Re-validate on every change`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		if verbose {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
	},
	RunE: runValidate,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	addValidateFlags(rootCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
