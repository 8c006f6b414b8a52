package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/specskills/internal/config"
	"github.com/ShayCichocki/specskills/internal/report"
	"github.com/ShayCichocki/specskills/internal/validate"
	"github.com/ShayCichocki/specskills/internal/watch"
)

var (
	validateSpecsOnly   bool
	validateChangesOnly bool
	validateSchemasOnly bool
	validateJSON        bool
	validateWatch       bool
	validateNoColor     bool
	validateBasic       bool
	validateRoot        string
	validateConfigPath  string
)

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&validateSpecsOnly, "specs", false, "Validate capability specs only")
	cmd.Flags().BoolVar(&validateChangesOnly, "changes", false, "Validate change workspaces only")
	cmd.Flags().BoolVar(&validateSchemasOnly, "schemas", false, "Validate schema definitions only")
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Print a machine-readable JSON report")
	cmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate whenever files change")
	cmd.PersistentFlags().BoolVar(&validateNoColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&validateBasic, "basic", false, "Skip YAML parsing of schemas (textual checks only)")
	cmd.PersistentFlags().StringVar(&validateRoot, "root", ".", "Project root containing the specs directory")
	cmd.PersistentFlags().StringVar(&validateConfigPath, "config", "", "Config file to use instead of the user and project config")
	cmd.MarkFlagsMutuallyExclusive("specs", "changes", "schemas")
	cmd.MarkFlagsMutuallyExclusive("json", "watch")
}

// selectedMode maps the --specs/--changes/--schemas flags to a mode.
func selectedMode() validate.Mode {
	switch {
	case validateSpecsOnly:
		return validate.ModeSpecs
	case validateChangesOnly:
		return validate.ModeChanges
	case validateSchemasOnly:
		return validate.ModeSchemas
	default:
		return validate.ModeAll
	}
}

// loadConfig reads --config when given, otherwise the layered config for
// --root.
func loadConfig() (*config.Config, error) {
	if validateConfigPath != "" {
		return config.LoadFromPath(validateConfigPath)
	}
	return config.Load(validateRoot)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	parser := cfg.Parser()
	if validateBasic {
		parser = validate.NullParser{}
	}
	v := validate.NewValidator(validateRoot, cfg.Rules(), parser)
	mode := selectedMode()
	out := cmd.OutOrStdout()

	if validateWatch {
		return runWatch(cmd.Context(), out, v, mode, cfg)
	}

	results, err := v.Run(cmd.Context(), mode)
	if err != nil {
		return err
	}

	if validateJSON {
		err = report.WriteJSON(out, results)
	} else {
		err = report.NewPrinter(useColor(cfg)).WriteText(out, results)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if !report.Summarize(results).Valid {
		return errValidationFailed
	}
	return nil
}

// runWatch prints a report now and again after every batch of changes
// until ctx is cancelled.
func runWatch(ctx context.Context, out io.Writer, v *validate.Validator, mode validate.Mode, cfg *config.Config) error {
	printer := report.NewPrinter(useColor(cfg))
	check := func(ctx context.Context) error {
		results, err := v.Run(ctx, mode)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		return printer.WriteText(out, results)
	}

	if err := check(ctx); err != nil {
		return err
	}

	w, err := watch.New(cfg.WatchDirs(v.Root()), cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nWatching for changes (Ctrl+C to stop)...\n")

	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		fmt.Fprintf(out, "\n[%s] %d file(s) changed, re-validating\n",
			time.Now().Format("15:04:05"), len(changed))
		return check(ctx)
	})
}

// useColor combines the config, the --no-color flag and terminal detection.
func useColor(cfg *config.Config) bool {
	return cfg.Output.Color && !validateNoColor && !color.NoColor
}
