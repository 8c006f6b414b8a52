package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/specskills/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify specskills configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.
List values are comma-separated.

Configuration is stored at ~/.config/specskills/config.yaml
Project-specific overrides can be placed in .specskills.yaml
With --config, only that file (plus SPECSKILLS_* variables) is read.
Setting a value always writes the user config.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return displayAllConfig(out, cfg)
		case 1:
			return displayConfigKey(out, cfg, args[0])
		default:
			return setConfigKey(out, cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints every configuration value and where it came from.
func displayAllConfig(out io.Writer, cfg *config.Config) error {
	keyColor := color.New(color.FgCyan)
	if validateNoColor {
		keyColor.DisableColor()
	}

	for _, key := range config.Keys() {
		value, err := config.Get(cfg, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(out, "%s: %s\n", keyColor.Sprint(key), value)
	}

	if validateConfigPath != "" {
		fmt.Fprintf(out, "\nconfig file: %s\n", validateConfigPath)
		return nil
	}
	fmt.Fprintf(out, "\nuser config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(validateRoot); project != "" {
		fmt.Fprintf(out, "project config: %s\n", project)
	}
	return nil
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(out io.Writer, cfg *config.Config, key string) error {
	value, err := config.Get(cfg, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// setConfigKey sets a configuration value and saves the user config.
func setConfigKey(out io.Writer, cfg *config.Config, key, value string) error {
	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}
