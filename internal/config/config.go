// Package config handles configuration loading and management for specskills.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/specskills/internal/validate"
)

// ProjectConfigFile is the name of the project-level override file.
const ProjectConfigFile = ".specskills.yaml"

// EnvPrefix prefixes environment overrides, e.g. SPECSKILLS_PATHS_SPECS.
const EnvPrefix = "SPECSKILLS"

// Config holds all configuration for specskills.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Specs   SpecsConfig   `mapstructure:"specs"`
	Changes ChangesConfig `mapstructure:"changes"`
	Schemas SchemasConfig `mapstructure:"schemas"`
	Output  OutputConfig  `mapstructure:"output"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// PathsConfig locates the artifact directories relative to the project root.
type PathsConfig struct {
	Specs   string `mapstructure:"specs"`
	Changes string `mapstructure:"changes"`
	Schemas string `mapstructure:"schemas"`
}

// SpecsConfig holds spec document rules.
type SpecsConfig struct {
	// File is the spec document name inside a capability directory.
	File string `mapstructure:"file"`
	// IgnoreDirs are reserved directory names under the specs root.
	IgnoreDirs []string `mapstructure:"ignore_dirs"`
	// Exclude holds extra glob patterns of capability directories to skip.
	Exclude []string `mapstructure:"exclude"`
	// RequiredHeaders must all appear in every spec.
	RequiredHeaders []string `mapstructure:"required_headers"`
	// Keywords are normative keywords, one of which must appear.
	Keywords []string `mapstructure:"keywords"`
	// DeltaHeaders are the delta section headers.
	DeltaHeaders []string `mapstructure:"delta_headers"`
}

// ChangesConfig holds change workspace rules.
type ChangesConfig struct {
	Manifest   string `mapstructure:"manifest"`
	ArchiveDir string `mapstructure:"archive_dir"`
}

// SchemasConfig holds schema definition rules.
type SchemasConfig struct {
	// Patterns match schema file names.
	Patterns []string `mapstructure:"patterns"`
	// DeepValidation enables YAML parsing of schemas.
	DeepValidation bool `mapstructure:"deep_validation"`
	// Strict makes skipped deep validation an error.
	Strict bool `mapstructure:"strict"`
}

// OutputConfig holds report display settings.
type OutputConfig struct {
	Color bool `mapstructure:"color"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Load loads configuration for the project at root.
// Precedence (highest to lowest):
// 1. Environment variables (SPECSKILLS_*)
// 2. Project config (.specskills.yaml in root or a parent)
// 3. User config (~/.config/specskills/config.yaml)
// 4. Built-in defaults
func Load(root string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(root); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file on top of the
// defaults, bypassing the user and project files. Environment variables
// still override it.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// unmarshal applies environment overrides and decodes v.
func unmarshal(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("paths.specs", cfg.Paths.Specs)
	v.Set("paths.changes", cfg.Paths.Changes)
	v.Set("paths.schemas", cfg.Paths.Schemas)
	v.Set("specs.file", cfg.Specs.File)
	v.Set("specs.ignore_dirs", cfg.Specs.IgnoreDirs)
	v.Set("specs.exclude", cfg.Specs.Exclude)
	v.Set("specs.required_headers", cfg.Specs.RequiredHeaders)
	v.Set("specs.keywords", cfg.Specs.Keywords)
	v.Set("specs.delta_headers", cfg.Specs.DeltaHeaders)
	v.Set("changes.manifest", cfg.Changes.Manifest)
	v.Set("changes.archive_dir", cfg.Changes.ArchiveDir)
	v.Set("schemas.patterns", cfg.Schemas.Patterns)
	v.Set("schemas.deep_validation", cfg.Schemas.DeepValidation)
	v.Set("schemas.strict", cfg.Schemas.Strict)
	v.Set("output.color", cfg.Output.Color)
	v.Set("watch.debounce", cfg.Watch.Debounce.String())

	return v.WriteConfig()
}

// Rules converts the configuration into the validator's immutable rule set.
func (c *Config) Rules() validate.Rules {
	return validate.NewRules(validate.RulesConfig{
		SpecsDir:            c.Paths.Specs,
		ChangesDir:          c.Paths.Changes,
		SchemasDir:          c.Paths.Schemas,
		SpecFile:            c.Specs.File,
		IgnoreDirs:          c.Specs.IgnoreDirs,
		ExcludePatterns:     c.Specs.Exclude,
		RequiredHeaders:     c.Specs.RequiredHeaders,
		RequirementKeywords: c.Specs.Keywords,
		DeltaHeaders:        c.Specs.DeltaHeaders,
		ManifestFile:        c.Changes.Manifest,
		ArchiveDir:          c.Changes.ArchiveDir,
		SchemaPatterns:      c.Schemas.Patterns,
		StrictSchemas:       c.Schemas.Strict,
	})
}

// Parser returns the structured parser selected by schemas.deep_validation.
func (c *Config) Parser() validate.StructuredParser {
	if c.Schemas.DeepValidation {
		return validate.YAMLParser{}
	}
	return validate.NullParser{}
}

// WatchDirs returns the directories watch mode observes for root.
func (c *Config) WatchDirs(root string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, rel := range []string{c.Paths.Specs, c.Paths.Changes, c.Paths.Schemas} {
		dir := filepath.Join(root, rel)
		if rel == "" || seen[dir] || coveredBy(dir, dirs) {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the project config file for root, if any.
func GetProjectConfigPath(root string) string {
	return findProjectConfig(root)
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("paths.specs", d.Paths.Specs)
	v.SetDefault("paths.changes", d.Paths.Changes)
	v.SetDefault("paths.schemas", d.Paths.Schemas)

	v.SetDefault("specs.file", d.Specs.File)
	v.SetDefault("specs.ignore_dirs", d.Specs.IgnoreDirs)
	v.SetDefault("specs.exclude", d.Specs.Exclude)
	v.SetDefault("specs.required_headers", d.Specs.RequiredHeaders)
	v.SetDefault("specs.keywords", d.Specs.Keywords)
	v.SetDefault("specs.delta_headers", d.Specs.DeltaHeaders)

	v.SetDefault("changes.manifest", d.Changes.Manifest)
	v.SetDefault("changes.archive_dir", d.Changes.ArchiveDir)

	v.SetDefault("schemas.patterns", d.Schemas.Patterns)
	v.SetDefault("schemas.deep_validation", d.Schemas.DeepValidation)
	v.SetDefault("schemas.strict", d.Schemas.Strict)

	v.SetDefault("output.color", d.Output.Color)

	v.SetDefault("watch.debounce", d.Watch.Debounce.String())
}

// getUserConfigDir returns the XDG config directory for specskills.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "specskills")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "specskills")
	}
	return filepath.Join(home, ".config", "specskills")
}

// findProjectConfig searches for .specskills.yaml in start and its parents.
func findProjectConfig(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func coveredBy(dir string, parents []string) bool {
	for _, p := range parents {
		rel, err := filepath.Rel(p, dir)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Default returns a Config with default values.
func Default() *Config {
	rules := validate.DefaultRulesConfig()
	return &Config{
		Paths: PathsConfig{
			Specs:   rules.SpecsDir,
			Changes: rules.ChangesDir,
			Schemas: rules.SchemasDir,
		},
		Specs: SpecsConfig{
			File:            rules.SpecFile,
			IgnoreDirs:      rules.IgnoreDirs,
			Exclude:         []string{},
			RequiredHeaders: rules.RequiredHeaders,
			Keywords:        rules.RequirementKeywords,
			DeltaHeaders:    rules.DeltaHeaders,
		},
		Changes: ChangesConfig{
			Manifest:   rules.ManifestFile,
			ArchiveDir: rules.ArchiveDir,
		},
		Schemas: SchemasConfig{
			Patterns:       rules.SchemaPatterns,
			DeepValidation: true,
		},
		Output: OutputConfig{
			Color: true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
