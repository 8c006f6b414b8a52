package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Keys returns every dot-notation configuration key in display order.
func Keys() []string {
	return []string{
		"paths.specs",
		"paths.changes",
		"paths.schemas",
		"specs.file",
		"specs.ignore_dirs",
		"specs.exclude",
		"specs.required_headers",
		"specs.keywords",
		"specs.delta_headers",
		"changes.manifest",
		"changes.archive_dir",
		"schemas.patterns",
		"schemas.deep_validation",
		"schemas.strict",
		"output.color",
		"watch.debounce",
	}
}

// Get returns the value of a dot-notation key. List values are joined
// with commas.
func Get(cfg *Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "paths.specs":
		return cfg.Paths.Specs, nil
	case "paths.changes":
		return cfg.Paths.Changes, nil
	case "paths.schemas":
		return cfg.Paths.Schemas, nil
	case "specs.file":
		return cfg.Specs.File, nil
	case "specs.ignore_dirs":
		return strings.Join(cfg.Specs.IgnoreDirs, ","), nil
	case "specs.exclude":
		return strings.Join(cfg.Specs.Exclude, ","), nil
	case "specs.required_headers":
		return strings.Join(cfg.Specs.RequiredHeaders, ","), nil
	case "specs.keywords":
		return strings.Join(cfg.Specs.Keywords, ","), nil
	case "specs.delta_headers":
		return strings.Join(cfg.Specs.DeltaHeaders, ","), nil
	case "changes.manifest":
		return cfg.Changes.Manifest, nil
	case "changes.archive_dir":
		return cfg.Changes.ArchiveDir, nil
	case "schemas.patterns":
		return strings.Join(cfg.Schemas.Patterns, ","), nil
	case "schemas.deep_validation":
		return strconv.FormatBool(cfg.Schemas.DeepValidation), nil
	case "schemas.strict":
		return strconv.FormatBool(cfg.Schemas.Strict), nil
	case "output.color":
		return strconv.FormatBool(cfg.Output.Color), nil
	case "watch.debounce":
		return cfg.Watch.Debounce.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set assigns a dot-notation key from its string form. List values are
// comma-separated.
func Set(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "paths.specs":
		cfg.Paths.Specs = value
	case "paths.changes":
		cfg.Paths.Changes = value
	case "paths.schemas":
		cfg.Paths.Schemas = value
	case "specs.file":
		cfg.Specs.File = value
	case "specs.ignore_dirs":
		cfg.Specs.IgnoreDirs = splitList(value)
	case "specs.exclude":
		cfg.Specs.Exclude = splitList(value)
	case "specs.required_headers":
		cfg.Specs.RequiredHeaders = splitList(value)
	case "specs.keywords":
		cfg.Specs.Keywords = splitList(value)
	case "specs.delta_headers":
		cfg.Specs.DeltaHeaders = splitList(value)
	case "changes.manifest":
		cfg.Changes.Manifest = value
	case "changes.archive_dir":
		cfg.Changes.ArchiveDir = value
	case "schemas.patterns":
		cfg.Schemas.Patterns = splitList(value)
	case "schemas.deep_validation":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for schemas.deep_validation: %w", err)
		}
		cfg.Schemas.DeepValidation = b
	case "schemas.strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for schemas.strict: %w", err)
		}
		cfg.Schemas.Strict = b
	case "output.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for output.color: %w", err)
		}
		cfg.Output.Color = b
	case "watch.debounce":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for watch.debounce: %w", err)
		}
		cfg.Watch.Debounce = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
