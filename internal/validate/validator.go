// Package validate checks the artifacts of a specs workflow tree: capability
// specs, change workspaces and schema definitions. Checks are presence and
// pattern tests on raw text; nothing is parsed into a document model.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Mode selects which artifact kinds a run validates.
type Mode int

const (
	// ModeAll validates schemas, specs and changes.
	ModeAll Mode = iota
	// ModeSpecs validates capability specs only.
	ModeSpecs
	// ModeChanges validates change workspaces only.
	ModeChanges
	// ModeSchemas validates schema definitions only.
	ModeSchemas
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeSpecs:
		return "specs"
	case ModeChanges:
		return "changes"
	case ModeSchemas:
		return "schemas"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) schemas() bool { return m == ModeAll || m == ModeSchemas }
func (m Mode) specs() bool   { return m == ModeAll || m == ModeSpecs }
func (m Mode) changes() bool { return m == ModeAll || m == ModeChanges }

// Validator discovers artifacts under a project root and applies the
// matching rule to each.
type Validator struct {
	root   string
	rules  Rules
	parser StructuredParser
}

// NewValidator creates a validator for the project at root. A nil parser
// is treated as unavailable.
func NewValidator(root string, rules Rules, parser StructuredParser) *Validator {
	if parser == nil {
		parser = NullParser{}
	}
	return &Validator{root: root, rules: rules, parser: parser}
}

// Root returns the project root.
func (v *Validator) Root() string {
	return v.root
}

// Run validates every target selected by mode. Results follow discovery
// order: schemas, then specs, then changes, each in directory-listing
// order. Rule failures are recorded in the results; only filesystem errors
// and ctx cancellation are returned.
func (v *Validator) Run(ctx context.Context, mode Mode) ([]*Result, error) {
	var results []*Result

	if mode.schemas() {
		rs, err := v.validateSchemas(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}

	if mode.specs() {
		rs, err := v.validateSpecs(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}

	if mode.changes() {
		rs, err := v.validateChanges(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}

	logf("%s: checked %d files under %s", mode, len(results), v.root)
	return results, nil
}

func (v *Validator) validateSchemas(ctx context.Context) ([]*Result, error) {
	dir := filepath.Join(v.root, v.rules.SchemasDir())
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !v.rules.IsSchemaFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			logf("skipping %s: not a regular file", path)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		results = append(results, CheckSchema(path, string(content), v.parser, v.rules))
	}
	return results, nil
}

func (v *Validator) validateSpecs(ctx context.Context) ([]*Result, error) {
	dir := filepath.Join(v.root, v.rules.SpecsDir())
	names, err := listDirs(dir, v.rules.IgnoredSpecDir)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := checkSpecIn(filepath.Join(dir, name), v.rules)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

func (v *Validator) validateChanges(ctx context.Context) ([]*Result, error) {
	dir := filepath.Join(v.root, v.rules.ChangesDir())
	archive := v.rules.ArchiveDir()
	names, err := listDirs(dir, func(name string) bool { return name == archive })
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rs, err := CheckChange(filepath.Join(dir, name), v.rules)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}
