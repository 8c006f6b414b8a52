package validate

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RulesConfig is the mutable input used to build Rules.
type RulesConfig struct {
	SpecsDir            string
	ChangesDir          string
	SchemasDir          string
	SpecFile            string
	IgnoreDirs          []string
	ExcludePatterns     []string
	RequiredHeaders     []string
	RequirementKeywords []string
	ScenarioMarker      string
	DeltaHeaders        []string
	RenamedHeader       string
	ManifestFile        string
	ArchiveDir          string
	SchemaPatterns      []string
	StrictSchemas       bool
}

// DefaultRulesConfig returns the conventions of the specs workflow.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		SpecsDir:            "specs",
		ChangesDir:          "specs/changes",
		SchemasDir:          "specs/schemas",
		SpecFile:            "spec.md",
		IgnoreDirs:          []string{"changes", "schemas", "templates", "scripts", ".github"},
		RequiredHeaders:     []string{"## Purpose", "## Requirements"},
		RequirementKeywords: []string{"SHALL", "MUST", "SHOULD"},
		ScenarioMarker:      "#### Scenario:",
		DeltaHeaders: []string{
			"## ADDED Requirements",
			"## MODIFIED Requirements",
			"## REMOVED Requirements",
			"## RENAMED Requirements",
		},
		RenamedHeader:  "## RENAMED Requirements",
		ManifestFile:   ".change.json",
		ArchiveDir:     "archive",
		SchemaPatterns: []string{"*.yaml", "*.yml"},
	}
}

// Rules is the immutable rule set shared by every check in a run.
// Build it with DefaultRules or NewRules; slice accessors return copies.
type Rules struct {
	specsDir            string
	changesDir          string
	schemasDir          string
	specFile            string
	ignoreDirs          map[string]bool
	excludePatterns     []string
	requiredHeaders     []string
	requirementKeywords []string
	scenarioMarker      string
	deltaHeaders        []string
	renamedHeader       string
	manifestFile        string
	archiveDir          string
	schemaPatterns      []string
	strictSchemas       bool
}

// DefaultRules returns NewRules(DefaultRulesConfig()).
func DefaultRules() Rules {
	return NewRules(DefaultRulesConfig())
}

// NewRules builds Rules from cfg. Empty fields fall back to the defaults.
func NewRules(cfg RulesConfig) Rules {
	def := DefaultRulesConfig()
	r := Rules{
		specsDir:            orDefault(cfg.SpecsDir, def.SpecsDir),
		changesDir:          orDefault(cfg.ChangesDir, def.ChangesDir),
		schemasDir:          orDefault(cfg.SchemasDir, def.SchemasDir),
		specFile:            orDefault(cfg.SpecFile, def.SpecFile),
		ignoreDirs:          make(map[string]bool),
		excludePatterns:     cloneStrings(cfg.ExcludePatterns),
		requiredHeaders:     cloneOrDefault(cfg.RequiredHeaders, def.RequiredHeaders),
		requirementKeywords: cloneOrDefault(cfg.RequirementKeywords, def.RequirementKeywords),
		scenarioMarker:      orDefault(cfg.ScenarioMarker, def.ScenarioMarker),
		deltaHeaders:        cloneOrDefault(cfg.DeltaHeaders, def.DeltaHeaders),
		renamedHeader:       orDefault(cfg.RenamedHeader, def.RenamedHeader),
		manifestFile:        orDefault(cfg.ManifestFile, def.ManifestFile),
		archiveDir:          orDefault(cfg.ArchiveDir, def.ArchiveDir),
		schemaPatterns:      cloneOrDefault(cfg.SchemaPatterns, def.SchemaPatterns),
		strictSchemas:       cfg.StrictSchemas,
	}
	ignore := cfg.IgnoreDirs
	if ignore == nil {
		ignore = def.IgnoreDirs
	}
	for _, name := range ignore {
		r.ignoreDirs[name] = true
	}
	return r
}

// SpecsDir is the specs root, relative to the project root.
func (r Rules) SpecsDir() string { return r.specsDir }

// ChangesDir is the change workspaces root, relative to the project root.
func (r Rules) ChangesDir() string { return r.changesDir }

// SchemasDir is the schema definitions directory, relative to the project root.
func (r Rules) SchemasDir() string { return r.schemasDir }

// SpecFile is the spec document name inside a capability directory.
func (r Rules) SpecFile() string { return r.specFile }

// ManifestFile is the manifest name inside a change workspace.
func (r Rules) ManifestFile() string { return r.manifestFile }

// ArchiveDir is the name of the skipped archive directory under ChangesDir.
func (r Rules) ArchiveDir() string { return r.archiveDir }

// ScenarioMarker is the text that introduces a scenario.
func (r Rules) ScenarioMarker() string { return r.scenarioMarker }

// RenamedHeader is the delta header whose section must use FROM:/TO:.
func (r Rules) RenamedHeader() string { return r.renamedHeader }

// StrictSchemas turns the degraded schema mode notice into an error.
func (r Rules) StrictSchemas() bool { return r.strictSchemas }

// RequiredHeaders returns the headers every spec must contain.
func (r Rules) RequiredHeaders() []string { return cloneStrings(r.requiredHeaders) }

// RequirementKeywords returns the normative keywords, at least one of which
// must appear in a spec.
func (r Rules) RequirementKeywords() []string { return cloneStrings(r.requirementKeywords) }

// DeltaHeaders returns the delta section headers.
func (r Rules) DeltaHeaders() []string { return cloneStrings(r.deltaHeaders) }

// SchemaPatterns returns the file name patterns of schema definitions.
func (r Rules) SchemaPatterns() []string { return cloneStrings(r.schemaPatterns) }

// IgnoredSpecDir reports whether a directory directly under SpecsDir is
// reserved or excluded and therefore not a capability.
func (r Rules) IgnoredSpecDir(name string) bool {
	if r.ignoreDirs[name] {
		return true
	}
	return matchAny(r.excludePatterns, name)
}

// IsSchemaFile reports whether name matches one of the schema patterns.
func (r Rules) IsSchemaFile(name string) bool {
	return matchAny(r.schemaPatterns, name)
}

// matchAny reports whether name matches any doublestar pattern. Malformed
// patterns never match.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func cloneOrDefault(values, def []string) []string {
	if len(values) == 0 {
		return cloneStrings(def)
	}
	return cloneStrings(values)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append(make([]string, 0, len(values)), values...)
}
