package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ShayCichocki/specskills/internal/validate"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Paths.Specs != "specs" {
		t.Errorf("expected default specs path 'specs', got %q", cfg.Paths.Specs)
	}

	if cfg.Paths.Changes != "specs/changes" {
		t.Errorf("expected default changes path 'specs/changes', got %q", cfg.Paths.Changes)
	}

	if cfg.Specs.File != "spec.md" {
		t.Errorf("expected default spec file 'spec.md', got %q", cfg.Specs.File)
	}

	if cfg.Changes.Manifest != ".change.json" {
		t.Errorf("expected default manifest '.change.json', got %q", cfg.Changes.Manifest)
	}

	if !cfg.Schemas.DeepValidation {
		t.Error("expected schemas.deep_validation to be true")
	}

	if cfg.Schemas.Strict {
		t.Error("expected schemas.strict to be false")
	}

	if !cfg.Output.Color {
		t.Error("expected output.color to be true")
	}

	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected debounce 300ms, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
paths:
  specs: docs/specs
specs:
  keywords: [MUST]
  exclude: ["draft-*"]
schemas:
  deep_validation: false
  strict: true
watch:
  debounce: 1s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Paths.Specs != "docs/specs" {
		t.Errorf("expected specs path 'docs/specs', got %q", cfg.Paths.Specs)
	}

	if cfg.Paths.Changes != "specs/changes" {
		t.Errorf("expected unset changes path to keep default, got %q", cfg.Paths.Changes)
	}

	if !reflect.DeepEqual(cfg.Specs.Keywords, []string{"MUST"}) {
		t.Errorf("expected keywords [MUST], got %v", cfg.Specs.Keywords)
	}

	if !reflect.DeepEqual(cfg.Specs.Exclude, []string{"draft-*"}) {
		t.Errorf("expected exclude [draft-*], got %v", cfg.Specs.Exclude)
	}

	if cfg.Schemas.DeepValidation {
		t.Error("expected schemas.deep_validation to be false")
	}

	if !cfg.Schemas.Strict {
		t.Error("expected schemas.strict to be true")
	}

	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "alt.yaml")
	if err := os.WriteFile(configPath, []byte("paths:\n  specs: file-specs\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("SPECSKILLS_PATHS_SPECS", "env-specs")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Paths.Specs != "env-specs" {
		t.Errorf("expected env override, got %q", cfg.Paths.Specs)
	}
}

func TestLoad_Layers(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	userDir := filepath.Join(xdg, "specskills")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("failed to create user config dir: %v", err)
	}
	userConfig := "paths:\n  specs: user-specs\n  schemas: user-schemas\noutput:\n  color: false\n"
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte(userConfig), 0644); err != nil {
		t.Fatalf("failed to write user config: %v", err)
	}

	root := t.TempDir()
	projectConfig := "paths:\n  specs: project-specs\n"
	if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(projectConfig), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	// Nested directories find the project file in a parent.
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	t.Setenv("SPECSKILLS_SCHEMAS_STRICT", "true")

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.Specs != "project-specs" {
		t.Errorf("expected project config to win, got %q", cfg.Paths.Specs)
	}

	if cfg.Paths.Schemas != "user-schemas" {
		t.Errorf("expected user config value, got %q", cfg.Paths.Schemas)
	}

	if cfg.Output.Color {
		t.Error("expected output.color false from user config")
	}

	if !cfg.Schemas.Strict {
		t.Error("expected SPECSKILLS_SCHEMAS_STRICT to set schemas.strict")
	}

	if cfg.Specs.File != "spec.md" {
		t.Errorf("expected default spec file, got %q", cfg.Specs.File)
	}
}

func TestLoad_EnvOverridesProject(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("paths:\n  specs: project-specs\n"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}
	t.Setenv("SPECSKILLS_PATHS_SPECS", "env-specs")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.Specs != "env-specs" {
		t.Errorf("expected env override, got %q", cfg.Paths.Specs)
	}
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("paths: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Error("expected error for malformed project config")
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Paths.Specs = "docs/specs"
	cfg.Specs.Keywords = []string{"MUST", "SHALL"}
	cfg.Watch.Debounce = 2 * time.Second

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromPath(GetUserConfigPath())
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if loaded.Paths.Specs != "docs/specs" {
		t.Errorf("expected saved specs path, got %q", loaded.Paths.Specs)
	}
	if !reflect.DeepEqual(loaded.Specs.Keywords, []string{"MUST", "SHALL"}) {
		t.Errorf("expected saved keywords, got %v", loaded.Specs.Keywords)
	}
	if loaded.Watch.Debounce != 2*time.Second {
		t.Errorf("expected saved debounce 2s, got %v", loaded.Watch.Debounce)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir := getUserConfigDir()
	expected := filepath.Join("/custom/config", "specskills")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestGetProjectConfigPath(t *testing.T) {
	root := t.TempDir()
	if got := GetProjectConfigPath(root); got != "" {
		// A stray file above the temp dir would be found; only check when absent.
		if filepath.Dir(got) == root {
			t.Errorf("unexpected project config %q", got)
		}
	}

	path := filepath.Join(root, ProjectConfigFile)
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}
	if got := GetProjectConfigPath(root); got != path {
		t.Errorf("expected %q, got %q", path, got)
	}
}

func TestConfigRules(t *testing.T) {
	cfg := Default()
	cfg.Paths.Specs = "docs/specs"
	cfg.Specs.Exclude = []string{"wip-*"}
	cfg.Schemas.Strict = true

	rules := cfg.Rules()

	if rules.SpecsDir() != "docs/specs" {
		t.Errorf("expected specs dir 'docs/specs', got %q", rules.SpecsDir())
	}
	if !rules.IgnoredSpecDir("wip-login") {
		t.Error("expected exclude pattern to apply")
	}
	if !rules.IgnoredSpecDir("templates") {
		t.Error("expected default ignore dirs to apply")
	}
	if !rules.StrictSchemas() {
		t.Error("expected strict schemas")
	}
}

func TestConfigParser(t *testing.T) {
	cfg := Default()
	if !cfg.Parser().Available() {
		t.Error("expected YAML parser when deep validation is on")
	}

	cfg.Schemas.DeepValidation = false
	if _, ok := cfg.Parser().(validate.NullParser); !ok {
		t.Errorf("expected NullParser, got %T", cfg.Parser())
	}
}

func TestWatchDirs(t *testing.T) {
	cfg := Default()
	got := cfg.WatchDirs("/proj")
	want := []string{filepath.Join("/proj", "specs")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	cfg.Paths.Changes = "work"
	cfg.Paths.Schemas = "specs/schemas"
	got = cfg.WatchDirs("/proj")
	want = []string{filepath.Join("/proj", "specs"), filepath.Join("/proj", "work")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
