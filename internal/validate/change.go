package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/ShayCichocki/specskills/pkg/models"
)

// CheckChange validates a change workspace: its manifest first, then every
// nested spec under <dir>/specs. A missing manifest yields a single result
// and nothing else is checked.
func CheckChange(dir string, rules Rules) ([]*Result, error) {
	manifestPath := filepath.Join(dir, rules.ManifestFile())

	data, err := os.ReadFile(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		result := NewResult(manifestPath)
		result.AddError(KindStructural, fmt.Sprintf("Missing %s file", rules.ManifestFile()))
		return []*Result{result}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}

	result := NewResult(manifestPath)
	manifest := checkManifest(result, dir, rules.ManifestFile(), data)
	if manifest != nil {
		logf("change %s: %d artifacts tracked", dir, len(manifest.Artifacts))
	}
	results := []*Result{result}

	nested, err := checkNestedSpecs(filepath.Join(dir, "specs"), rules)
	if err != nil {
		return nil, err
	}
	return append(results, nested...), nil
}

// checkManifest records manifest problems on result and returns the decoded
// manifest, or nil when the content is not valid JSON.
func checkManifest(result *Result, dir, file string, data []byte) *models.ChangeManifest {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		result.AddErrorAt(jsonErrorLine(data, err), KindParse, "Invalid JSON: "+err.Error())
		return nil
	}

	doc := gjson.ParseBytes(data)
	manifest, hasArtifacts := decodeManifest(doc)

	switch {
	case manifest.Name == "":
		result.AddError(KindStructural, fmt.Sprintf(`%s missing "name" field`, file))
	case !models.IsKebabCase(manifest.Name):
		result.AddError(KindEnum, fmt.Sprintf("%s name must be kebab-case: %s", file, manifest.Name))
	}

	if manifest.Schema == "" {
		result.AddError(KindStructural, fmt.Sprintf(`%s missing "schema" field`, file))
	}

	if !hasArtifacts {
		result.AddError(KindStructural, fmt.Sprintf(`%s missing "artifacts" object`, file))
		return manifest
	}

	for _, state := range manifest.Artifacts {
		checkArtifact(result, dir, state)
	}
	return manifest
}

// decodeManifest reads a manifest document into the model. Absent or falsy
// values decode to empty strings; other scalars keep their JSON text.
// Artifacts keep document order. The second return reports whether
// artifacts is an object.
func decodeManifest(doc gjson.Result) (*models.ChangeManifest, bool) {
	manifest := &models.ChangeManifest{}
	if !doc.IsObject() {
		return manifest, false
	}

	manifest.Name = text(doc.Get("name"))
	manifest.Schema = text(doc.Get("schema"))

	artifacts := doc.Get("artifacts")
	if !artifacts.IsObject() {
		return manifest, false
	}
	artifacts.ForEach(func(key, entry gjson.Result) bool {
		state := models.ArtifactState{ID: key.String()}
		if entry.IsObject() {
			state.Status = models.ArtifactStatus(text(entry.Get("status")))
			state.Path = text(entry.Get("path"))
		}
		manifest.Artifacts = append(manifest.Artifacts, state)
		return true
	})
	return manifest, true
}

// checkArtifact validates one tracked artifact. A done artifact with a
// path must exist relative to the change workspace.
func checkArtifact(result *Result, dir string, state models.ArtifactState) {
	switch {
	case state.Status == "":
		result.AddError(KindStructural, fmt.Sprintf(`Artifact %s missing "status" field`, state.ID))
		return
	case !state.Status.Valid():
		result.AddError(KindEnum, fmt.Sprintf("Artifact %s has invalid status: %s", state.ID, state.Status))
		return
	}

	if !state.RequiresFile() {
		return
	}
	target := filepath.Join(dir, filepath.FromSlash(state.Path))
	if _, err := os.Stat(target); err != nil {
		result.AddError(KindReference,
			fmt.Sprintf("Artifact %s marked as done but file not found: %s", state.ID, state.Path))
	}
}

// checkNestedSpecs validates <specsDir>/<sub>/<spec file> for every
// immediate subdirectory.
func checkNestedSpecs(specsDir string, rules Rules) ([]*Result, error) {
	dirs, err := listDirs(specsDir, nil)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, name := range dirs {
		result, err := checkSpecIn(filepath.Join(specsDir, name), rules)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// text returns the string form of a present value, or "" when r is absent
// or falsy.
func text(r gjson.Result) string {
	if !present(r) {
		return ""
	}
	return r.String()
}

// present mirrors JSON truthiness: null, false, "" and 0 count as absent.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

// jsonErrorLine maps a syntax error offset to a 1-based line number.
func jsonErrorLine(data []byte, err error) int {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return 0
	}
	return lineOf(string(data), int(syntaxErr.Offset))
}
