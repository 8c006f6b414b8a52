package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/specskills/pkg/models"
)

// ErrParserUnavailable is returned by NullParser.Parse.
var ErrParserUnavailable = errors.New("structured parser unavailable")

// StructuredParser turns schema text into a generic value tree
// (maps, slices, scalars).
type StructuredParser interface {
	// Available reports whether Parse does real work.
	Available() bool
	// Parse decodes content. Syntax problems are returned as errors.
	Parse(content string) (any, error)
}

// YAMLParser parses schema definitions with yaml.v3.
type YAMLParser struct{}

// Available always returns true.
func (YAMLParser) Available() bool { return true }

// Parse decodes the first YAML document in content.
func (YAMLParser) Parse(content string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(content), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// NullParser stands in when deep schema validation is disabled.
type NullParser struct{}

// Available always returns false.
func (NullParser) Available() bool { return false }

// Parse always fails with ErrParserUnavailable.
func (NullParser) Parse(string) (any, error) { return nil, ErrParserUnavailable }

const basicOnlyNotice = "YAML parser unavailable, using basic validation only. " +
	"Enable deep validation for enhanced schema validation."

var yamlErrLine = regexp.MustCompile(`^yaml: line (\d+):`)

// CheckSchema validates a schema definition. The textual baseline always
// runs; structural checks run only when parser is available.
func CheckSchema(path, content string, parser StructuredParser, rules Rules) *Result {
	result := NewResult(path)

	if !strings.Contains(content, "name:") {
		result.AddError(KindStructural, `Schema missing "name" field`)
	}
	if !strings.Contains(content, "artifacts:") {
		result.AddError(KindStructural, `Schema missing "artifacts" array`)
	}

	if parser == nil || !parser.Available() {
		if rules.StrictSchemas() {
			result.AddError(KindCapability, basicOnlyNotice)
		} else {
			result.AddWarning(KindCapability, basicOnlyNotice)
		}
		return result
	}

	doc, err := parser.Parse(content)
	if err != nil {
		result.AddErrorAt(parseErrorLine(err), KindParse, "Invalid YAML: "+err.Error())
		return result
	}

	def, ok := decodeSchema(result, doc)
	if !ok {
		return result
	}
	if dups := models.DuplicateIDs(def.IDs()); len(dups) > 0 {
		result.AddError(KindStructural, "Duplicate artifact IDs: "+strings.Join(dups, ", "))
	}
	logf("schema %s (%s): %d artifact ids", def.Name, path, len(def.Artifacts))
	return result
}

// decodeSchema walks the generic document into a SchemaDefinition,
// recording an error for a missing name or artifact sequence. It returns
// false when there is no artifact sequence to inspect.
func decodeSchema(result *Result, doc any) (*models.SchemaDefinition, bool) {
	def := &models.SchemaDefinition{}

	name, _ := lookup(doc, "name")
	if !truthy(name) {
		result.AddError(KindStructural, `Schema missing "name" field`)
	} else {
		def.Name = scalarString(name)
	}

	raw, _ := lookup(doc, "artifacts")
	items, isSeq := raw.([]any)
	if !isSeq {
		result.AddError(KindStructural, `Schema missing "artifacts" array`)
		return def, false
	}

	for _, item := range items {
		// Elements without an id take no part in the duplicate check.
		if id, _ := lookup(item, "id"); id != nil {
			def.Artifacts = append(def.Artifacts, models.SchemaArtifact{ID: scalarString(id)})
		}
	}
	return def, true
}

// lookup reads key from a decoded mapping of either key type.
func lookup(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[any]any:
		val, ok := m[key]
		return val, ok
	default:
		return nil, false
	}
}

// truthy treats nil, "", false and numeric zero as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func parseErrorLine(err error) int {
	m := yamlErrLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
