package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fromMarker = regexp.MustCompile(`(?i)\*\*FROM:\*\*|FROM:`)
	toMarker   = regexp.MustCompile(`(?i)\*\*TO:\*\*|TO:`)
)

// CheckSpec checks the structural markers of a spec document. Every check
// runs regardless of the outcome of the others.
func CheckSpec(path, content string, rules Rules) *Result {
	result := NewResult(path)

	for _, header := range rules.RequiredHeaders() {
		if !strings.Contains(content, header) {
			result.AddError(KindStructural, "Missing required header: "+header)
		}
	}

	keywords := rules.RequirementKeywords()
	if !containsAny(content, keywords) {
		result.AddError(KindStructural,
			fmt.Sprintf("No requirements found (must use %s)", humanList(keywords)))
	}

	marker := rules.ScenarioMarker()
	if !strings.Contains(content, marker) {
		result.AddError(KindStructural,
			fmt.Sprintf("No scenarios found (must use %q)", marker))
	}

	deltas := rules.DeltaHeaders()
	if !containsAny(content, deltas) {
		result.AddWarning(KindStructural,
			fmt.Sprintf("No delta sections found (%s)", humanList(deltaNames(deltas))))
	}

	checkRenamed(result, content, rules.RenamedHeader())

	return result
}

// checkRenamed inspects the text between the first RENAMED header and the
// next one (or the end of the document) for FROM:/TO: markers.
func checkRenamed(result *Result, content, header string) {
	idx := strings.Index(content, header)
	if idx < 0 {
		return
	}
	section := content[idx+len(header):]
	if next := strings.Index(section, header); next >= 0 {
		section = section[:next]
	}
	if !fromMarker.MatchString(section) || !toMarker.MatchString(section) {
		result.AddWarningAt(lineOf(content, idx), KindStructural,
			"RENAMED Requirements should use FROM:/TO: format")
	}
}

func containsAny(content string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(content, needle) {
			return true
		}
	}
	return false
}

// deltaNames reduces "## ADDED Requirements" to "ADDED".
func deltaNames(headers []string) []string {
	names := make([]string, 0, len(headers))
	for _, h := range headers {
		name := strings.TrimSpace(strings.TrimLeft(h, "#"))
		name = strings.TrimSpace(strings.TrimSuffix(name, "Requirements"))
		names = append(names, name)
	}
	return names
}

// humanList joins items as "a", "a or b", or "a, b, or c".
func humanList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

// lineOf returns the 1-based line containing byte offset off.
func lineOf(content string, off int) int {
	if off > len(content) {
		off = len(content)
	}
	return strings.Count(content[:off], "\n") + 1
}
