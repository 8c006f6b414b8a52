// Package version exposes the specskills release number embedded from the
// VERSION file.
package version

import (
	_ "embed"
	"strings"
)

// Dev is reported when the embedded VERSION file is empty.
const Dev = "dev"

//go:embed VERSION
var versionContent string

// Get returns the release number with surrounding whitespace removed.
func Get() string {
	return parse(versionContent)
}

func parse(content string) string {
	v := strings.TrimSpace(content)
	if v == "" {
		return Dev
	}
	return v
}
