package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSpec = `# Auth

## Purpose
Authenticate users.

## Requirements

### Requirement: Login
The system SHALL accept valid credentials.

#### Scenario: Valid login
- WHEN a user submits valid credentials
- THEN a session is created
`

// writeFile creates path under root with content, making parent directories.
func writeFile(t *testing.T, root, path, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return full
}

func messages(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}

func hasMessage(issues []Issue, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, substr) {
			return true
		}
	}
	return false
}
