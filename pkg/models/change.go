package models

import "regexp"

// ArtifactStatus represents the lifecycle state of an artifact within a change.
type ArtifactStatus string

const (
	// ArtifactStatusBlocked indicates the artifact is waiting on another artifact.
	ArtifactStatusBlocked ArtifactStatus = "blocked"
	// ArtifactStatusReady indicates the artifact can be worked on.
	ArtifactStatusReady ArtifactStatus = "ready"
	// ArtifactStatusDone indicates the artifact has been written.
	ArtifactStatusDone ArtifactStatus = "done"
)

// Valid returns true if the status is a known value.
func (s ArtifactStatus) Valid() bool {
	switch s {
	case ArtifactStatusBlocked, ArtifactStatusReady, ArtifactStatusDone:
		return true
	default:
		return false
	}
}

var kebabCase = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsKebabCase reports whether name is lowercase alphanumeric segments joined
// by single hyphens.
func IsKebabCase(name string) bool {
	return kebabCase.MatchString(name)
}

// ChangeManifest is the status-tracking document of a change workspace,
// stored as .change.json.
type ChangeManifest struct {
	// Name is the kebab-case change identifier.
	Name string
	// Schema names the workflow schema the change follows.
	Schema string
	// Artifacts holds per-artifact state in manifest order.
	Artifacts []ArtifactState
}

// ArtifactState is one entry of a manifest's artifacts mapping.
type ArtifactState struct {
	// ID is the mapping key.
	ID string
	// Status is the raw status value; empty when absent.
	Status ArtifactStatus
	// Path is the artifact file, relative to the change workspace.
	Path string
}

// RequiresFile reports whether the artifact claims to be written to Path.
func (a ArtifactState) RequiresFile() bool {
	return a.Status == ArtifactStatusDone && a.Path != ""
}
