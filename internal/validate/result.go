package validate

import "encoding/json"

// Kind classifies a validation record.
type Kind string

const (
	// KindStructural marks a missing required marker or field.
	KindStructural Kind = "structural"
	// KindEnum marks a value outside its allowed set.
	KindEnum Kind = "enum"
	// KindReference marks a declared path that does not exist on disk.
	KindReference Kind = "reference"
	// KindParse marks malformed manifest or schema content.
	KindParse Kind = "parse"
	// KindCapability marks a degraded-mode notice.
	KindCapability Kind = "capability"
)

// Issue is a single error or warning recorded against a file.
type Issue struct {
	// Message is the human-readable description.
	Message string
	// Line is the 1-based line number, or 0 when unknown.
	Line int
	// Kind classifies the issue.
	Kind Kind
}

// MarshalJSON renders an unknown line as null.
func (i Issue) MarshalJSON() ([]byte, error) {
	var line *int
	if i.Line > 0 {
		l := i.Line
		line = &l
	}
	return json.Marshal(struct {
		Message string `json:"message"`
		Line    *int   `json:"line"`
		Kind    Kind   `json:"kind"`
	}{i.Message, line, i.Kind})
}

// Result collects the errors and warnings for one file.
// Only the rule that created it adds records; callers read it through
// accessors that return copies.
type Result struct {
	path     string
	errors   []Issue
	warnings []Issue
}

// NewResult creates an empty result for path.
func NewResult(path string) *Result {
	return &Result{path: path}
}

// Path returns the file the result describes.
func (r *Result) Path() string {
	return r.path
}

// AddError records an error with no line number.
func (r *Result) AddError(kind Kind, message string) {
	r.AddErrorAt(0, kind, message)
}

// AddErrorAt records an error at line.
func (r *Result) AddErrorAt(line int, kind Kind, message string) {
	r.errors = append(r.errors, Issue{Message: message, Line: line, Kind: kind})
}

// AddWarning records a warning with no line number.
func (r *Result) AddWarning(kind Kind, message string) {
	r.AddWarningAt(0, kind, message)
}

// AddWarningAt records a warning at line.
func (r *Result) AddWarningAt(line int, kind Kind, message string) {
	r.warnings = append(r.warnings, Issue{Message: message, Line: line, Kind: kind})
}

// Errors returns a copy of the recorded errors.
func (r *Result) Errors() []Issue {
	return append(make([]Issue, 0, len(r.errors)), r.errors...)
}

// Warnings returns a copy of the recorded warnings.
func (r *Result) Warnings() []Issue {
	return append(make([]Issue, 0, len(r.warnings)), r.warnings...)
}

// Valid is true iff no errors were recorded. Warnings never invalidate.
func (r *Result) Valid() bool {
	return len(r.errors) == 0
}

// HasIssues reports whether any error or warning was recorded.
func (r *Result) HasIssues() bool {
	return len(r.errors) > 0 || len(r.warnings) > 0
}
