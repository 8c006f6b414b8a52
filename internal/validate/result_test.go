package validate

import (
	"encoding/json"
	"testing"
)

func TestResult_ValidTracksErrorsOnly(t *testing.T) {
	r := NewResult("specs/auth/spec.md")
	if !r.Valid() {
		t.Fatal("expected new result to be valid")
	}
	if r.HasIssues() {
		t.Error("expected new result to have no issues")
	}

	r.AddWarning(KindStructural, "just a warning")
	if !r.Valid() {
		t.Error("warnings must not invalidate a result")
	}
	if !r.HasIssues() {
		t.Error("expected HasIssues after a warning")
	}

	r.AddError(KindEnum, "bad value")
	if r.Valid() {
		t.Error("expected result to be invalid after an error")
	}
}

func TestResult_KeepsRepeatedRecords(t *testing.T) {
	r := NewResult("schema.yaml")
	r.AddError(KindStructural, `Schema missing "name" field`)
	r.AddError(KindStructural, `Schema missing "name" field`)
	r.AddWarningAt(3, KindStructural, "w")
	r.AddWarningAt(3, KindStructural, "w")

	if got := len(r.Errors()); got != 2 {
		t.Errorf("expected 2 errors, got %d: %v", got, messages(r.Errors()))
	}
	if got := len(r.Warnings()); got != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", got, messages(r.Warnings()))
	}
}

func TestResult_AccessorsReturnCopies(t *testing.T) {
	r := NewResult("x")
	r.AddError(KindParse, "original")

	errs := r.Errors()
	errs[0].Message = "mutated"

	if r.Errors()[0].Message != "original" {
		t.Error("mutating the returned slice changed the result")
	}
	if r.Warnings() == nil {
		t.Error("expected empty, non-nil warnings slice")
	}
}

func TestIssue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "unknown line is null",
			issue: Issue{Message: "m", Kind: KindStructural},
			want:  `{"message":"m","line":null,"kind":"structural"}`,
		},
		{
			name:  "known line is a number",
			issue: Issue{Message: "m", Line: 7, Kind: KindParse},
			want:  `{"message":"m","line":7,"kind":"parse"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.issue)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
		})
	}
}
