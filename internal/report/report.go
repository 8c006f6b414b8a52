// Package report renders validation results as text for people or JSON
// for CI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ShayCichocki/specskills/internal/validate"
)

// Summary is the aggregate of a validation run.
type Summary struct {
	Valid      bool         `json:"valid"`
	TotalFiles int          `json:"totalFiles"`
	Errors     int          `json:"errors"`
	Warnings   int          `json:"warnings"`
	Results    []FileReport `json:"results"`
}

// FileReport is the per-file detail of a Summary.
type FileReport struct {
	File     string           `json:"file"`
	Valid    bool             `json:"valid"`
	Errors   []validate.Issue `json:"errors"`
	Warnings []validate.Issue `json:"warnings"`
}

// Summarize aggregates results. An empty run is valid.
func Summarize(results []*validate.Result) Summary {
	s := Summary{
		Valid:      true,
		TotalFiles: len(results),
		Results:    make([]FileReport, 0, len(results)),
	}
	for _, r := range results {
		errs := r.Errors()
		warns := r.Warnings()
		s.Valid = s.Valid && r.Valid()
		s.Errors += len(errs)
		s.Warnings += len(warns)
		s.Results = append(s.Results, FileReport{
			File:     r.Path(),
			Valid:    r.Valid(),
			Errors:   errs,
			Warnings: warns,
		})
	}
	return s
}

// WriteJSON writes the summary of results as indented JSON.
func WriteJSON(w io.Writer, results []*validate.Result) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Verdict lines printed at the end of a text report.
const (
	VerdictFailed   = "Validation failed"
	VerdictWarnings = "Validation passed with warnings"
	VerdictPassed   = "All validations passed"
	ruleWidth       = 60
)

// Printer writes text reports.
type Printer struct {
	color bool
}

// NewPrinter creates a printer. With useColor false the output is plain
// text regardless of the terminal.
func NewPrinter(useColor bool) *Printer {
	return &Printer{color: useColor}
}

// WriteText prints every file that has errors or warnings, then a summary
// footer and the verdict.
func (p *Printer) WriteText(w io.Writer, results []*validate.Result) error {
	errTag := p.tagColor(color.FgRed)
	warnTag := p.tagColor(color.FgYellow)

	var b strings.Builder
	for _, r := range results {
		if !r.HasIssues() {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", r.Path())
		for _, issue := range r.Errors() {
			fmt.Fprintf(&b, "  %s %s\n", errTag.Sprint(tag("ERROR", issue.Line)), issue.Message)
		}
		for _, issue := range r.Warnings() {
			fmt.Fprintf(&b, "  %s %s\n", warnTag.Sprint(tag("WARNING", issue.Line)), issue.Message)
		}
	}

	s := Summarize(results)
	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintf(&b, "Total: %d files checked\n", s.TotalFiles)
	fmt.Fprintf(&b, "Errors: %d, Warnings: %d\n", s.Errors, s.Warnings)
	fmt.Fprintf(&b, "\n%s\n", p.verdict(w, s))

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *Printer) tagColor(attr color.Attribute) *color.Color {
	c := color.New(attr, color.Bold)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *Printer) verdict(w io.Writer, s Summary) string {
	text, fg := VerdictPassed, "10"
	switch {
	case !s.Valid:
		text, fg = VerdictFailed, "9"
	case s.Warnings > 0:
		text, fg = VerdictWarnings, "11"
	}
	if !p.color {
		return text
	}
	style := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color(fg))
	return style.Render(text)
}

// tag renders "[ERROR]" or "[ERROR:12]".
func tag(label string, line int) string {
	if line > 0 {
		return fmt.Sprintf("[%s:%d]", label, line)
	}
	return "[" + label + "]"
}
