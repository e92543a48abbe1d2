package model

import (
	"fmt"
	"strings"
)

// Issue is one validation finding, addressed by a path into a document.
// The first path element names the document (config.json, rules/foo.md, ...).
type Issue struct {
	Path    []string `json:"path" yaml:"path"`
	Message string   `json:"message" yaml:"message"`
	Value   any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// String renders the issue as "a.b.c: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(i.Path, "."), i.Message)
}

// ValidationResult aggregates structural errors and semantic notices.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []Issue  `json:"errors" yaml:"errors"`
	Warnings []Issue  `json:"warnings" yaml:"warnings"`
	Skipped  []string `json:"skipped" yaml:"skipped"`
}

// NewValidationResult returns a valid, empty result.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		Valid:    true,
		Errors:   []Issue{},
		Warnings: []Issue{},
		Skipped:  []string{},
	}
}

// AddError records an error and marks the result invalid.
func (r *ValidationResult) AddError(issue Issue) {
	r.Valid = false
	r.Errors = append(r.Errors, issue)
}

// AddWarning records a non-blocking finding.
func (r *ValidationResult) AddWarning(issue Issue) {
	r.Warnings = append(r.Warnings, issue)
}

// AddSkipped records a feature the target cannot represent.
func (r *ValidationResult) AddSkipped(feature string) {
	r.Skipped = append(r.Skipped, feature)
}
