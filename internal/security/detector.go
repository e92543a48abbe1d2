// Package security flags secret-looking values in generated files that are
// committed to version control.
package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/writer"
)

// Pattern represents a pattern to detect sensitive data.
type Pattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

// Detector performs sensitive data detection with configurable patterns.
type Detector struct {
	patterns []Pattern
}

// keyValue matches key = value and "key": "value" forms, so JSON, TOML and
// YAML renderings are all covered.
func keyValue(keys, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(` + keys + `)['"]?\s*[:=]\s*['"]?` + value + `['"]?`)
}

// DefaultPatterns returns the built-in sensitive data patterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "API Key",
			Pattern:     keyValue(`api[_-]?key|apikey`, `[a-zA-Z0-9_\-]{16,}`),
			Description: "API key pattern detected",
		},
		{
			Name:        "Token",
			Pattern:     keyValue(`token|access[_-]?token|auth[_-]?token`, `[a-zA-Z0-9_\-\.]{16,}`),
			Description: "Authentication token pattern detected",
		},
		{
			Name:        "Password",
			Pattern:     keyValue(`password|passwd|pwd`, `[a-zA-Z0-9_\-@!#%^&*()]{8,}`),
			Description: "Password pattern detected",
		},
		{
			Name:        "AWS Access Key",
			Pattern:     regexp.MustCompile(`AKIA[A-Z0-9]{16}`),
			Description: "AWS access key detected",
		},
		{
			Name:        "GitHub Token",
			Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
			Description: "GitHub token detected",
		},
		{
			Name:        "Private Key",
			Pattern:     regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE\s+KEY-----`),
			Description: "Private key detected",
		},
		{
			Name:        "Generic Secret",
			Pattern:     keyValue(`secret|secret[_-]?key|client[_-]?secret`, `[a-zA-Z0-9_\-]{16,}`),
			Description: "Generic secret pattern detected",
		},
		{
			Name:        "Bearer Token",
			Pattern:     regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_\-\.]{20,}`),
			Description: "Bearer token detected",
		},
		{
			Name:        "Database Connection String",
			Pattern:     regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb|redis):\/\/[^:\s]+:[^@\s]+@`),
			Description: "Database connection string with credentials detected",
		},
	}
}

// NewDetector creates a new detector with the given patterns.
// If patterns is empty, uses DefaultPatterns().
func NewDetector(patterns []Pattern) *Detector {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Detector{patterns: patterns}
}

// Detection represents a single detection of sensitive data.
type Detection struct {
	Pattern     string
	Line        int
	Column      int
	Description string
}

// ScanContent scans content line by line. A line yields at most one
// detection per pattern.
func (d *Detector) ScanContent(content string) []Detection {
	if content == "" {
		return nil
	}

	var detections []Detection
	for i, line := range strings.Split(content, "\n") {
		if isFalsePositive(line) {
			continue
		}
		for _, p := range d.patterns {
			loc := p.Pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}
			detections = append(detections, Detection{
				Pattern:     p.Name,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Description: p.Description,
			})
		}
	}
	return detections
}

// ScanOutputs scans the serialized content of every non-symlink output and
// reports each detection as a warning issue. Matched text is never echoed.
func (d *Detector) ScanOutputs(outputs []model.OutputFile) []model.Issue {
	var issues []model.Issue
	for _, f := range outputs {
		if f.Kind == model.KindSymlink {
			continue
		}
		content, err := writer.Serialize(f)
		if err != nil {
			continue
		}
		for _, det := range d.ScanContent(content) {
			issues = append(issues, model.Issue{
				Path:    []string{f.Path, fmt.Sprintf("line %d", det.Line)},
				Message: det.Description + " in a version-controlled file",
			})
		}
	}
	return issues
}

// isFalsePositive checks if a line is likely a false positive.
func isFalsePositive(line string) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") {
		return true
	}

	// Placeholder values in documentation examples
	if strings.Contains(trimmed, ":") || strings.Contains(trimmed, "=") {
		parts := strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ':' || r == '='
		})
		if len(parts) >= 2 {
			valuePart := strings.ToLower(strings.TrimSpace(parts[1]))
			if strings.Contains(valuePart, "your_") ||
				strings.Contains(valuePart, "<your") ||
				strings.Contains(valuePart, "placeholder") ||
				strings.Contains(valuePart, "example_") ||
				strings.HasPrefix(valuePart, "\"xxx") ||
				strings.HasPrefix(valuePart, "'xxx") {
				return true
			}
		}
	}

	return false
}
