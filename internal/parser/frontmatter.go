package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frontmatter delimiters.
const (
	delimYAML = "---"
	delimTOML = "+++"
)

// FrontmatterResult contains the parsed frontmatter and remaining content.
type FrontmatterResult struct {
	// Frontmatter contains the raw frontmatter bytes (YAML or TOML)
	Frontmatter []byte
	// Delimiter is the fence that enclosed the frontmatter ("---" or "+++")
	Delimiter string
	// Content contains the remaining content after frontmatter
	Content string
	// HasFrontmatter indicates whether frontmatter was found
	HasFrontmatter bool
}

// SplitFrontmatter extracts frontmatter from content.
// Supports both --- (YAML) and +++ (TOML) delimiters.
// Returns the frontmatter bytes, remaining content, and whether frontmatter was found.
func SplitFrontmatter(content []byte) FrontmatterResult {
	// Check for YAML frontmatter (---)
	if bytes.HasPrefix(content, []byte("---\n")) || bytes.HasPrefix(content, []byte("---\r\n")) {
		return extractFrontmatter(content, []byte(delimYAML))
	}

	// Check for alternative frontmatter (+++)
	if bytes.HasPrefix(content, []byte("+++\n")) || bytes.HasPrefix(content, []byte("+++\r\n")) {
		return extractFrontmatter(content, []byte(delimTOML))
	}

	// No frontmatter found
	return FrontmatterResult{
		Frontmatter:    nil,
		Content:        string(content),
		HasFrontmatter: false,
	}
}

// extractFrontmatter extracts frontmatter between delimiters.
func extractFrontmatter(content []byte, delimiter []byte) FrontmatterResult {
	// Skip opening delimiter
	remaining := content[len(delimiter):]

	// Handle both \n and \r\n line endings
	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else if bytes.HasPrefix(remaining, []byte("\n")) {
		remaining = remaining[1:]
	}

	// Find closing delimiter
	// First check if it's right at the start (empty frontmatter case)
	var frontmatter []byte
	var bodyStart int
	delimFound := false

	if bytes.HasPrefix(remaining, delimiter) {
		// Empty frontmatter case: ---\n---\n
		frontmatter = []byte{}
		bodyStart = len(delimiter)
		delimFound = true
	} else {
		// Try to find closing delimiter preceded by newline
		// Try Unix line ending first
		closingDelim := append([]byte("\n"), delimiter...)
		idx := bytes.Index(remaining, closingDelim)
		if idx != -1 {
			frontmatter = remaining[:idx]
			bodyStart = idx + len(closingDelim)
			delimFound = true
		} else {
			// Try Windows line ending
			closingDelim = append([]byte("\r\n"), delimiter...)
			idx = bytes.Index(remaining, closingDelim)
			if idx != -1 {
				frontmatter = remaining[:idx]
				bodyStart = idx + len(closingDelim)
				delimFound = true
			}
		}
	}

	if !delimFound {
		// No closing delimiter found, treat entire content as no frontmatter
		return FrontmatterResult{
			Frontmatter:    nil,
			Content:        string(content),
			HasFrontmatter: false,
		}
	}

	// Normalize frontmatter by removing \r from Windows line endings
	cleanFrontmatter := bytes.ReplaceAll(frontmatter, []byte("\r\n"), []byte("\n"))
	cleanFrontmatter = bytes.TrimRight(cleanFrontmatter, "\r")

	// Skip trailing newline after closing delimiter
	if bodyStart < len(remaining) {
		if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
			bodyStart += 2
		} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
			bodyStart++
		}
	}

	var body string
	if bodyStart < len(remaining) {
		body = string(remaining[bodyStart:])
	}

	return FrontmatterResult{
		Frontmatter:    cleanFrontmatter,
		Delimiter:      string(delimiter),
		Content:        body,
		HasFrontmatter: true,
	}
}

// ParseYAMLFrontmatter parses YAML frontmatter into a map.
func ParseYAMLFrontmatter(frontmatter []byte) (map[string]interface{}, error) {
	if len(frontmatter) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(frontmatter, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	if result == nil {
		result = make(map[string]interface{})
	}

	return result, nil
}

// ParseTOMLFrontmatter parses TOML frontmatter into a map.
func ParseTOMLFrontmatter(frontmatter []byte) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if len(frontmatter) == 0 {
		return result, nil
	}

	if _, err := toml.Decode(string(frontmatter), &result); err != nil {
		return nil, fmt.Errorf("failed to parse TOML frontmatter: %w", err)
	}

	return result, nil
}

// ParseFrontmatter splits content and decodes its frontmatter with the
// decoder matching the delimiter. Content without frontmatter yields an
// empty map and the whole text as body.
func ParseFrontmatter(content []byte) (map[string]interface{}, string, error) {
	split := SplitFrontmatter(content)
	if !split.HasFrontmatter {
		return make(map[string]interface{}), split.Content, nil
	}

	var (
		fm  map[string]interface{}
		err error
	)
	if split.Delimiter == delimTOML {
		fm, err = ParseTOMLFrontmatter(split.Frontmatter)
	} else {
		fm, err = ParseYAMLFrontmatter(split.Frontmatter)
	}
	if err != nil {
		return nil, "", err
	}
	return fm, split.Content, nil
}

// NormalizeContent trims excessive whitespace from content.
func NormalizeContent(content string) string {
	// Trim leading/trailing whitespace
	trimmed := strings.TrimSpace(content)

	// Normalize line endings to \n
	normalized := strings.ReplaceAll(trimmed, "\r\n", "\n")

	return normalized
}
