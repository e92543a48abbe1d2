// Package gitignore maintains the agentsync block inside a project's ignore file.
package gitignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/klauern/agentsync/internal/logging"
)

const (
	// BeginMarker opens the managed block.
	BeginMarker = "# BEGIN agentsync managed"
	// EndMarker closes the managed block.
	EndMarker = "# END agentsync managed"
)

// Normalize sorts paths and drops duplicates and blanks.
func Normalize(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Render returns existing with its managed block replaced by paths.
// Lines outside the block are kept as they are, and the file keeps the line
// ending of its first line. An empty set removes the block.
func Render(existing string, paths []string) string {
	paths = Normalize(paths)
	eol := lineEnding(existing)

	var lines []string
	if existing != "" {
		lines = strings.Split(strings.TrimSuffix(strings.ReplaceAll(existing, "\r\n", "\n"), "\n"), "\n")
	}

	block := make([]string, 0, len(paths)+2)
	if len(paths) > 0 {
		block = append(block, BeginMarker)
		block = append(block, paths...)
		block = append(block, EndMarker)
	}

	start, end := findBlock(lines)
	switch {
	case start >= 0:
		rest := append([]string{}, lines[end+1:]...)
		lines = append(append(lines[:start:start], block...), rest...)
		if len(block) == 0 {
			lines = trimTrailingBlank(lines)
		}
	case len(block) > 0:
		lines = trimTrailingBlank(lines)
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, eol) + eol
}

// lineEnding returns "\r\n" when the first line of content ends that way.
func lineEnding(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// findBlock locates the marker lines. A begin marker without a matching end
// marker is treated as a one-line block so user lines after it survive.
func findBlock(lines []string) (int, int) {
	start := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			if start < 0 {
				start = i
			}
		case EndMarker:
			if start >= 0 {
				return start, i
			}
		}
	}
	return start, start
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Sync rewrites the ignore file at path so its managed block lists paths.
// The file is written only when its content changes, and a missing file is
// not created for an empty set. It reports whether the file was written.
func Sync(path string, paths []string) (bool, error) {
	// #nosec G304 - path is the project's ignore file
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to read ignore file: %w", err)
	}
	missing := err != nil

	paths = Normalize(paths)
	if missing && len(paths) == 0 {
		return false, nil
	}

	existing := string(data)
	updated := Render(existing, paths)
	if updated == existing {
		return false, nil
	}

	// #nosec G306 - ignore files are committed alongside the project
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("failed to write ignore file: %w", err)
	}

	logging.Debug("ignore file updated", logging.Path(path), logging.Count(len(paths)))
	return true, nil
}
