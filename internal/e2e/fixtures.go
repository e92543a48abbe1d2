package e2e

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ManagedDir is the default managed directory inside a project.
const ManagedDir = ".agents"

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// Root returns the fixture base directory.
func (f *Fixture) Root() string {
	return f.baseDir
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteConfig writes the managed config.json.
func (f *Fixture) WriteConfig(content string) string {
	f.t.Helper()
	return f.WriteFile(filepath.Join(ManagedDir, "config.json"), content)
}

// WriteSettings writes the managed settings.json.
func (f *Fixture) WriteSettings(content string) string {
	f.t.Helper()
	return f.WriteFile(filepath.Join(ManagedDir, "settings.json"), content)
}

// WriteRule writes a managed rule scoped to globs.
func (f *Fixture) WriteRule(name, description string, globs []string, body string) string {
	f.t.Helper()

	var sb strings.Builder
	sb.WriteString("---\n")
	if description != "" {
		sb.WriteString("description: " + description + "\n")
	}
	sb.WriteString("paths:\n")
	for _, g := range globs {
		sb.WriteString("  - \"" + g + "\"\n")
	}
	sb.WriteString("---\n\n")
	sb.WriteString(body)

	return f.WriteFile(filepath.Join(ManagedDir, "rules", name+".md"), sb.String())
}

// WriteSkill writes a managed skill folder with its SKILL.md.
func (f *Fixture) WriteSkill(dir, name, description, content string) string {
	f.t.Helper()

	skillContent := "---\n"
	skillContent += "name: " + name + "\n"
	if description != "" {
		skillContent += "description: " + description + "\n"
	}
	skillContent += "---\n\n"
	skillContent += content

	return f.WriteFile(filepath.Join(ManagedDir, "skills", dir, "SKILL.md"), skillContent)
}

// Remove deletes a file or directory tree relative to the base.
func (f *Fixture) Remove(relPath string) {
	f.t.Helper()
	if err := os.RemoveAll(f.Path(relPath)); err != nil {
		f.t.Fatalf("failed to remove %s: %v", relPath, err)
	}
}

// Path returns the full path for a slash-separated relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(relPath))
}

// Exists returns true if anything, including a dangling symlink, is at relPath.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Lstat(f.Path(relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()

	// #nosec G304 - path is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(f.Path(relPath))
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", relPath, err)
	}

	return string(data)
}

// Readlink returns the target of the symlink at relPath.
func (f *Fixture) Readlink(relPath string) string {
	f.t.Helper()
	target, err := os.Readlink(f.Path(relPath))
	if err != nil {
		f.t.Fatalf("failed to read symlink %s: %v", relPath, err)
	}
	return target
}

// Snapshot records every regular file's content and every symlink's target
// under the fixture, keyed by slash-separated relative path.
func (f *Fixture) Snapshot() map[string]string {
	f.t.Helper()

	out := map[string]string{}
	err := filepath.WalkDir(f.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(f.baseDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "-> " + target
			return nil
		}
		// #nosec G304 - path comes from walking the fixture directory
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.t.Fatalf("failed to snapshot %s: %v", f.baseDir, err)
	}
	return out
}
