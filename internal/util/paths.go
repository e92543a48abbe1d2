// Package util holds small filesystem and path helpers shared across agentsync.
//
//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName is used for directory names under the XDG base directories.
const AppName = "agentsync"

// ConfigDir returns the agentsync user configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// IsWithin reports whether path lies inside root (or is root itself).
// The comparison is by path segment, so /tmp/proj-old is not within /tmp/proj.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// IsStrictlyWithin reports whether path lies inside root and is not root.
func IsStrictlyWithin(root, path string) bool {
	return IsWithin(root, path) && filepath.Clean(root) != filepath.Clean(path)
}

// ResolveRelative joins a slash-separated relative path onto root and
// reports whether the result stays inside root.
func ResolveRelative(root, rel string) (string, bool) {
	if rel == "" || filepath.IsAbs(filepath.FromSlash(rel)) {
		return "", false
	}
	abs := filepath.Join(root, filepath.FromSlash(rel))
	return abs, IsStrictlyWithin(root, abs)
}

// Exists reports whether anything (file, directory, or dangling symlink) is at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
