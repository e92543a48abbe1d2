package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir(t *testing.T) {
	if got := filepath.Base(ConfigDir()); got != AppName {
		t.Errorf("ConfigDir() should end in %q, got %q", AppName, ConfigDir())
	}
}

func TestIsWithin(t *testing.T) {
	tests := map[string]struct {
		root, path string
		want       bool
	}{
		"same dir":               {"/tmp/proj", "/tmp/proj", true},
		"child":                  {"/tmp/proj", "/tmp/proj/a/b", true},
		"parent":                 {"/tmp/proj", "/tmp", false},
		"sibling with prefix":    {"/tmp/proj", "/tmp/proj-old/file", false},
		"sibling exact":          {"/tmp/proj", "/tmp/proj-old", false},
		"dotdot escape":          {"/tmp/proj", "/tmp/proj/../other", false},
		"child named dotdot-ish": {"/tmp/proj", "/tmp/proj/..foo", true},
		"trailing separator":     {"/tmp/proj/", "/tmp/proj/x", true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsWithin(tt.root, tt.path); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
			}
		})
	}
}

func TestIsStrictlyWithin(t *testing.T) {
	if IsStrictlyWithin("/tmp/proj", "/tmp/proj") {
		t.Error("root itself is not strictly within root")
	}
	if !IsStrictlyWithin("/tmp/proj", "/tmp/proj/x") {
		t.Error("child should be strictly within root")
	}
}

func TestResolveRelative(t *testing.T) {
	root := "/tmp/proj"

	abs, ok := ResolveRelative(root, ".cursor/rules/a.mdc")
	if !ok || abs != filepath.Join(root, ".cursor", "rules", "a.mdc") {
		t.Errorf("ResolveRelative() = %q, %v", abs, ok)
	}

	for _, rel := range []string{"", "../escape.txt", "/etc/passwd", "."} {
		if _, ok := ResolveRelative(root, rel); ok {
			t.Errorf("ResolveRelative(%q) should be rejected", rel)
		}
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if !Exists(dir) {
		t.Error("temp dir should exist")
	}
	if Exists(filepath.Join(dir, "missing")) {
		t.Error("missing path should not exist")
	}

	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}
	if !Exists(link) {
		t.Error("dangling symlink should count as existing")
	}
}
