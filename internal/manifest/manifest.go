// Package manifest persists which files a previous run generated for each
// target. It is the only authority for deciding that a path is safe to delete.
package manifest

import (
	"fmt"
	"sort"
	"time"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/writer"
)

const (
	// Version is the current version of the manifest format
	Version = 1
	// FileName is the name of the manifest file inside the managed directory
	FileName = ".manifest.json"
)

// Entry fingerprints one generated file. Symlinks store their target
// instead of a hash.
type Entry struct {
	Path   string         `json:"path"`
	Type   model.FileKind `json:"type"`
	Hash   string         `json:"hash,omitempty"`
	Target string         `json:"target,omitempty"`
}

// ToolManifest lists the files generated for one target.
type ToolManifest struct {
	Tool        string    `json:"tool"`
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Files       []Entry   `json:"files"`
}

// Manifest is the whole persisted document.
type Manifest struct {
	Version int                     `json:"version"`
	Tools   map[string]ToolManifest `json:"tools"`
}

// Empty returns a manifest with no tool history.
func Empty() Manifest {
	return Manifest{Version: Version, Tools: map[string]ToolManifest{}}
}

// Tool returns the entry for id, if any.
func (m Manifest) Tool(id string) (ToolManifest, bool) {
	tm, ok := m.Tools[id]
	return tm, ok
}

// WithTool returns a copy of m with tm merged in. Other tools' entries are
// carried over untouched and m itself is not modified.
func (m Manifest) WithTool(tm ToolManifest) Manifest {
	merged := Manifest{
		Version: Version,
		Tools:   make(map[string]ToolManifest, len(m.Tools)+1),
	}
	for id, existing := range m.Tools {
		merged.Tools[id] = existing
	}
	merged.Tools[tm.Tool] = tm
	return merged
}

// IDs returns the tool ids with history, sorted.
func (m Manifest) IDs() []string {
	ids := make([]string, 0, len(m.Tools))
	for id := range m.Tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Paths returns every recorded path, in recorded order.
func (tm ToolManifest) Paths() []string {
	paths := make([]string, 0, len(tm.Files))
	for _, f := range tm.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// BuildToolManifest fingerprints files with the writer's serialization rules.
// Raw content is never stored.
func BuildToolManifest(tool string, files []model.OutputFile, now time.Time) (ToolManifest, error) {
	tm := ToolManifest{
		Tool:        tool,
		Version:     Version,
		GeneratedAt: now.UTC(),
		Files:       make([]Entry, 0, len(files)),
	}

	for _, f := range files {
		entry := Entry{Path: f.Path, Type: f.Kind}
		if f.Kind == model.KindSymlink {
			entry.Target = f.Target
		} else {
			content, err := writer.Serialize(f)
			if err != nil {
				return ToolManifest{}, fmt.Errorf("failed to fingerprint %q: %w", f.Path, err)
			}
			entry.Hash = writer.Fingerprint(content)
		}
		tm.Files = append(tm.Files, entry)
	}
	return tm, nil
}

// SameFiles reports whether two tool manifests record identical entries.
func SameFiles(a, b ToolManifest) bool {
	if len(a.Files) != len(b.Files) {
		return false
	}
	for i := range a.Files {
		if a.Files[i] != b.Files[i] {
			return false
		}
	}
	return true
}
