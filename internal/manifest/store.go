package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauern/agentsync/internal/logging"
)

// Status tells how a manifest read went.
type Status int

const (
	// StatusAbsent means no manifest file exists.
	StatusAbsent Status = iota
	// StatusRecognized means the manifest was read and understood.
	StatusRecognized
	// StatusUnrecognized means a file exists but could not be used.
	StatusUnrecognized
)

// String returns a readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusRecognized:
		return "recognized"
	case StatusUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Snapshot is the outcome of reading the manifest. Only a recognized
// snapshot carries history; the others mean cleanup is skipped.
type Snapshot struct {
	Status   Status
	manifest Manifest
	// Reason explains an unrecognized snapshot.
	Reason error
}

// Recognized returns the manifest and true when history is usable.
func (s Snapshot) Recognized() (Manifest, bool) {
	if s.Status != StatusRecognized {
		return Manifest{}, false
	}
	return s.manifest, true
}

// Store reads and writes the manifest file.
type Store struct {
	path string
}

// NewStore returns a store for the manifest inside managedDir.
func NewStore(managedDir string) *Store {
	return &Store{path: filepath.Join(managedDir, FileName)}
}

// Path returns the manifest file location.
func (s *Store) Path() string {
	return s.path
}

// Read loads the manifest. It never fails: absent, unreadable, garbled or
// unknown-version files all yield a snapshot without history.
func (s *Store) Read() Snapshot {
	// #nosec G304 - path is inside the managed directory
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{Status: StatusAbsent}
		}
		return s.unrecognized(fmt.Errorf("failed to read manifest: %w", err))
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return s.unrecognized(fmt.Errorf("failed to parse manifest: %w", err))
	}
	if m.Version != Version {
		return s.unrecognized(fmt.Errorf("unsupported manifest version %d", m.Version))
	}
	if m.Tools == nil {
		m.Tools = map[string]ToolManifest{}
	}
	return Snapshot{Status: StatusRecognized, manifest: m}
}

func (s *Store) unrecognized(reason error) Snapshot {
	logging.Warn("ignoring manifest, cleanup skipped for this run",
		logging.Path(s.path),
		logging.Err(reason),
	)
	return Snapshot{Status: StatusUnrecognized, Reason: reason}
}

// Write persists the whole manifest.
func (s *Store) Write(m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	m.Version = Version
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')

	// #nosec G306 - manifest is metadata and can be group-readable
	if err := os.WriteFile(s.path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
