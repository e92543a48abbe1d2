// Package cleanup removes files that a previous run generated but the current
// export no longer produces.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/manifest"
	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/util"
)

// Orphans returns the previous entries whose path is not in current.
// Only path strings are compared; recorded order is kept.
func Orphans(previous manifest.ToolManifest, current []model.OutputFile) []manifest.Entry {
	keep := make(map[string]struct{}, len(current))
	for _, f := range current {
		keep[f.Path] = struct{}{}
	}

	var orphans []manifest.Entry
	for _, entry := range previous.Files {
		if _, ok := keep[entry.Path]; ok {
			continue
		}
		orphans = append(orphans, entry)
	}
	return orphans
}

// Engine deletes orphans below a root directory.
type Engine struct {
	root   string
	dryRun bool
}

// New creates an Engine. Nothing above root is ever deleted or pruned.
func New(root string, dryRun bool) *Engine {
	return &Engine{root: filepath.Clean(root), dryRun: dryRun}
}

// Remove deletes each orphan and prunes parent directories left empty.
// In preview mode the same results are returned without touching disk.
func (e *Engine) Remove(orphans []manifest.Entry) ([]model.ChangeResult, error) {
	var changes []model.ChangeResult

	for _, entry := range orphans {
		abs, ok := util.ResolveRelative(e.root, entry.Path)
		if !ok {
			logging.Warn("skipping orphan outside project root", logging.Path(entry.Path))
			continue
		}

		info, err := os.Lstat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return changes, syncerr.Write(entry.Path, err)
		}
		if info.IsDir() {
			logging.Debug("orphan is a directory, leaving it in place", logging.Path(entry.Path))
			continue
		}

		if !e.dryRun {
			if err := os.Remove(abs); err != nil {
				return changes, syncerr.Write(entry.Path, fmt.Errorf("failed to remove orphan: %w", err))
			}
			e.prune(filepath.Dir(abs))
		}

		logging.Debug("orphan removed",
			logging.Path(entry.Path),
			logging.DryRun(e.dryRun),
		)
		changes = append(changes, model.ChangeResult{
			Path:    entry.Path,
			Action:  model.ActionDelete,
			OldHash: entry.Hash,
		})
	}

	return changes, nil
}

// prune removes empty directories from dir upward, stopping before root.
func (e *Engine) prune(dir string) {
	for util.IsStrictlyWithin(e.root, dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			logging.Debug("failed to prune directory", logging.Path(dir), logging.Err(err))
			return
		}
		dir = filepath.Dir(dir)
	}
}
