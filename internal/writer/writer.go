package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/util"
)

const (
	// DirPerm is the permission for created directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for written files (rw-r--r--)
	FilePerm = 0o644
)

// Writer writes output files under a root directory.
type Writer struct {
	root   string
	dryRun bool
}

// New creates a Writer rooted at root. With dryRun set, every file is
// classified but nothing is written.
func New(root string, dryRun bool) *Writer {
	return &Writer{root: root, dryRun: dryRun}
}

// WriteAll writes files in order and stops at the first failure.
func (w *Writer) WriteAll(files []model.OutputFile) ([]model.ChangeResult, error) {
	changes := make([]model.ChangeResult, 0, len(files))
	for _, f := range files {
		change, err := w.Write(f)
		if err != nil {
			return changes, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// Write makes one decision for f and applies it unless in preview mode.
func (w *Writer) Write(f model.OutputFile) (model.ChangeResult, error) {
	abs, ok := util.ResolveRelative(w.root, f.Path)
	if !ok {
		return model.ChangeResult{}, syncerr.Write(f.Path, errors.New("path escapes the project root"))
	}

	var (
		change model.ChangeResult
		err    error
	)
	if f.Kind == model.KindSymlink {
		change, err = w.writeSymlink(f, abs)
	} else {
		change, err = w.writeContent(f, abs)
	}
	if err != nil {
		return model.ChangeResult{}, err
	}

	logging.Debug("output classified",
		logging.Path(f.Path),
		logging.Action(string(change.Action)),
		logging.DryRun(w.dryRun),
	)
	return change, nil
}

func (w *Writer) writeSymlink(f model.OutputFile, abs string) (model.ChangeResult, error) {
	change := model.ChangeResult{Path: f.Path}

	info, err := os.Lstat(abs)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return change, syncerr.Write(f.Path, err)
	}

	if exists && info.Mode()&os.ModeSymlink != 0 {
		current, err := os.Readlink(abs)
		if err != nil {
			return change, syncerr.Write(f.Path, err)
		}
		if current == f.Target {
			change.Action = model.ActionUnchanged
			return change, nil
		}
	}

	change.Action = model.ActionCreate
	if exists {
		change.Action = model.ActionUpdate
	}
	if w.dryRun {
		return change, nil
	}

	if exists {
		if err := os.RemoveAll(abs); err != nil {
			return change, syncerr.Write(f.Path, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(abs), DirPerm); err != nil {
		return change, syncerr.Write(f.Path, err)
	}
	if err := os.Symlink(f.Target, abs); err != nil {
		return change, syncerr.Write(f.Path, err)
	}
	return change, nil
}

func (w *Writer) writeContent(f model.OutputFile, abs string) (model.ChangeResult, error) {
	change := model.ChangeResult{Path: f.Path}

	content, err := Serialize(f)
	if err != nil {
		return change, syncerr.Write(f.Path, err)
	}
	change.NewHash = Fingerprint(content)

	info, err := os.Lstat(abs)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return change, syncerr.Write(f.Path, err)
	}

	// Anything other than a regular file is replaced outright.
	replace := exists && !info.Mode().IsRegular()

	switch {
	case !exists:
		change.Action = model.ActionCreate
	case replace:
		change.Action = model.ActionUpdate
	default:
		// #nosec G304 - abs is confined to the project root
		existing, err := os.ReadFile(abs)
		if err != nil {
			return change, syncerr.Write(f.Path, err)
		}
		change.OldHash = Fingerprint(string(existing))
		if change.OldHash == change.NewHash {
			change.Action = model.ActionUnchanged
			return change, nil
		}
		change.Action = model.ActionUpdate
	}

	if w.dryRun {
		return change, nil
	}

	if replace {
		if err := os.RemoveAll(abs); err != nil {
			return change, syncerr.Write(f.Path, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(abs), DirPerm); err != nil {
		return change, syncerr.Write(f.Path, err)
	}
	// #nosec G306 - generated tool configuration is meant to be readable
	if err := os.WriteFile(abs, []byte(content), FilePerm); err != nil {
		return change, syncerr.Write(f.Path, fmt.Errorf("writing %d bytes: %w", len(content), err))
	}

	logging.Debug("wrote output file", logging.Path(f.Path), slog.Int("bytes", len(content)))
	return change, nil
}
