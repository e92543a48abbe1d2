package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauern/agentsync/internal/cleanup"
	"github.com/klauern/agentsync/internal/gitignore"
	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/manifest"
	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/parser"
	"github.com/klauern/agentsync/internal/plugin"
	"github.com/klauern/agentsync/internal/security"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/validation"
	"github.com/klauern/agentsync/internal/writer"
)

// DefaultIgnoreFile is the ignore file kept in step with generated outputs.
const DefaultIgnoreFile = ".gitignore"

// Options configures one sync run.
type Options struct {
	// RootDir is the project root. Outputs are written relative to it.
	RootDir string

	// Tools restricts the run to these target ids. Every id must be registered.
	Tools []string

	// DryRun classifies every change without touching disk.
	DryRun bool

	// SkipCleanup leaves orphaned outputs in place.
	SkipCleanup bool

	// ManagedDir is the source directory relative to RootDir (default ".agents").
	ManagedDir string

	// IgnoreFile is the ignore file relative to RootDir (default ".gitignore").
	IgnoreFile string

	// Progress, when set, is called after each target completes.
	Progress ProgressFunc
}

// ProgressFunc receives the target just completed and the run's position.
type ProgressFunc func(tool string, done, total int)

// DefaultOptions returns options for a full sync of the current directory.
func DefaultOptions() Options {
	return Options{
		RootDir:    ".",
		ManagedDir: parser.DefaultDir,
		IgnoreFile: DefaultIgnoreFile,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.RootDir == "" {
		o.RootDir = "."
	}
	root, err := filepath.Abs(o.RootDir)
	if err != nil {
		return o, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	o.RootDir = root

	if o.ManagedDir == "" {
		o.ManagedDir = parser.DefaultDir
	}
	if filepath.IsAbs(o.ManagedDir) {
		rel, err := filepath.Rel(root, o.ManagedDir)
		if err != nil {
			return o, fmt.Errorf("failed to resolve managed directory: %w", err)
		}
		o.ManagedDir = rel
	}

	if o.IgnoreFile == "" {
		o.IgnoreFile = DefaultIgnoreFile
	}
	return o, nil
}

// Syncer runs the pipeline against the plugins of one registry.
type Syncer struct {
	registry *plugin.Registry
	secrets  *security.Detector
	now      func() time.Time
}

// New creates a Syncer resolving targets from registry.
func New(registry *plugin.Registry) *Syncer {
	return &Syncer{
		registry: registry,
		secrets:  security.NewDetector(nil),
		now:      time.Now,
	}
}

// Sync runs the pipeline once. It returns one result per target processed,
// in working set order. Results gathered before a failure are returned with
// the error.
func (s *Syncer) Sync(ctx context.Context, opts Options) ([]Result, error) {
	defer logging.Timer("sync")()
	log := logging.WithContext(ctx)

	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	log.Debug("starting sync operation",
		logging.Operation("sync"),
		logging.Path(opts.RootDir),
		logging.DryRun(opts.DryRun),
		slog.Any("tools", opts.Tools),
	)

	if err := s.checkRequested(opts.Tools); err != nil {
		return nil, err
	}

	managedDir := filepath.Join(opts.RootDir, opts.ManagedDir)
	state, err := parser.Read(managedDir)
	if err != nil {
		return nil, err
	}
	state.SourceDir = filepath.ToSlash(opts.ManagedDir)

	structural := validation.Validate(state, validation.Options{KnownTools: s.registry.IDs()})
	if !structural.Valid {
		return nil, syncerr.Validation("source directory is invalid", structural.Errors...)
	}

	targets := s.workingSet(state, opts.Tools)
	log.Debug("resolved working set", slog.Any("targets", targets))

	store := manifest.NewStore(managedDir)
	history, hasHistory := store.Read().Recognized()
	if !hasHistory {
		history = manifest.Empty()
	}

	var (
		results = make([]Result, 0, len(targets))
		updated = history
		exports = make(map[string][]model.OutputFile, len(targets))
		claimed = make(map[string]struct{})
		out     = writer.New(opts.RootDir, opts.DryRun)
		sweeper = cleanup.New(opts.RootDir, opts.DryRun)
	)

	for i, id := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p, _ := s.registry.Get(id)
		result, outputs, err := s.syncTarget(log, p, state, history, hasHistory, claimed, out, sweeper, opts)
		if err != nil {
			log.Error("target failed", logging.Target(id), logging.Err(err))
			return results, err
		}
		results = append(results, result)
		exports[id] = outputs
		for _, f := range outputs {
			claimed[f.Path] = struct{}{}
		}
		log.Info("target synced",
			logging.Target(id),
			logging.Count(result.TotalChanged()),
			logging.DryRun(opts.DryRun),
		)

		tm, err := manifest.BuildToolManifest(id, outputs, s.now())
		if err != nil {
			return results, syncerr.Plugin(id, err)
		}
		if prev, ok := history.Tool(id); ok && manifest.SameFiles(prev, tm) {
			tm.GeneratedAt = prev.GeneratedAt
		}
		updated = updated.WithTool(tm)

		if opts.Progress != nil {
			opts.Progress(id, i+1, len(targets))
		}
	}

	if opts.DryRun {
		return results, nil
	}

	if err := store.Write(updated); err != nil {
		return results, syncerr.Write(store.Path(), err)
	}

	ignored := ignoredPaths(state.Config, exports, updated)
	ignorePath := filepath.Join(opts.RootDir, opts.IgnoreFile)
	if _, err := gitignore.Sync(ignorePath, ignored); err != nil {
		return results, syncerr.Write(opts.IgnoreFile, err)
	}

	log.Debug("sync operation completed",
		logging.Count(len(results)),
		logging.Path(opts.RootDir),
	)
	return results, nil
}

// syncTarget exports, cleans up and writes one target. Paths in claimed were
// written by an earlier target this run and are never treated as orphans.
func (s *Syncer) syncTarget(
	log *slog.Logger,
	p plugin.Plugin,
	state *model.UnifiedState,
	history manifest.Manifest,
	hasHistory bool,
	claimed map[string]struct{},
	out *writer.Writer,
	sweeper *cleanup.Engine,
	opts Options,
) (Result, []model.OutputFile, error) {
	id := p.ID()
	result := Result{Tool: id, Changes: []model.ChangeResult{}}

	result.Validation = p.Validate(state)
	for _, w := range result.Validation.Warnings {
		log.Debug("target warning", logging.Target(id), slog.String("warning", w.String()))
	}

	outputs, err := p.Export(state, opts.RootDir)
	if err != nil {
		return result, nil, syncerr.Plugin(id, err)
	}
	if err := checkUnique(outputs); err != nil {
		return result, nil, syncerr.Plugin(id, err)
	}
	log.Debug("exported target", logging.Target(id), logging.Count(len(outputs)))

	if state.Config.Tools[id].IsVersionControlled() {
		for _, issue := range s.secrets.ScanOutputs(outputs) {
			log.Warn("possible secret in generated file", logging.Target(id), slog.String("location", issue.String()))
			result.Validation.AddWarning(issue)
		}
	}

	if hasHistory && !opts.SkipCleanup {
		if prev, ok := history.Tool(id); ok {
			deleted, err := sweeper.Remove(unclaimed(cleanup.Orphans(prev, outputs), claimed))
			result.Changes = append(result.Changes, deleted...)
			if err != nil {
				return result, nil, err
			}
		}
	}

	written, err := out.WriteAll(outputs)
	result.Changes = append(result.Changes, written...)
	if err != nil {
		return result, nil, err
	}

	return result, outputs, nil
}

// checkRequested fails when any requested id is not registered.
func (s *Syncer) checkRequested(requested []string) error {
	var issues []model.Issue
	var unknown []string
	for _, id := range requested {
		if !s.registry.Has(id) {
			unknown = append(unknown, id)
			issues = append(issues, model.Issue{
				Path:    []string{"tools", id},
				Message: "unknown target",
				Value:   id,
			})
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	return syncerr.Validation(fmt.Sprintf("unknown target(s) %s in request [%s]; known targets: %s",
		strings.Join(unknown, ", "),
		strings.Join(requested, ", "),
		strings.Join(s.registry.IDs(), ", "),
	), issues...)
}

// workingSet picks the targets for this run: the explicit request, else the
// enabled targets, else every registered target.
func (s *Syncer) workingSet(state *model.UnifiedState, requested []string) []string {
	if len(requested) > 0 {
		seen := make(map[string]bool, len(requested))
		var ids []string
		for _, id := range requested {
			if s.registry.Has(id) && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		return ids
	}

	enabled := make(map[string]bool)
	for _, id := range state.Config.EnabledTools() {
		enabled[id] = true
	}

	var ids []string
	for _, id := range s.registry.IDs() {
		if enabled[id] {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		logging.Debug("no targets enabled, syncing every registered target")
		return s.registry.IDs()
	}
	return ids
}

// ignoredPaths collects the outputs of every target that is not
// version-controlled. Targets not processed this run contribute their
// manifest history.
func ignoredPaths(cfg model.Config, exports map[string][]model.OutputFile, m manifest.Manifest) []string {
	var paths []string
	for id, tc := range cfg.Tools {
		if tc.IsVersionControlled() {
			continue
		}
		if outputs, ok := exports[id]; ok {
			paths = append(paths, model.Paths(outputs)...)
			continue
		}
		if tm, ok := m.Tool(id); ok {
			paths = append(paths, tm.Paths()...)
		}
	}
	return gitignore.Normalize(paths)
}

// unclaimed drops orphans that another target already wrote this run.
func unclaimed(orphans []manifest.Entry, claimed map[string]struct{}) []manifest.Entry {
	var kept []manifest.Entry
	for _, entry := range orphans {
		if _, ok := claimed[entry.Path]; ok {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func checkUnique(outputs []model.OutputFile) error {
	seen := make(map[string]bool, len(outputs))
	for _, f := range outputs {
		if !f.Kind.IsValid() {
			return fmt.Errorf("output %q has unknown type %q", f.Path, f.Kind)
		}
		if seen[f.Path] {
			return fmt.Errorf("output %q produced more than once", f.Path)
		}
		seen[f.Path] = true
	}
	return nil
}
