package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/agentsync/internal/export"
	"github.com/klauern/agentsync/internal/parser"
	"github.com/klauern/agentsync/internal/plugin"
	"github.com/klauern/agentsync/internal/plugin/builtin"
	"github.com/klauern/agentsync/internal/progress"
	"github.com/klauern/agentsync/internal/sync"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/ui"
)

// registry builds the plugin set for a command run.
var registry = builtin.Registry

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Generate tool configuration from the managed directory",
		UsageText: "agentsync sync [options]",
		Description: `Read the managed directory (.agents by default), validate it, and write
   each target tool's native configuration. Files a previous run generated but
   the current run no longer produces are removed.

   Without --tool, tools enabled in config.json are synced; when none are
   enabled every registered tool is synced.

   Examples:
     agentsync sync
     agentsync sync --tool claude --tool cursor
     agentsync sync --dry-run --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "Project root containing the managed directory",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:    "tool",
				Aliases: []string{"t"},
				Usage:   "Sync only this target (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without modifying files",
			},
			&cli.BoolFlag{
				Name:  "skip-cleanup",
				Usage: "Keep files that previous runs generated but this run no longer produces",
			},
			&cli.StringFlag{
				Name:  "managed-dir",
				Usage: "Managed directory relative to the root",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, yaml",
			},
		},
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg := configFrom(ctx)

	formatName := cfg.Output.Format
	if cmd.IsSet("format") {
		formatName = cmd.String("format")
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	opts := cfg.SyncOptions(cmd.String("root"))
	opts.Tools = cmd.StringSlice("tool")
	opts.DryRun = cmd.Bool("dry-run")
	if cmd.Bool("skip-cleanup") {
		opts.SkipCleanup = true
	}
	if dir := cmd.String("managed-dir"); dir != "" {
		opts.ManagedDir = dir
	}

	if format == export.FormatTable {
		tracker := progress.NewTracker(cmd.Root().ErrWriter)
		defer tracker.Close()
		opts.Progress = tracker.Update
	}

	results, syncErr := sync.New(registry()).Sync(ctx, opts)

	// Partial results still describe files already written.
	if syncErr == nil || len(results) > 0 {
		exporter := export.New(export.Options{
			Format:  format,
			DryRun:  opts.DryRun,
			Verbose: verbose(cmd, cfg),
		})
		if err := exporter.Export(results, cmd.Root().Writer); err != nil {
			return errors.Join(syncErr, fmt.Errorf("failed to render report: %w", err))
		}
	}

	return syncErr
}

func targetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "List registered target tools and their configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "Project root containing the managed directory",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "managed-dir",
				Usage: "Managed directory relative to the root",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)
			managedDir := cfg.Sync.ManagedDir
			if dir := cmd.String("managed-dir"); dir != "" {
				managedDir = dir
			}
			return listTargets(cmd.Root().Writer, registry(), filepath.Join(cmd.String("root"), managedDir))
		},
	}
}

func listTargets(w io.Writer, reg *plugin.Registry, managedDir string) error {
	state, err := parser.Read(managedDir)
	if err != nil && !errors.Is(err, syncerr.ErrNotFound) {
		return err
	}

	var sb strings.Builder
	sb.WriteString(ui.Heading("Targets"))
	sb.WriteString("\n")

	enabledAny := false
	for _, id := range reg.IDs() {
		enabled, tracked := false, true
		if state != nil {
			tc := state.Config.Tools[id]
			enabled = tc.Enabled
			tracked = tc.IsVersionControlled()
		}
		enabledAny = enabledAny || enabled

		status := ui.Dim("disabled")
		if enabled {
			status = ui.Success("enabled")
		}
		vc := "tracked"
		if !tracked {
			vc = "ignored"
		}
		fmt.Fprintf(&sb, "  %-10s %s, %s\n", id, status, vc)
	}

	if !enabledAny {
		sb.WriteString(ui.Dim("  no target enabled: sync writes every registered target"))
		sb.WriteString("\n")
	}

	_, err = io.WriteString(w, sb.String())
	return err
}
