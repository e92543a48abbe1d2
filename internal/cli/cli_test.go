package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/syncerr"
	"github.com/klauern/agentsync/internal/ui"
)

// run executes the app with captured output streams.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(context.Background(), append([]string{"agentsync"}, args...))
	return stdout.String(), stderr.String(), err
}

// newProject lays out a managed directory enabling claude.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".agents", "config.json"), `{"tools": {"claude": {"enabled": true}}}`)
	writeFile(t, filepath.Join(root, ".agents", "AGENTS.md"), "# Project\n\nBe concise.\n")
	writeFile(t, filepath.Join(root, ".agents", "rules", "go.md"), "---\npaths:\n  - \"**/*.go\"\n---\nUse gofmt.\n")
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestConfigureLogging(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantLevel slog.Level
	}{
		"no flags only shows warnings": {
			args:      []string{"version"},
			wantLevel: slog.LevelWarn,
		},
		"verbose flag enables info level": {
			args:      []string{"--verbose", "version"},
			wantLevel: slog.LevelInfo,
		},
		"debug flag enables debug level": {
			args:      []string{"--debug", "version"},
			wantLevel: slog.LevelDebug,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.NoError(t, err)

			ctx := context.Background()
			logger := logging.Default()
			assert.True(t, logger.Enabled(ctx, tt.wantLevel), "level %v should be enabled", tt.wantLevel)
			assert.False(t, logger.Enabled(ctx, tt.wantLevel-1), "level below %v should be filtered", tt.wantLevel)
		})
	}
}

func TestLogJSON(t *testing.T) {
	_, stderr, err := run(t, "--debug", "--log-json", "version")
	require.NoError(t, err)

	line, _, _ := strings.Cut(strings.TrimSpace(stderr), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "stderr: %s", stderr)
	assert.Equal(t, "logging configured", entry["msg"])
}

func TestAllCommandsRegistered(t *testing.T) {
	stdout, _, err := run(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"version", "sync", "targets", "config"} {
		assert.Contains(t, stdout, name)
	}
}

func TestSyncCommand_JSON(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "--no-color", "sync", "--root", root, "--format", "json")
	require.NoError(t, err)

	var results []struct {
		Tool    string `json:"tool"`
		Changes []struct {
			Path   string `json:"path"`
			Action string `json:"action"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &results), "stdout: %s", stdout)
	require.Len(t, results, 1)
	assert.Equal(t, "claude", results[0].Tool)

	actions := map[string]string{}
	for _, c := range results[0].Changes {
		actions[c.Path] = c.Action
	}
	assert.Equal(t, "create", actions["CLAUDE.md"])
	assert.Equal(t, "create", actions[".claude/rules/go.md"])

	target, err := os.Readlink(filepath.Join(root, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, ".agents/AGENTS.md", target)
	assert.FileExists(t, filepath.Join(root, ".agents", ".manifest.json"))
}

func TestSyncCommand_Table(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "--no-color", "sync", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "claude\n")
	assert.Contains(t, stdout, "+ CLAUDE.md")

	stdout, _, err = run(t, "--no-color", "sync", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")
	assert.NotContains(t, stdout, "+ CLAUDE.md")
}

func TestSyncCommand_DryRun(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "--no-color", "sync", "--root", root, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run")
	assert.NoFileExists(t, filepath.Join(root, ".agents", ".manifest.json"))
	_, statErr := os.Lstat(filepath.Join(root, "CLAUDE.md"))
	assert.True(t, os.IsNotExist(statErr), "dry run must not write CLAUDE.md")
}

func TestSyncCommand_ToolFlag(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "sync", "--root", root, "--tool", "codex", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tool: codex")
	assert.NotContains(t, stdout, "tool: claude")
	assert.FileExists(t, filepath.Join(root, "AGENTS.md"))
}

func TestSyncCommand_UnknownTool(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "sync", "--root", root, "--tool", "vim")
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerr.ErrValidation), "got %v", err)
	assert.Contains(t, err.Error(), "vim")
	assert.Empty(t, stdout)
	assert.NoFileExists(t, filepath.Join(root, ".agents", ".manifest.json"))
}

func TestSyncCommand_MissingManagedDir(t *testing.T) {
	_, _, err := run(t, "sync", "--root", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, syncerr.ErrNotFound), "got %v", err)
}

func TestSyncCommand_InvalidFormat(t *testing.T) {
	root := newProject(t)

	_, _, err := run(t, "sync", "--root", root, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.NoFileExists(t, filepath.Join(root, ".agents", ".manifest.json"))
}

func TestSyncCommand_ConfigFile(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "agents-src", "config.json"), `{"tools": {"cursor": {"enabled": true}}}`)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfgPath, "sync:\n  managed_dir: agents-src\noutput:\n  format: json\n  color: never\n")

	stdout, _, err := run(t, "--config", cfgPath, "sync", "--root", root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "["), "expected JSON report, got %q", stdout)
	assert.Contains(t, stdout, `"tool": "cursor"`)
	assert.False(t, ui.IsColorEnabled())
	assert.FileExists(t, filepath.Join(root, "agents-src", ".manifest.json"))
}

func TestTargetsCommand(t *testing.T) {
	root := newProject(t)

	stdout, _, err := run(t, "--no-color", "targets", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Targets")
	assert.Regexp(t, `claude\s+enabled, tracked`, stdout)
	assert.Regexp(t, `codex\s+disabled, tracked`, stdout)
	assert.Regexp(t, `cursor\s+disabled, tracked`, stdout)
	assert.NotContains(t, stdout, "no target enabled")
}

func TestTargetsCommand_NoManagedDir(t *testing.T) {
	stdout, _, err := run(t, "--no-color", "targets", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "no target enabled")
}

func TestSyncCommand_VerboseLogsTargets(t *testing.T) {
	root := newProject(t)

	_, stderr, err := run(t, "--no-color", "--verbose", "sync", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "target synced")
	assert.Contains(t, stderr, "target=claude")
}

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"success":          {nil, ExitOK},
		"plain error":      {errors.New("boom"), ExitFailure},
		"write failure":    {syncerr.Write("CLAUDE.md", errors.New("disk full")), ExitFailure},
		"plugin failure":   {syncerr.Plugin("claude", errors.New("bad")), ExitFailure},
		"invalid source":   {syncerr.Validation("source directory is invalid"), ExitInvalidSource},
		"missing source":   {fmt.Errorf("run: %w", syncerr.NotFound(".agents", "managed directory")), ExitInvalidSource},
		"unparsable input": {syncerr.Parse(".agents/config.json", errors.New("eof")), ExitInvalidSource},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCode_FromRun(t *testing.T) {
	_, _, err := run(t, "sync", "--root", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitInvalidSource, ExitCode(err))
}

func TestConfigCommand_InitShowPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, err := run(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", stdout)

	stdout, _, err = run(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+cfgPath)
	assert.FileExists(t, cfgPath)

	_, _, err = run(t, "--config", cfgPath, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	writeFile(t, cfgPath, "sync:\n  managed_dir: agents-src\n")
	stdout, _, err = run(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "managed_dir: agents-src")
	assert.Contains(t, stdout, "format: table")

	_, _, err = run(t, "--config", cfgPath, "config", "init", "--force")
	require.NoError(t, err)
	stdout, _, err = run(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "managed_dir: .agents")
}

func TestConfigCommand_InitDefaultLocation(t *testing.T) {
	stdout, _, err := run(t, "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(stdout)
	t.Cleanup(func() { _ = os.Remove(path) })

	_, _, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestMissingConfigFileUsesDefaults(t *testing.T) {
	root := newProject(t)
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")

	stdout, stderr, err := run(t, "--no-color", "--config", cfgPath, "sync", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "+ CLAUDE.md")
	assert.Contains(t, stderr, "config file not found")
	assert.NoFileExists(t, cfgPath)
}
