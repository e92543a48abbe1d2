// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a harness for running CLI commands against throwaway
// projects and helpers for laying out managed directories.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/agentsync/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness provides a test harness for running E2E CLI tests.
// It isolates the user config and owns one project directory.
type Harness struct {
	t          *testing.T
	homeDir    string
	configPath string
	project    *Fixture
}

// NewHarness creates a new E2E test harness with an empty project and an
// empty user config, so the developer's own settings never leak in.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()
	configPath := filepath.Join(homeDir, "config.yaml")
	if err := os.WriteFile(configPath, nil, 0o600); err != nil {
		t.Fatalf("failed to write user config: %v", err)
	}

	for _, key := range []string{
		"AGENTSYNC_MANAGED_DIR",
		"AGENTSYNC_IGNORE_FILE",
		"AGENTSYNC_SKIP_CLEANUP",
		"AGENTSYNC_OUTPUT_FORMAT",
		"AGENTSYNC_OUTPUT_COLOR",
		"AGENTSYNC_OUTPUT_VERBOSE",
	} {
		t.Setenv(key, "")
	}

	return &Harness{
		t:          t,
		homeDir:    homeDir,
		configPath: configPath,
		project:    NewFixture(t, t.TempDir()),
	}
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ConfigPath returns the user config file passed to every command.
func (h *Harness) ConfigPath() string {
	return h.configPath
}

// Project returns the fixture for the project under test.
func (h *Harness) Project() *Fixture {
	return h.project
}

// Sync runs "agentsync sync" against the project with extra flags.
func (h *Harness) Sync(flags ...string) *Result {
	h.t.Helper()
	return h.Run(append([]string{"sync", "--root", h.project.Root()}, flags...)...)
}

// Run executes a CLI command with the given arguments and captures the output.
// Global flags pin the user config and disable colors.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	args = append([]string{"agentsync", "--no-color", "--config", h.configPath}, args...)

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Drain concurrently so large reports cannot fill the pipe buffer.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
