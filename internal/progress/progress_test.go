package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/klauern/agentsync/internal/ui"
)

func TestNew_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := New(Options{Max: 3, Description: "Syncing", Writer: &buf})

	if b.Enabled() {
		t.Fatal("bar should be disabled for a non-terminal writer")
	}
	if err := b.Step("claude"); err != nil {
		t.Errorf("Step() error = %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Errorf("Finish() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote output: %q", buf.String())
	}
}

func TestShouldShowProgress_NoColor(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	if shouldShowProgress(os.Stderr) {
		t.Error("progress must be hidden when colors are disabled")
	}
}

func TestShouldShowProgress_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if shouldShowProgress(f) {
		t.Error("progress must be hidden when writing to a regular file")
	}
}

func TestTracker(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf)

	tr.Update("claude", 1, 2)
	if tr.bar == nil {
		t.Fatal("first update should create the bar")
	}
	first := tr.bar
	tr.Update("cursor", 2, 2)
	if tr.bar != first {
		t.Error("bar should be reused across updates")
	}
	tr.Close()

	if buf.Len() != 0 {
		t.Errorf("tracker wrote to a non-terminal: %q", buf.String())
	}
}

func TestTracker_CloseWithoutUpdates(t *testing.T) {
	NewTracker(&bytes.Buffer{}).Close()
}
