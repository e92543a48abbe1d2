package manifest

import (
	"testing"
	"time"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/writer"
)

func TestBuildToolManifest(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	files := []model.OutputFile{
		model.TextFile("AGENTS.md", "# Hi\n"),
		model.JSONFile(".mcp.json", map[string]any{"mcpServers": map[string]any{}}),
		model.SymlinkFile("CLAUDE.md", ".agents/AGENTS.md"),
	}

	tm, err := BuildToolManifest("claude", files, now)
	if err != nil {
		t.Fatalf("BuildToolManifest() error = %v", err)
	}

	if tm.Tool != "claude" || tm.Version != Version || !tm.GeneratedAt.Equal(now) {
		t.Errorf("unexpected header: %+v", tm)
	}
	if len(tm.Files) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(tm.Files))
	}

	if tm.Files[0].Hash != writer.Fingerprint("# Hi\n") || tm.Files[0].Target != "" {
		t.Errorf("text entry should carry content fingerprint: %+v", tm.Files[0])
	}

	serialized, _ := writer.Serialize(files[1])
	if tm.Files[1].Hash != writer.Fingerprint(serialized) {
		t.Errorf("json entry should fingerprint serialized form: %+v", tm.Files[1])
	}

	if tm.Files[2].Target != ".agents/AGENTS.md" || tm.Files[2].Hash != "" {
		t.Errorf("symlink entry should carry target only: %+v", tm.Files[2])
	}
	if tm.Files[2].Type != model.KindSymlink {
		t.Errorf("symlink entry type = %q", tm.Files[2].Type)
	}
}

func TestWithToolLeavesOthersUntouched(t *testing.T) {
	base := Empty().
		WithTool(ToolManifest{Tool: "claude", Version: Version, Files: []Entry{{Path: "CLAUDE.md"}}}).
		WithTool(ToolManifest{Tool: "cursor", Version: Version, Files: []Entry{{Path: ".cursor/mcp.json"}}})

	updated := base.WithTool(ToolManifest{Tool: "claude", Version: Version, Files: []Entry{{Path: ".claude/settings.json"}}})

	if got := updated.Tools["claude"].Files[0].Path; got != ".claude/settings.json" {
		t.Errorf("claude entry not replaced: %q", got)
	}
	if got := updated.Tools["cursor"].Files[0].Path; got != ".cursor/mcp.json" {
		t.Errorf("cursor entry changed: %q", got)
	}
	if got := base.Tools["claude"].Files[0].Path; got != "CLAUDE.md" {
		t.Errorf("receiver was mutated: %q", got)
	}

	ids := updated.IDs()
	if len(ids) != 2 || ids[0] != "claude" || ids[1] != "cursor" {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestSameFiles(t *testing.T) {
	a := ToolManifest{Files: []Entry{{Path: "x", Type: model.KindText, Hash: "1"}}}
	b := ToolManifest{Files: []Entry{{Path: "x", Type: model.KindText, Hash: "1"}}, GeneratedAt: time.Now()}
	c := ToolManifest{Files: []Entry{{Path: "x", Type: model.KindText, Hash: "2"}}}

	if !SameFiles(a, b) {
		t.Error("entries are identical, timestamps must not matter")
	}
	if SameFiles(a, c) {
		t.Error("different hashes should differ")
	}
	if SameFiles(a, ToolManifest{}) {
		t.Error("different lengths should differ")
	}
}
