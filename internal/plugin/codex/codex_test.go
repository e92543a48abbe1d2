package codex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/agentsync/internal/model"
)

func testState() *model.UnifiedState {
	state := model.NewUnifiedState()
	agents := "# Project\n\nBe concise.\n"
	state.Agents = &agents
	state.Rules = []model.RuleDoc{{
		Path:        "rules/go-style.md",
		Frontmatter: map[string]any{"paths": []any{"**/*.go", "cmd/**"}},
		Content:     "Use gofmt.",
	}}
	state.Skills = []model.SkillDoc{{Path: "skills/deploy/SKILL.md"}}
	state.Settings = &model.Settings{
		Permissions: &model.Permissions{Allow: []string{"Read"}},
		MCPServers: map[string]model.MCPServer{
			"fs": {Command: "mcp-fs", Args: []string{"--root", "."}, Env: map[string]string{"DEBUG": "1"}},
		},
	}
	return state
}

func TestExport_Instructions(t *testing.T) {
	files, err := New().Export(testState(), t.TempDir())
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "AGENTS.md", files[0].Path)
	want := "# Project\n\nBe concise.\n\n## Go Style\n\nApplies to: `**/*.go`, `cmd/**`\n\nUse gofmt.\n"
	assert.Equal(t, want, files[0].Text)

	assert.Equal(t, model.SymlinkFile(".codex/skills/deploy", "../../.agents/skills/deploy"), files[1])
}

func TestExport_Config(t *testing.T) {
	files, err := New().Export(testState(), t.TempDir())
	require.NoError(t, err)

	config := files[2]
	require.Equal(t, ".codex/config.toml", config.Path)
	assert.Contains(t, config.Text, "# Generated by agentsync.")

	var decoded struct {
		MCPServers map[string]struct {
			Command string            `toml:"command"`
			Args    []string          `toml:"args"`
			Env     map[string]string `toml:"env"`
		} `toml:"mcp_servers"`
	}
	_, err = toml.Decode(config.Text, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "mcp-fs", decoded.MCPServers["fs"].Command)
	assert.Equal(t, []string{"--root", "."}, decoded.MCPServers["fs"].Args)
	assert.Equal(t, "1", decoded.MCPServers["fs"].Env["DEBUG"])
}

func TestExport_ConfigOverride(t *testing.T) {
	root := t.TempDir()
	override := filepath.Join(root, ".agents", "overrides", "codex", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(override), 0o750))
	require.NoError(t, os.WriteFile(override, []byte(`model = "o3"

[mcp_servers.local]
command = "local-server"
`), 0o600))

	files, err := New().Export(testState(), root)
	require.NoError(t, err)

	var decoded map[string]any
	_, err = toml.Decode(files[2].Text, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "o3", decoded["model"])
	servers := decoded["mcp_servers"].(map[string]any)
	assert.Contains(t, servers, "local")
	assert.Contains(t, servers, "fs")
}

func TestExport_NoInstructionsNoConfig(t *testing.T) {
	files, err := New().Export(model.NewUnifiedState(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTitle(t *testing.T) {
	p := New()
	assert.Equal(t, "Go Style", p.title("go-style"))
	assert.Equal(t, "Api Errors", p.title("api_errors"))
}

func TestValidate(t *testing.T) {
	result := New().Validate(testState())

	assert.True(t, result.Valid)
	assert.Equal(t, []string{"permissions"}, result.Skipped)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, []string{"rules/go-style.md", "paths"}, result.Warnings[0].Path)
}
