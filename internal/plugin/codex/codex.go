// Package codex exports the unified state into the Codex CLI project layout.
package codex

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/parser"
	"github.com/klauern/agentsync/internal/plugin"
)

// ID is the identifier of the Codex target.
const ID = "codex"

// Output locations, relative to the project root.
const (
	InstructionsFile = "AGENTS.md"
	SkillsDir        = ".codex/skills"
	ConfigFile       = ".codex/config.toml"
)

// Plugin implements plugin.Plugin for Codex.
type Plugin struct {
	titleCaser cases.Caser
}

// New returns the Codex plugin.
func New() *Plugin {
	return &Plugin{titleCaser: cases.Title(language.English)}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string {
	return ID
}

// Validate implements plugin.Plugin.
func (p *Plugin) Validate(state *model.UnifiedState) model.ValidationResult {
	result := model.NewValidationResult()

	if state.HasPermissions() {
		result.AddSkipped("permissions")
	}
	for _, rule := range state.Rules {
		if len(rule.Globs()) > 0 {
			result.AddWarning(model.Issue{
				Path:    []string{rule.Path, "paths"},
				Message: "Codex has no path-scoped rules; the rule is always included in AGENTS.md",
				Value:   rule.Globs(),
			})
		}
	}
	return result
}

// Export implements plugin.Plugin.
func (p *Plugin) Export(state *model.UnifiedState, rootDir string) ([]model.OutputFile, error) {
	var files []model.OutputFile

	if instructions := p.instructions(state); instructions != "" {
		files = append(files, model.TextFile(InstructionsFile, instructions))
	}

	for _, skill := range state.Skills {
		files = append(files, model.SymlinkFile(
			SkillsDir+"/"+skill.Dir(),
			"../../"+state.SourcePath(parser.SkillsDir, skill.Dir()),
		))
	}

	config, err := p.config(state, rootDir)
	if err != nil {
		return nil, err
	}
	if config != "" {
		files = append(files, model.TextFile(ConfigFile, config))
	}

	return files, nil
}

// instructions concatenates the freeform document and one section per rule.
func (p *Plugin) instructions(state *model.UnifiedState) string {
	var sections []string

	if state.Agents != nil {
		if text := strings.TrimSpace(*state.Agents); text != "" {
			sections = append(sections, text)
		}
	}

	for _, rule := range state.Rules {
		var sb strings.Builder
		sb.WriteString("## ")
		sb.WriteString(p.title(rule.Name()))
		sb.WriteString("\n")
		if globs := rule.Globs(); len(globs) > 0 {
			sb.WriteString("\nApplies to: `")
			sb.WriteString(strings.Join(globs, "`, `"))
			sb.WriteString("`\n")
		}
		if rule.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(rule.Content)
			sb.WriteString("\n")
		}
		sections = append(sections, strings.TrimSpace(sb.String()))
	}

	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func (p *Plugin) title(name string) string {
	return p.titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}

// config renders config.toml with generated MCP servers layered over the
// user's override file. It returns "" when there is nothing to write.
func (p *Plugin) config(state *model.UnifiedState, rootDir string) (string, error) {
	base := map[string]any{}

	data, found, err := plugin.ReadOverride(state, rootDir, ID, "config.toml")
	if err != nil {
		return "", err
	}
	if found {
		if _, err := toml.Decode(string(data), &base); err != nil {
			return "", fmt.Errorf("invalid override %s: %w", plugin.OverridePath(state, ID, "config.toml"), err)
		}
	}

	if !found && !state.HasMCPServers() {
		return "", nil
	}

	doc := base
	if state.HasMCPServers() {
		doc = plugin.DeepMerge(base, map[string]any{"mcp_servers": mcpServers(state.Settings.MCPServers)})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Generated by agentsync. Put local settings in %s.\n\n", plugin.OverridePath(state, ID, "config.toml"))
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", ConfigFile, err)
	}
	return buf.String(), nil
}

func mcpServers(servers map[string]model.MCPServer) map[string]any {
	out := make(map[string]any, len(servers))
	for name, s := range servers {
		entry := map[string]any{}
		if s.Command != "" {
			entry["command"] = s.Command
		}
		if len(s.Args) > 0 {
			entry["args"] = s.Args
		}
		if len(s.Env) > 0 {
			entry["env"] = s.Env
		}
		if s.URL != "" {
			entry["url"] = s.URL
		}
		if len(s.Headers) > 0 {
			entry["http_headers"] = s.Headers
		}
		out[name] = entry
	}
	return out
}
