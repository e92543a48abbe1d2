// Package claude exports the unified state into Claude Code's project layout.
package claude

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/parser"
	"github.com/klauern/agentsync/internal/plugin"
)

// ID is the identifier of the Claude Code target.
const ID = "claude"

// Output locations, relative to the project root.
const (
	InstructionsFile = "CLAUDE.md"
	RulesDir         = ".claude/rules"
	SkillsDir        = ".claude/skills"
	SettingsFile     = ".claude/settings.json"
	MCPFile          = ".mcp.json"
)

// Plugin implements plugin.Plugin for Claude Code.
type Plugin struct{}

// New returns the Claude Code plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string {
	return ID
}

// Validate implements plugin.Plugin.
func (p *Plugin) Validate(state *model.UnifiedState) model.ValidationResult {
	result := model.NewValidationResult()

	for _, skill := range state.Skills {
		if name := skill.Name(); name != skill.Dir() {
			result.AddWarning(model.Issue{
				Path:    []string{skill.Path, "name"},
				Message: fmt.Sprintf("Claude Code loads skills by folder name %q", skill.Dir()),
				Value:   name,
			})
		}
	}
	return result
}

// Export implements plugin.Plugin.
func (p *Plugin) Export(state *model.UnifiedState, rootDir string) ([]model.OutputFile, error) {
	var files []model.OutputFile

	if state.Agents != nil {
		files = append(files, model.SymlinkFile(InstructionsFile, state.SourcePath(parser.AgentsFile)))
	}

	for _, rule := range state.Rules {
		fm := map[string]any{"paths": rule.Globs()}
		if desc := rule.Description(); desc != "" {
			fm["description"] = desc
		}
		content, err := plugin.RenderMarkdown(fm, rule.Content)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Path, err)
		}
		files = append(files, model.TextFile(RulesDir+"/"+rule.Name()+".md", content))
	}

	for _, skill := range state.Skills {
		files = append(files, model.SymlinkFile(
			SkillsDir+"/"+skill.Dir(),
			"../../"+state.SourcePath(parser.SkillsDir, skill.Dir()),
		))
	}

	settings, err := p.settings(state, rootDir)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		files = append(files, model.JSONFile(SettingsFile, settings))
	}

	if state.HasMCPServers() {
		files = append(files, model.JSONFile(MCPFile, plugin.MCPDocument(state.Settings.MCPServers, "http")))
	}

	return files, nil
}

// settings layers generated permissions over the user's override file.
// It returns nil when there is nothing to write.
func (p *Plugin) settings(state *model.UnifiedState, rootDir string) (map[string]any, error) {
	base := map[string]any{}

	data, found, err := plugin.ReadOverride(state, rootDir, ID, "settings.json")
	if err != nil {
		return nil, err
	}
	if found {
		base, err = decodeObject(data)
		if err != nil {
			return nil, fmt.Errorf("invalid override %s: %w", plugin.OverridePath(state, ID, "settings.json"), err)
		}
	}

	if !state.HasPermissions() {
		if !found {
			return nil, nil
		}
		return base, nil
	}

	generated := map[string]any{
		"permissions": plugin.PermissionsDocument(state.Settings.Permissions),
	}
	return plugin.DeepMerge(base, generated), nil
}

// decodeObject parses one JSON object, keeping numbers as json.Number so
// they are written back digit for digit.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}
