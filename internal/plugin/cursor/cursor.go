// Package cursor exports the unified state into Cursor's project layout.
package cursor

import (
	"fmt"
	"strings"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/plugin"
)

// ID is the identifier of the Cursor target.
const ID = "cursor"

// Output locations, relative to the project root.
const (
	RulesDir = ".cursor/rules"
	MCPFile  = ".cursor/mcp.json"
)

// Plugin implements plugin.Plugin for Cursor.
type Plugin struct{}

// New returns the Cursor plugin.
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

	if len(state.Skills) > 0 {
		result.AddSkipped("skills")
	}
	if state.HasPermissions() {
		result.AddSkipped("permissions")
	}
	if state.Agents != nil {
		result.AddSkipped("instructions")
	}

	for _, rule := range state.Rules {
		if rule.Description() == "" {
			result.AddWarning(model.Issue{
				Path:    []string{rule.Path, "description"},
				Message: "Cursor uses the description to decide when to attach a rule",
			})
		}
	}
	return result
}

// Export implements plugin.Plugin.
func (p *Plugin) Export(state *model.UnifiedState, _ string) ([]model.OutputFile, error) {
	var files []model.OutputFile

	for _, rule := range state.Rules {
		fm := map[string]any{
			"description": rule.Description(),
			"globs":       strings.Join(rule.Globs(), ","),
			"alwaysApply": false,
		}
		content, err := plugin.RenderMarkdown(fm, rule.Content)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Path, err)
		}
		files = append(files, model.TextFile(RulesDir+"/"+rule.Name()+".mdc", content))
	}

	if state.HasMCPServers() {
		files = append(files, model.JSONFile(MCPFile, plugin.MCPDocument(state.Settings.MCPServers, "")))
	}

	return files, nil
}
