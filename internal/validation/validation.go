// Package validation performs structural checks on the managed source
// directory before any target plugin runs. It does not know about target
// tools beyond the optional list of known ids.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/klauern/agentsync/internal/model"
)

// Document names used as the first element of issue paths.
const (
	configDoc   = "config.json"
	settingsDoc = "settings.json"
)

// Options configures validation behavior.
type Options struct {
	// KnownTools lists registered tool ids. When non-empty, config entries for
	// other ids are dropped without being checked.
	KnownTools []string
}

// Validate runs every structural check and concatenates their findings.
// All checks always run.
func Validate(state *model.UnifiedState, opts Options) model.ValidationResult {
	result := model.NewValidationResult()

	var issues []model.Issue
	issues = append(issues, ValidateConfig(state.RawConfig, opts.KnownTools)...)
	issues = append(issues, ValidateSettings(state.RawSettings)...)
	for _, rule := range state.Rules {
		issues = append(issues, ValidateRule(rule)...)
	}
	for _, skill := range state.Skills {
		issues = append(issues, ValidateSkill(skill)...)
	}

	for _, issue := range issues {
		result.AddError(issue)
	}
	return result
}

// ValidateConfig checks the shape of the primary document.
func ValidateConfig(raw map[string]any, knownTools []string) []model.Issue {
	if raw == nil {
		return nil
	}

	toolsVal, ok := raw["tools"]
	if !ok {
		return nil
	}
	tools, ok := toolsVal.(map[string]any)
	if !ok {
		return []model.Issue{issue(configDoc, "expected an object", toolsVal, "tools")}
	}

	known := make(map[string]bool, len(knownTools))
	for _, id := range knownTools {
		known[id] = true
	}

	var issues []model.Issue
	for _, id := range sortedKeys(tools) {
		if len(known) > 0 && !known[id] {
			continue
		}
		entry, ok := tools[id].(map[string]any)
		if !ok {
			issues = append(issues, issue(configDoc, "expected an object", tools[id], "tools", id))
			continue
		}
		for _, field := range []string{"enabled", "versionControl"} {
			v, present := entry[field]
			if !present {
				continue
			}
			if _, ok := v.(bool); !ok {
				issues = append(issues, issue(configDoc, "expected a boolean", v, "tools", id, field))
			}
		}
	}
	return issues
}

// ValidateSettings checks the shape of the secondary document. A nil
// document (absent file) is valid.
func ValidateSettings(raw map[string]any) []model.Issue {
	if raw == nil {
		return nil
	}

	var issues []model.Issue

	if permVal, ok := raw["permissions"]; ok {
		perms, ok := permVal.(map[string]any)
		if !ok {
			issues = append(issues, issue(settingsDoc, "expected an object", permVal, "permissions"))
		} else {
			for _, key := range []string{"allow", "deny", "ask"} {
				if v, ok := perms[key]; ok && !isStringArray(v) {
					issues = append(issues, issue(settingsDoc, "expected an array of strings", v, "permissions", key))
				}
			}
		}
	}

	if serversVal, ok := raw["mcpServers"]; ok {
		servers, ok := serversVal.(map[string]any)
		if !ok {
			issues = append(issues, issue(settingsDoc, "expected an object", serversVal, "mcpServers"))
		} else {
			for _, name := range sortedKeys(servers) {
				issues = append(issues, validateServer(name, servers[name])...)
			}
		}
	}

	return issues
}

func validateServer(name string, v any) []model.Issue {
	server, ok := v.(map[string]any)
	if !ok {
		return []model.Issue{issue(settingsDoc, "expected an object", v, "mcpServers", name)}
	}

	var issues []model.Issue
	for _, key := range []string{"command", "url", "type"} {
		if val, ok := server[key]; ok {
			if _, isStr := val.(string); !isStr {
				issues = append(issues, issue(settingsDoc, "expected a string", val, "mcpServers", name, key))
			}
		}
	}
	if nonEmptyString(server["command"]) == "" && nonEmptyString(server["url"]) == "" {
		issues = append(issues, issue(settingsDoc, "server must declare a command or a url", nil, "mcpServers", name))
	}
	if val, ok := server["args"]; ok && !isStringArray(val) {
		issues = append(issues, issue(settingsDoc, "expected an array of strings", val, "mcpServers", name, "args"))
	}
	for _, key := range []string{"env", "headers"} {
		if val, ok := server[key]; ok && !isStringMap(val) {
			issues = append(issues, issue(settingsDoc, "expected an object of strings", val, "mcpServers", name, key))
		}
	}
	return issues
}

// ValidateRule checks that a rule declares at least one path pattern.
func ValidateRule(rule model.RuleDoc) []model.Issue {
	v, ok := rule.Frontmatter["paths"]
	if !ok {
		return []model.Issue{issue(rule.Path, "at least one path pattern is required", nil, "paths")}
	}

	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return []model.Issue{issue(rule.Path, "path pattern must not be empty", v, "paths")}
		}
		return nil
	case []any:
		if len(t) == 0 {
			return []model.Issue{issue(rule.Path, "at least one path pattern is required", v, "paths")}
		}
		var issues []model.Issue
		for i, item := range t {
			if nonEmptyString(item) == "" {
				issues = append(issues, issue(rule.Path, "path pattern must be a non-empty string", item, "paths", fmt.Sprint(i)))
			}
		}
		return issues
	default:
		return []model.Issue{issue(rule.Path, "expected a string or an array of strings", v, "paths")}
	}
}

// ValidateSkill checks that a skill declares a name and a description.
func ValidateSkill(skill model.SkillDoc) []model.Issue {
	var issues []model.Issue
	for _, field := range []string{"name", "description"} {
		v, ok := skill.Frontmatter[field]
		if !ok {
			issues = append(issues, issue(skill.Path, field+" is required", nil, field))
			continue
		}
		if nonEmptyString(v) == "" {
			issues = append(issues, issue(skill.Path, field+" must be a non-empty string", v, field))
		}
	}
	return issues
}

func issue(doc, message string, value any, path ...string) model.Issue {
	return model.Issue{
		Path:    append([]string{doc}, path...),
		Message: message,
		Value:   value,
	}
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func isStringArray(v any) bool {
	arr, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range arr {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func isStringMap(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, item := range m {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
