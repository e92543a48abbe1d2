package model

import (
	"path"
	"strings"
)

// RuleDoc is one rule document: frontmatter plus trimmed markdown body.
type RuleDoc struct {
	// Path is relative to the managed root, slash separated (rules/foo.md).
	Path        string         `json:"path"`
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
}

// Name is the file name without its extension.
func (r RuleDoc) Name() string {
	base := path.Base(r.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Globs returns the path patterns declared under "paths".
// A single string is accepted as a one-element list.
func (r RuleDoc) Globs() []string {
	return stringList(r.Frontmatter["paths"])
}

// Description returns the optional "description" frontmatter value.
func (r RuleDoc) Description() string {
	return stringValue(r.Frontmatter["description"])
}

// SkillDoc is one skill definition file and the folder that holds it.
type SkillDoc struct {
	// Path is relative to the managed root (skills/<dir>/SKILL.md).
	Path        string         `json:"path"`
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
}

// Dir is the name of the folder holding the skill.
func (s SkillDoc) Dir() string {
	return path.Base(path.Dir(s.Path))
}

// Name returns the declared name, falling back to the folder name.
func (s SkillDoc) Name() string {
	if name := stringValue(s.Frontmatter["name"]); name != "" {
		return name
	}
	return s.Dir()
}

// Description returns the declared description.
func (s SkillDoc) Description() string {
	return stringValue(s.Frontmatter["description"])
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{strings.TrimSpace(t)}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}
