package model

import (
	"reflect"
	"testing"
)

func TestRuleDocGlobs(t *testing.T) {
	tests := map[string]struct {
		frontmatter map[string]any
		want        []string
	}{
		"list of strings": {
			frontmatter: map[string]any{"paths": []any{"src/**/*.ts", "lib/*.ts"}},
			want:        []string{"src/**/*.ts", "lib/*.ts"},
		},
		"single string": {
			frontmatter: map[string]any{"paths": "**/*.go"},
			want:        []string{"**/*.go"},
		},
		"non-string items dropped": {
			frontmatter: map[string]any{"paths": []any{"a/*", 3, ""}},
			want:        []string{"a/*"},
		},
		"missing": {
			frontmatter: map[string]any{},
			want:        nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := RuleDoc{Path: "rules/x.md", Frontmatter: tt.frontmatter}
			if got := r.Globs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Globs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleDocName(t *testing.T) {
	r := RuleDoc{Path: "rules/typescript-style.md"}
	if got := r.Name(); got != "typescript-style" {
		t.Errorf("Name() = %q, want %q", got, "typescript-style")
	}
}

func TestSkillDocName(t *testing.T) {
	s := SkillDoc{Path: "skills/deploy/SKILL.md", Frontmatter: map[string]any{}}
	if got := s.Name(); got != "deploy" {
		t.Errorf("Name() without frontmatter = %q, want folder name", got)
	}
	if got := s.Dir(); got != "deploy" {
		t.Errorf("Dir() = %q, want %q", got, "deploy")
	}

	s.Frontmatter["name"] = "release-helper"
	if got := s.Name(); got != "release-helper" {
		t.Errorf("Name() = %q, want declared name", got)
	}
}

func TestToolConfigIsVersionControlled(t *testing.T) {
	no := false
	yes := true
	if !(ToolConfig{}).IsVersionControlled() {
		t.Error("unset versionControl should default to version-controlled")
	}
	if !(ToolConfig{VersionControl: &yes}).IsVersionControlled() {
		t.Error("versionControl=true should be version-controlled")
	}
	if (ToolConfig{VersionControl: &no}).IsVersionControlled() {
		t.Error("versionControl=false should not be version-controlled")
	}
}

func TestNewUnifiedState(t *testing.T) {
	s := NewUnifiedState()
	if s.Config.Tools == nil || s.Rules == nil || s.Skills == nil {
		t.Fatalf("NewUnifiedState left required fields nil: %+v", s)
	}
	if s.Settings != nil || s.Agents != nil {
		t.Error("optional documents should be nil")
	}
}

func TestSourcePath(t *testing.T) {
	s := NewUnifiedState()
	if got := s.SourcePath("AGENTS.md"); got != ".agents/AGENTS.md" {
		t.Errorf("SourcePath() = %q", got)
	}

	s.SourceDir = "config/agents"
	if got := s.SourcePath("skills", "deploy"); got != "config/agents/skills/deploy" {
		t.Errorf("SourcePath() = %q", got)
	}
}
