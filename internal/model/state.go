// Package model defines the in-memory representation of the managed source
// directory and of the files agentsync produces from it.
package model

import "path"

// DefaultSourceDir is the managed root, relative to the project root.
const DefaultSourceDir = ".agents"

// UnifiedState is the whole managed source directory, read fresh each run.
// Config, Rules and Skills are always non-nil.
type UnifiedState struct {
	// Config is the typed view of the primary document.
	Config Config `json:"config"`

	// Settings is the typed view of the secondary document, nil when absent.
	Settings *Settings `json:"settings,omitempty"`

	// Agents holds the freeform instructions document verbatim, nil when absent.
	Agents *string `json:"agents,omitempty"`

	// Rules are the documents found directly in the rules directory.
	Rules []RuleDoc `json:"rules"`

	// Skills are the documents found in skill subdirectories.
	Skills []SkillDoc `json:"skills"`

	// RawConfig is the primary document decoded generically, for shape checks.
	RawConfig map[string]any `json:"-"`

	// RawSettings is the secondary document decoded generically, nil when absent.
	RawSettings map[string]any `json:"-"`

	// SourceDir is the managed root relative to the project root, slash
	// separated. Empty means DefaultSourceDir.
	SourceDir string `json:"-"`
}

// SourcePath joins elem onto the managed root, relative to the project root.
func (s *UnifiedState) SourcePath(elem ...string) string {
	dir := s.SourceDir
	if dir == "" {
		dir = DefaultSourceDir
	}
	return path.Join(append([]string{dir}, elem...)...)
}

// NewUnifiedState returns an empty state with every required field defined.
func NewUnifiedState() *UnifiedState {
	return &UnifiedState{
		Config:    DefaultConfig(),
		Rules:     []RuleDoc{},
		Skills:    []SkillDoc{},
		RawConfig: map[string]any{},
	}
}

// Config is the primary document: which tools are synced and how.
type Config struct {
	Tools map[string]ToolConfig `json:"tools"`
}

// DefaultConfig is the configuration used when no primary document exists.
func DefaultConfig() Config {
	return Config{Tools: map[string]ToolConfig{}}
}

// ToolConfig holds the per-tool switches of the primary document.
type ToolConfig struct {
	Enabled bool `json:"enabled"`
	// VersionControl is nil when unset, which means version-controlled.
	VersionControl *bool `json:"versionControl,omitempty"`
}

// IsVersionControlled reports whether the tool's outputs should stay tracked
// by version control (and therefore out of the ignore file).
func (tc ToolConfig) IsVersionControlled() bool {
	return tc.VersionControl == nil || *tc.VersionControl
}

// EnabledTools returns the ids marked enabled, in no particular order.
func (c Config) EnabledTools() []string {
	var ids []string
	for id, tc := range c.Tools {
		if tc.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// Settings is the secondary document: permissions and MCP server declarations.
type Settings struct {
	Permissions *Permissions         `json:"permissions,omitempty"`
	MCPServers  map[string]MCPServer `json:"mcpServers,omitempty"`
}

// Permissions lists tool-permission patterns by decision.
type Permissions struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
	Ask   []string `json:"ask,omitempty"`
}

// IsEmpty reports whether no permission pattern is declared.
func (p *Permissions) IsEmpty() bool {
	return p == nil || (len(p.Allow) == 0 && len(p.Deny) == 0 && len(p.Ask) == 0)
}

// MCPServer declares one remote or local MCP server.
type MCPServer struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// IsRemote reports whether the server is reached over HTTP rather than spawned.
func (s MCPServer) IsRemote() bool {
	return s.Command == "" && s.URL != ""
}

// HasMCPServers reports whether the state declares any MCP server.
func (s *UnifiedState) HasMCPServers() bool {
	return s.Settings != nil && len(s.Settings.MCPServers) > 0
}

// HasPermissions reports whether the state declares any permission pattern.
func (s *UnifiedState) HasPermissions() bool {
	return s.Settings != nil && !s.Settings.Permissions.IsEmpty()
}
