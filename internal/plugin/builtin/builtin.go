// Package builtin assembles the registry of targets shipped with agentsync.
package builtin

import (
	"github.com/klauern/agentsync/internal/plugin"
	"github.com/klauern/agentsync/internal/plugin/claude"
	"github.com/klauern/agentsync/internal/plugin/codex"
	"github.com/klauern/agentsync/internal/plugin/cursor"
)

// Registry returns a new registry holding every built-in target.
func Registry() *plugin.Registry {
	return plugin.NewRegistry(
		claude.New(),
		codex.New(),
		cursor.New(),
	)
}
