// Package plugin defines the contract every target tool implements and the
// registry the sync pipeline resolves targets from.
package plugin

import (
	"sort"
	"sync"

	"github.com/klauern/agentsync/internal/model"
)

// Plugin exports the unified state into one tool's native layout.
type Plugin interface {
	// ID returns the stable identifier used in config.json and on the command line
	ID() string

	// Validate reports semantic warnings and features the target cannot
	// represent. It never blocks export.
	Validate(state *model.UnifiedState) model.ValidationResult

	// Export returns the complete, deterministic list of files for the target.
	// It may read files under rootDir but must not write anything.
	Export(state *model.UnifiedState, rootDir string) ([]model.OutputFile, error)
}

// Registry resolves plugins by id.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a registry holding plugins.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any plugin already registered under its id.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.ID()] = p
}

// Get returns the plugin registered under id.
func (r *Registry) Get(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	return p, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns every registered id in alphabetical order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
