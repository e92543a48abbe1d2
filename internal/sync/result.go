package sync

import "github.com/klauern/agentsync/internal/model"

// Result is the outcome of syncing one target.
type Result struct {
	// Tool is the target id.
	Tool string `json:"tool" yaml:"tool"`

	// Changes lists deletions first, then one entry per written file.
	Changes []model.ChangeResult `json:"changes" yaml:"changes"`

	// Validation holds the target's warnings and skipped features.
	Validation model.ValidationResult `json:"validation" yaml:"validation"`
}

// Created returns the changes that create a file.
func (r *Result) Created() []model.ChangeResult {
	return r.filterByAction(model.ActionCreate)
}

// Updated returns the changes that rewrite a file.
func (r *Result) Updated() []model.ChangeResult {
	return r.filterByAction(model.ActionUpdate)
}

// Deleted returns the removed orphans.
func (r *Result) Deleted() []model.ChangeResult {
	return r.filterByAction(model.ActionDelete)
}

// Unchanged returns the files already up to date.
func (r *Result) Unchanged() []model.ChangeResult {
	return r.filterByAction(model.ActionUnchanged)
}

func (r *Result) filterByAction(action model.Action) []model.ChangeResult {
	var filtered []model.ChangeResult
	for _, c := range r.Changes {
		if c.Action == action {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// TotalChanged returns the number of files created, updated or deleted.
func (r *Result) TotalChanged() int {
	n := 0
	for _, c := range r.Changes {
		if c.IsChange() {
			n++
		}
	}
	return n
}

// HasChanges reports whether the run touched (or would touch) any file.
func (r *Result) HasChanges() bool {
	return r.TotalChanged() > 0
}
