// Package parser reads the managed source directory into a model.UnifiedState.
// It knows the directory layout (config.json, settings.json, AGENTS.md,
// rules/, skills/) and how to split markdown documents into frontmatter and
// body. It never writes to disk.
package parser
