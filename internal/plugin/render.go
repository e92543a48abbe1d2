package plugin

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/parser"
)

// RenderMarkdown joins YAML frontmatter and a body into one markdown document.
// Keys are written in sorted order. Empty frontmatter is omitted.
func RenderMarkdown(frontmatter map[string]any, body string) (string, error) {
	var sb strings.Builder

	if len(frontmatter) > 0 {
		fm, err := yaml.Marshal(frontmatter)
		if err != nil {
			return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(bytes.TrimSpace(fm))
		sb.WriteString("\n---\n\n")
	}

	body = strings.TrimSpace(body)
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// OverridePath returns where a user override for tool lives, relative to the
// project root.
func OverridePath(state *model.UnifiedState, tool, name string) string {
	return state.SourcePath(parser.OverridesDir, tool, name)
}

// ReadOverride reads a user override file. A missing file is not an error.
func ReadOverride(state *model.UnifiedState, rootDir, tool, name string) ([]byte, bool, error) {
	rel := OverridePath(state, tool, name)
	// #nosec G304 - override lives inside the managed root
	data, err := os.ReadFile(filepath.Join(rootDir, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read override %s: %w", rel, err)
	}
	return data, true, nil
}

// DeepMerge layers overlay onto base and returns a new map. Nested maps merge
// recursively, lists are unioned keeping base order, and any other overlay
// value replaces the base value.
func DeepMerge(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}

	for k, v := range overlay {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}

		switch ov := v.(type) {
		case map[string]any:
			if bv, ok := existing.(map[string]any); ok {
				merged[k] = DeepMerge(bv, ov)
				continue
			}
		case []any:
			if bv, ok := existing.([]any); ok {
				merged[k] = union(bv, ov)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

func union(a, b []any) []any {
	out := append([]any{}, a...)
	for _, item := range b {
		found := false
		for _, have := range out {
			if reflect.DeepEqual(have, item) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, item)
		}
	}
	return out
}

// AnyList converts a string slice for use in generic documents.
func AnyList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// PermissionsDocument returns the permissions object with empty lists left out.
func PermissionsDocument(p *model.Permissions) map[string]any {
	doc := map[string]any{}
	if p == nil {
		return doc
	}
	if len(p.Allow) > 0 {
		doc["allow"] = AnyList(p.Allow)
	}
	if len(p.Deny) > 0 {
		doc["deny"] = AnyList(p.Deny)
	}
	if len(p.Ask) > 0 {
		doc["ask"] = AnyList(p.Ask)
	}
	return doc
}

// MCPDocument renders servers in the common {"mcpServers": {...}} layout.
// remoteType, when set, is used as the type of URL servers that declare none.
func MCPDocument(servers map[string]model.MCPServer, remoteType string) map[string]any {
	out := make(map[string]any, len(servers))
	for name, s := range servers {
		if s.IsRemote() && s.Type == "" {
			s.Type = remoteType
		}
		out[name] = s
	}
	return map[string]any{"mcpServers": out}
}
