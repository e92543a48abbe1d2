package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/syncerr"
)

// Layout of the managed root directory.
const (
	// DefaultDir is the managed root directory name inside a project.
	DefaultDir = model.DefaultSourceDir
	// ConfigFile is the primary document.
	ConfigFile = "config.json"
	// SettingsFile is the optional permissions and MCP server document.
	SettingsFile = "settings.json"
	// AgentsFile is the optional freeform instructions document.
	AgentsFile = "AGENTS.md"
	// RulesDir holds rule documents.
	RulesDir = "rules"
	// SkillsDir holds one folder per skill.
	SkillsDir = "skills"
	// SkillFile is the definition file each skill folder must contain.
	SkillFile = "SKILL.md"
	// OverridesDir holds per-target user files layered under generated outputs.
	OverridesDir = "overrides"
)

// Read loads the managed directory at dir into a fresh UnifiedState.
func Read(dir string) (*model.UnifiedState, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, syncerr.NotFound(dir, "managed directory")
		}
		return nil, fmt.Errorf("failed to stat managed directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, syncerr.NotFound(dir, "managed directory")
	}

	state := model.NewUnifiedState()

	if err := readConfig(dir, state); err != nil {
		return nil, err
	}
	if err := readSettings(dir, state); err != nil {
		return nil, err
	}

	agents, err := readOptionalText(filepath.Join(dir, AgentsFile))
	if err != nil {
		return nil, err
	}
	state.Agents = agents

	if state.Rules, err = readRules(dir); err != nil {
		return nil, err
	}
	if state.Skills, err = readSkills(dir); err != nil {
		return nil, err
	}

	logging.Debug("read managed directory",
		logging.Path(dir),
		slog.Int("rules", len(state.Rules)),
		slog.Int("skills", len(state.Skills)),
	)

	return state, nil
}

func readConfig(dir string, state *model.UnifiedState) error {
	p := filepath.Join(dir, ConfigFile)
	data, ok, err := readOptional(p)
	if err != nil || !ok {
		return err
	}

	raw, err := decodeDocument(p, data)
	if err != nil {
		return err
	}
	state.RawConfig = raw

	var cfg model.Config
	decodeLenient(data, &cfg)
	if cfg.Tools == nil {
		cfg.Tools = map[string]model.ToolConfig{}
	}
	state.Config = cfg
	return nil
}

func readSettings(dir string, state *model.UnifiedState) error {
	p := filepath.Join(dir, SettingsFile)
	data, ok, err := readOptional(p)
	if err != nil || !ok {
		return err
	}

	raw, err := decodeDocument(p, data)
	if err != nil {
		return err
	}
	state.RawSettings = raw

	var settings model.Settings
	decodeLenient(data, &settings)
	state.Settings = &settings
	return nil
}

// decodeDocument decodes a JSON document generically. Syntax errors and
// non-object documents are parse errors.
func decodeDocument(p string, data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, syncerr.Parse(p, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, syncerr.Parse(p, fmt.Errorf("expected a JSON object, got %T", raw))
	}
	return obj, nil
}

// decodeLenient fills v best-effort. encoding/json keeps going after a type
// mismatch, so fields of the wrong type stay zero and the schema validator
// reports them from the raw document.
func decodeLenient(data []byte, v any) {
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			logging.Debug("lenient decode failed", logging.Err(err))
		}
	}
}

func readOptional(p string) ([]byte, bool, error) {
	// #nosec G304 - p is built from the managed directory layout
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %q: %w", p, err)
	}
	return data, true, nil
}

func readOptionalText(p string) (*string, error) {
	data, ok, err := readOptional(p)
	if err != nil || !ok {
		return nil, err
	}
	text := string(data)
	return &text, nil
}

func readRules(dir string) ([]model.RuleDoc, error) {
	rulesDir := filepath.Join(dir, RulesDir)
	entries, err := readDirIfExists(rulesDir)
	if err != nil {
		return nil, err
	}

	rules := make([]model.RuleDoc, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		full := filepath.Join(rulesDir, name)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}

		rel := path.Join(RulesDir, name)
		fm, body, err := readDocument(full)
		if err != nil {
			return nil, err
		}
		rules = append(rules, model.RuleDoc{Path: rel, Frontmatter: fm, Content: body})
	}
	return rules, nil
}

func readSkills(dir string) ([]model.SkillDoc, error) {
	skillsDir := filepath.Join(dir, SkillsDir)
	entries, err := readDirIfExists(skillsDir)
	if err != nil {
		return nil, err
	}

	skills := make([]model.SkillDoc, 0, len(entries))
	for _, entry := range entries {
		folder := filepath.Join(skillsDir, entry.Name())
		// Stat follows symlinked skill folders.
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			continue
		}

		full := filepath.Join(folder, SkillFile)
		if fi, err := os.Stat(full); err != nil || fi.IsDir() {
			continue
		}

		rel := path.Join(SkillsDir, entry.Name(), SkillFile)
		fm, body, err := readDocument(full)
		if err != nil {
			return nil, err
		}
		skills = append(skills, model.SkillDoc{Path: rel, Frontmatter: fm, Content: body})
	}
	return skills, nil
}

func readDocument(full string) (map[string]any, string, error) {
	// #nosec G304 - full is discovered inside the managed directory
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %q: %w", full, err)
	}
	fm, body, err := ParseFrontmatter(data)
	if err != nil {
		return nil, "", syncerr.Parse(full, err)
	}
	return fm, NormalizeContent(body), nil
}

func readDirIfExists(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}
