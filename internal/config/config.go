// Package config provides user configuration for agentsync.
// It supports a YAML configuration file, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/agentsync/internal/model"
	"github.com/klauern/agentsync/internal/sync"
	"github.com/klauern/agentsync/internal/util"
)

// Color modes accepted by OutputConfig.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete agentsync user configuration.
type Config struct {
	// Sync configures default synchronization behavior
	Sync SyncConfig `yaml:"sync"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// SyncConfig holds synchronization defaults.
type SyncConfig struct {
	// ManagedDir is the source directory, relative to the project root
	ManagedDir string `yaml:"managed_dir"`
	// IgnoreFile is the ignore file updated for untracked targets, relative to the project root
	IgnoreFile string `yaml:"ignore_file"`
	// SkipCleanup disables orphan removal
	SkipCleanup bool `yaml:"skip_cleanup"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json, yaml)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose lists unchanged files in reports
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			ManagedDir: model.DefaultSourceDir,
			IgnoreFile: sync.DefaultIgnoreFile,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  ColorAuto,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	return LoadOrDefault(FilePath())
}

// LoadOrDefault loads the configuration at path, or the defaults with
// environment overrides when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Exists returns true if a config file exists.
func Exists() bool {
	return util.Exists(FilePath())
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern AGENTSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("AGENTSYNC_MANAGED_DIR"); v != "" {
		c.Sync.ManagedDir = v
	}
	if v := os.Getenv("AGENTSYNC_IGNORE_FILE"); v != "" {
		c.Sync.IgnoreFile = v
	}
	if v := os.Getenv("AGENTSYNC_SKIP_CLEANUP"); v != "" {
		c.Sync.SkipCleanup = parseBool(v)
	}

	if v := os.Getenv("AGENTSYNC_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("AGENTSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("AGENTSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// SyncOptions returns orchestrator options for root seeded from this config.
func (c *Config) SyncOptions(root string) sync.Options {
	opts := sync.DefaultOptions()
	opts.RootDir = root
	if c.Sync.ManagedDir != "" {
		opts.ManagedDir = c.Sync.ManagedDir
	}
	if c.Sync.IgnoreFile != "" {
		opts.IgnoreFile = c.Sync.IgnoreFile
	}
	opts.SkipCleanup = c.Sync.SkipCleanup
	return opts
}

// ColorMode returns the configured color mode, falling back to auto for
// unrecognized values.
func (o OutputConfig) ColorMode() string {
	switch mode := strings.ToLower(strings.TrimSpace(o.Color)); mode {
	case ColorAlways, ColorNever:
		return mode
	default:
		return ColorAuto
	}
}
