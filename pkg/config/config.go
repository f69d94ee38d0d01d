// Package config handles loading and saving jv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/jv/config.yaml
//   - Data:    ~/.local/share/jv/ (themes)
//   - State:   ~/.local/state/jv/ (recent documents)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document represents a registered JSON document in the config.
type Document struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ViewConfig holds tree rendering preferences.
type ViewConfig struct {
	// Expand is the default expansion on open: "all", "none", or a depth
	// number ("0" opens the root only, "1" also its direct children, ...).
	Expand string `yaml:"expand,omitempty"`
	// AbbreviateRoot collapses the root to a bare {...} / [...] token
	// instead of the single-line preview.
	AbbreviateRoot bool `yaml:"abbreviate_root,omitempty"`
	// Toggles controls the toggle glyph column: on, dimmed, off.
	Toggles string `yaml:"toggles,omitempty"`
	// Indent is the number of spaces per nesting level.
	Indent int `yaml:"indent,omitempty"`
}

// WatchConfig controls live reload of the viewed file.
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	DebounceMS int   `yaml:"debounce_ms,omitempty"`
}

// Config is the top-level configuration for jv.
type Config struct {
	Documents []Document     `yaml:"documents,omitempty"`
	Favorites map[int]string `yaml:"favorites,omitempty"` // Number key (1-9) -> document name
	View      ViewConfig     `yaml:"view,omitempty"`
	Watch     WatchConfig    `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	watch := true
	return Config{
		Favorites: make(map[int]string),
		View: ViewConfig{
			Expand:  "1",
			Toggles: "on",
			Indent:  2,
		},
		Watch: WatchConfig{
			Enabled:    &watch,
			DebounceMS: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for jv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "jv")
}

// DataDir returns the XDG data directory for jv.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "jv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "jv")
}

// StateDir returns the XDG state directory for jv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "jv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "jv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Ensure favorites map is initialized
	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}
	cfg.View.Expand = NormalizeExpand(cfg.View.Expand)
	if cfg.View.Indent <= 0 {
		cfg.View.Indent = 2
	}
	if cfg.Watch.DebounceMS <= 0 {
		cfg.Watch.DebounceMS = 200
	}

	// Expand ~ in document paths
	for i := range cfg.Documents {
		cfg.Documents[i].Path = expandHome(cfg.Documents[i].Path)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// NormalizeExpand canonicalizes an expansion setting: "all", "none", or a
// non-negative depth number survive (lowercased); anything else falls back to
// the default depth of 1.
func NormalizeExpand(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "all", "none":
		return v
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}
	return "1"
}

// WatchEnabled reports whether live reload should run.
func (c Config) WatchEnabled() bool {
	return c.Watch.Enabled == nil || *c.Watch.Enabled
}

// FindDocument returns the document with the given name, or nil.
func (c Config) FindDocument(name string) *Document {
	for i := range c.Documents {
		if strings.EqualFold(c.Documents[i].Name, name) {
			return &c.Documents[i]
		}
	}
	return nil
}

// FavoriteDocument returns the document assigned to number key n (1-9), or nil.
func (c Config) FavoriteDocument(n int) *Document {
	name, ok := c.Favorites[n]
	if !ok {
		return nil
	}
	return c.FindDocument(name)
}

// SetFavorite assigns a document name to a number key (1-9).
func (c *Config) SetFavorite(n int, docName string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if docName == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = docName
	}
}

// ResolvedPath returns the document path with ~ expanded.
func (d Document) ResolvedPath() string {
	return expandHome(d.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
