// Package config handles recall configuration and memory-root resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	recallerrors "github.com/recallkit/recall/internal/errors"
)

// ConfigFileName is the optional per-root configuration file.
const ConfigFileName = ".recall.yaml"

// IndexBaseName is the base name of the store artifact inside the memory
// root. The backend appends its own extension (.db or .bleve).
const IndexBaseName = "search_index"

// LockFileName is the advisory lock taken around rebuilds.
const LockFileName = ".recall.lock"

// Config represents the complete recall configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchConfig configures the full-text store and result shaping.
type SearchConfig struct {
	// Backend selects the full-text store backend.
	// Options: "sqlite" (default, FTS5 with WAL) or "bleve".
	Backend string `yaml:"backend" json:"backend"`

	// DefaultLimit is the result limit applied when a caller passes none.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// SnippetTokens is the approximate token window of a highlighted
	// snippet around the first matches.
	SnippetTokens int `yaml:"snippet_tokens" json:"snippet_tokens"`

	// HighlightOpen and HighlightClose delimit matched terms in snippets.
	HighlightOpen  string `yaml:"highlight_open" json:"highlight_open"`
	HighlightClose string `yaml:"highlight_close" json:"highlight_close"`

	// Ellipsis joins non-adjacent snippet windows.
	Ellipsis string `yaml:"ellipsis" json:"ellipsis"`
}

// LoggingConfig configures file logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Backend:        "sqlite",
			DefaultLimit:   5,
			SnippetTokens:  15,
			HighlightOpen:  "<mark>",
			HighlightClose: "</mark>",
			Ellipsis:       "...",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads .recall.yaml from the memory root if present, layered over
// defaults. A missing file is not an error; a malformed one is.
func Load(memoryDir string) (*Config, error) {
	cfg := NewConfig()

	path := filepath.Join(memoryDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, recallerrors.ConfigInvalid(fmt.Sprintf("cannot read %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, recallerrors.ConfigInvalid(fmt.Sprintf("cannot parse %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants, filling defaults for zero values.
func (c *Config) Validate() error {
	d := NewConfig()
	if c.Search.Backend == "" {
		c.Search.Backend = d.Search.Backend
	}
	if c.Search.Backend != "sqlite" && c.Search.Backend != "bleve" {
		return recallerrors.ConfigInvalid(
			fmt.Sprintf("unknown search backend %q (valid: sqlite, bleve)", c.Search.Backend), nil)
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = d.Search.DefaultLimit
	}
	if c.Search.SnippetTokens <= 0 {
		c.Search.SnippetTokens = d.Search.SnippetTokens
	}
	if c.Search.HighlightOpen == "" {
		c.Search.HighlightOpen = d.Search.HighlightOpen
	}
	if c.Search.HighlightClose == "" {
		c.Search.HighlightClose = d.Search.HighlightClose
	}
	if c.Search.Ellipsis == "" {
		c.Search.Ellipsis = d.Search.Ellipsis
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	return nil
}

// DefaultCandidates returns the memory-root fallback search order:
// a conventional subdirectory of the working directory, a conventional
// subdirectory of the home directory, then the working directory itself.
func DefaultCandidates() []string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	candidates := []string{filepath.Join(cwd, "memory")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".openclaw", "workspace", "memory"))
	}
	return append(candidates, cwd)
}

// ResolveMemoryDir resolves the document root. A non-empty override wins
// unconditionally; otherwise the first existing candidate directory is
// used; with no existing candidate the working directory is the root.
func ResolveMemoryDir(override string, candidates []string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", recallerrors.ConfigInvalid(fmt.Sprintf("invalid memory dir %q", override), err)
		}
		return abs, nil
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err == nil && info.IsDir() {
			return filepath.Abs(c)
		}
	}

	return os.Getwd()
}

// IndexBasePath returns the store artifact base path inside the memory root.
func IndexBasePath(memoryDir string) string {
	return filepath.Join(memoryDir, IndexBaseName)
}

// LockPath returns the rebuild lock file path inside the memory root.
func LockPath(memoryDir string) string {
	return filepath.Join(memoryDir, LockFileName)
}
