// Package config defines the configuration types and defaults for
// balancedwrap.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Config is the top-level configuration.
type Config struct {
	Select         []string    `yaml:"select"`
	Ignore         []string    `yaml:"ignore"`
	Include        []string    `yaml:"include"`
	Exclude        []string    `yaml:"exclude"`
	MaxBytes       int64       `yaml:"max_bytes"`
	MaxDepth       int         `yaml:"max_depth"`
	FollowSymlinks bool        `yaml:"follow_symlinks"`
	Workers        int         `yaml:"workers"`
	Format         string      `yaml:"format"`
	Color          bool        `yaml:"color"`
	Cache          CacheConfig `yaml:"cache"`
	Debug          bool        `yaml:"-"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultCacheDSN is the local cache database used when none is configured.
const DefaultCacheDSN = ".balancedwrap/cache.db"

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Select:   []string{"BWR"},
		Include:  []string{"**/*.py", "**/*.pyw", "**/*.pyi"},
		Exclude:  []string{".git", ".hg", ".tox", ".venv", "venv", "__pycache__", "node_modules"},
		MaxBytes: 4 << 20,
		Workers:  runtime.NumCPU(),
		Format:   FormatText,
		Color:    true,
		Cache: CacheConfig{
			Enabled: true,
			DSN:     DefaultCacheDSN,
		},
	}
}

// Selection decides which diagnostic codes are reported. Entries are code
// prefixes, so "BWR" covers every code and "BWR001" only that one.
type Selection struct {
	Select []string
	Ignore []string
}

// Selection returns the code selection of the config.
func (c *Config) Selection() Selection {
	return Selection{Select: c.Select, Ignore: c.Ignore}
}

// Enabled reports whether code is reported. An ignore entry wins over any
// select entry; an empty select list selects everything.
func (s Selection) Enabled(code string) bool {
	if matchesAny(code, s.Ignore) {
		return false
	}
	return len(s.Select) == 0 || matchesAny(code, s.Select)
}

func matchesAny(code string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Validate checks settings that cannot be fixed up silently.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return &FieldError{Field: "format", Value: c.Format, Reason: "must be text or json"}
	}
	if c.Workers < 0 {
		return &FieldError{Field: "workers", Value: c.Workers, Reason: "must not be negative"}
	}
	if c.MaxBytes < 0 {
		return &FieldError{Field: "max_bytes", Value: c.MaxBytes, Reason: "must not be negative"}
	}
	return nil
}

// FieldError reports an invalid setting.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
