package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"balancedwrap.yml",
	"balancedwrap.yaml",
	".balancedwrap.yml",
	".balancedwrap.yaml",
}

// Environment variables that override file settings.
const (
	EnvDebug    = "BALANCEDWRAP_DEBUG"
	EnvCacheDSN = "BALANCEDWRAP_CACHE_DSN"
	EnvWorkers  = "BALANCEDWRAP_WORKERS"
	EnvFormat   = "BALANCEDWRAP_FORMAT"
	EnvNoColor  = "BALANCEDWRAP_NO_COLOR"
)

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a config file. If configPath is non-empty, that
// file is loaded directly. Otherwise Load searches the current working
// directory using Discover, and returns DefaultConfig when nothing is found.
//
// Fields missing from the YAML keep their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from BALANCEDWRAP_* variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDebug); ok {
		c.Debug = truthy(v)
	}
	if v, ok := lookup(EnvCacheDSN); ok && v != "" {
		c.Cache.DSN = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		c.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvNoColor); ok && truthy(v) {
		c.Color = false
	}
	return c.Validate()
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
