package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const FileName = "gsx.yaml"

// Config is the optional gsx.yaml at the module root. Command-line flags
// take precedence over it.
type Config struct {
	// InjectSource enables data-source-* attributes on every element.
	InjectSource bool `yaml:"inject_source"`
	// Jobs is the number of files compiled in parallel.
	Jobs     int    `yaml:"jobs,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	// SkipDirs are directory names never searched for .gsx files, in
	// addition to dot directories.
	SkipDirs []string `yaml:"skip_dirs,omitempty"`
}

var defaultSkipDirs = []string{"vendor", "node_modules", "cursor-extension"}

func Default() *Config {
	return &Config{
		Jobs:     runtime.NumCPU(),
		LogLevel: "info",
		SkipDirs: append([]string(nil), defaultSkipDirs...),
	}
}

// Load reads gsx.yaml from root. Missing fields keep their defaults and
// skip_dirs extends the default list.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}

	cfg := Default()
	cfg.InjectSource = file.InjectSource
	if file.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative, got %d", FileName, file.Jobs)
	}
	if file.Jobs > 0 {
		cfg.Jobs = file.Jobs
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	cfg.SkipDirs = append(cfg.SkipDirs, file.SkipDirs...)
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when there is no config file.
func LoadOrDefault(root string) (*Config, error) {
	cfg, err := Load(root)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// SkipDir reports whether a directory with this base name is never searched.
func (c *Config) SkipDir(name string) bool {
	if len(name) > 1 && name[0] == '.' {
		return true
	}
	for _, d := range c.SkipDirs {
		if d == name {
			return true
		}
	}
	return false
}
