package generate

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the module root.
const DefaultConfigFile = ".specscribe.yaml"

// DefaultOutDir is the output directory used when neither the config file
// nor the caller supplies one.
const DefaultOutDir = "specs"

// Config holds generation settings loaded from a YAML file. Callers either
// construct a Config in Go code or place a .specscribe.yaml at the module
// root and call LoadConfig. Zero values fall back to defaults.
type Config struct {
	// OutDir is the target directory for emitted .spec files.
	OutDir string `yaml:"out_dir"`

	// Patterns filters scanned test files (doublestar globs).
	Patterns []string `yaml:"patterns"`

	// Exclude lists directory names skipped during discovery.
	Exclude []string `yaml:"exclude"`

	// Workers bounds the scanner's parse concurrency.
	Workers int `yaml:"workers"`

	// TimeoutSeconds bounds the scan duration.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DefaultConfig returns a config with all defaults applied.
func DefaultConfig() Config {
	return Config{OutDir: DefaultOutDir}
}

// LoadConfig reads and decodes a YAML config file, applying defaults for
// unset fields.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
}

// Options converts the config into run options for the given module root.
func (c Config) Options(moduleDir string) Options {
	return Options{
		ModuleDir: moduleDir,
		OutDir:    c.OutDir,
		Patterns:  c.Patterns,
		Exclude:   c.Exclude,
		Workers:   c.Workers,
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
	}
}
