// Package config resolves collector settings from defaults, an optional YAML
// rules file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/codecollector/internal/types"
)

// Defaults.
const (
	DefaultDirectory    = "."
	DefaultOutput       = "code_collection.txt"
	DefaultMetadataFile = "code_metadata.json"
	DefaultTarget       = "restored_project"
	DefaultLogLevel     = "info"

	// FileName is looked up in the base directory when no --config is given.
	FileName = ".codecollector.yaml"
)

// Environment variables.
const (
	EnvOutput   = "CODECOLLECTOR_OUTPUT"
	EnvMetadata = "CODECOLLECTOR_METADATA"
	EnvTarget   = "CODECOLLECTOR_TARGET"
	EnvLogLevel = "CODECOLLECTOR_LOG_LEVEL"
)

// Config holds the settings of one command invocation.
type Config struct {
	Directory    string                `yaml:"directory"`
	Selection    types.SelectionConfig `yaml:",inline"`
	Output       string                `yaml:"output"`
	MetadataFile string                `yaml:"metadata"`
	Target       string                `yaml:"target"`
	LogLevel     string                `yaml:"log_level"`
	Verbose      bool                  `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Directory:    DefaultDirectory,
		Output:       DefaultOutput,
		MetadataFile: DefaultMetadataFile,
		Target:       DefaultTarget,
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFile reads a YAML rules file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FindFile returns explicit when set, otherwise FileName inside dir if it
// exists, otherwise "".
func FindFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Merge overlays the non-zero fields of other onto c.
func (c Config) Merge(other Config) Config {
	c.Directory = firstNonEmpty(other.Directory, c.Directory)
	c.Output = firstNonEmpty(other.Output, c.Output)
	c.MetadataFile = firstNonEmpty(other.MetadataFile, c.MetadataFile)
	c.Target = firstNonEmpty(other.Target, c.Target)
	c.LogLevel = firstNonEmpty(other.LogLevel, c.LogLevel)
	c.Verbose = c.Verbose || other.Verbose

	s := &c.Selection
	o := other.Selection
	s.IncludedExtensions = firstNonEmptySlice(o.IncludedExtensions, s.IncludedExtensions)
	s.ExcludedExtensions = firstNonEmptySlice(o.ExcludedExtensions, s.ExcludedExtensions)
	s.IncludedPaths = firstNonEmptySlice(o.IncludedPaths, s.IncludedPaths)
	s.ExcludedPaths = firstNonEmptySlice(o.ExcludedPaths, s.ExcludedPaths)
	s.IncludedFiles = firstNonEmptySlice(o.IncludedFiles, s.IncludedFiles)
	s.ExcludedFiles = firstNonEmptySlice(o.ExcludedFiles, s.ExcludedFiles)
	return c
}

// LoadEnv loads an optional .env file from the working directory and
// returns the settings carried by CODECOLLECTOR_* variables.
func LoadEnv() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: ignoring .env: %v\n", err)
	}
	return FromEnv()
}

// FromEnv returns the settings carried by CODECOLLECTOR_* variables.
func FromEnv() Config {
	return Config{
		Output:       strings.TrimSpace(os.Getenv(EnvOutput)),
		MetadataFile: strings.TrimSpace(os.Getenv(EnvMetadata)),
		Target:       strings.TrimSpace(os.Getenv(EnvTarget)),
		LogLevel:     strings.TrimSpace(os.Getenv(EnvLogLevel)),
	}
}

// EffectiveLogLevel is debug when Verbose is set, LogLevel otherwise.
func (c Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
