// Package config builds the immutable run configuration from CLI flags and
// an optional YAML config file. Values provided on the command line override
// the file; validation failures are fatal before any file is touched.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON       = "json"
	FormatPrettyJSON = "pretty-json"
	FormatYAML       = "yaml"
)

// MaxParallel is the hard clamp on worker count.
const MaxParallel = 64

// DefaultFileName is the config file searched for in the working directory
// and the home directory when --config is not given.
const DefaultFileName = ".astgen.yml"

// IgnoreFileName is the per-directory ignore file consumed during discovery,
// one glob pattern per line, same semantics as --exclude.
const IgnoreFileName = ".astgenignore"

// Config is the fully-resolved, immutable configuration for one run.
// The pipeline shares it by reference and never mutates it.
type Config struct {
	Roots []string

	Includes []string
	Excludes []string

	MaxFileSizeMB int
	Parallel      int
	Truncate      int64 // output byte budget; 0 = unlimited
	Format        string
	OutputPath    string // empty = stdout
	CachePath     string // empty = no cache

	FollowLinks bool
	MaxDepth    int

	Verbose  bool
	Quiet    bool
	DryRun   bool
	Progress bool
}

// File mirrors the CLI flags in the YAML config document.
type File struct {
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	MaxFileSize int      `yaml:"maxFileSize"`
	Parallel    int      `yaml:"parallel"`
	Truncate    int64    `yaml:"truncate"`
	Format      string   `yaml:"format"`
	OutputPath  string   `yaml:"outputPath"`
	FollowLinks bool     `yaml:"followLinks"`
	MaxDepth    int      `yaml:"maxDepth"`
}

// Default returns the configuration used when neither flag nor file sets a
// value. Parallelism follows available CPUs, clamped like an explicit flag.
func Default() Config {
	parallel := runtime.NumCPU()
	if parallel > MaxParallel {
		parallel = MaxParallel
	}
	return Config{
		MaxFileSizeMB: 10,
		Parallel:      parallel,
		Format:        FormatJSON,
		MaxDepth:      100,
	}
}

// MaxFileSizeBytes converts the configured MB limit to bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1_000_000
}

// LoadFile reads and decodes a YAML config file.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return f, nil
}

// FindDefault looks for the default config file in the working directory,
// then the home directory. Returns "" when none exists.
func FindDefault() string {
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Apply overlays file values onto c. Only zero-valued settings are replaced,
// so flag values set by the caller beforehand keep precedence — callers
// apply the file first and then re-apply changed flags.
func (c *Config) Apply(f File) {
	if len(f.Includes) > 0 && len(c.Includes) == 0 {
		c.Includes = f.Includes
	}
	if len(f.Excludes) > 0 && len(c.Excludes) == 0 {
		c.Excludes = f.Excludes
	}
	if f.MaxFileSize > 0 {
		c.MaxFileSizeMB = f.MaxFileSize
	}
	if f.Parallel > 0 {
		c.Parallel = f.Parallel
	}
	if f.Truncate > 0 {
		c.Truncate = f.Truncate
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.OutputPath != "" {
		c.OutputPath = f.OutputPath
	}
	if f.FollowLinks {
		c.FollowLinks = true
	}
	if f.MaxDepth > 0 {
		c.MaxDepth = f.MaxDepth
	}
}

// Validate rejects invalid or conflicting settings. Any error here is fatal
// and surfaces before discovery starts.
func (c *Config) Validate() error {
	if c.Parallel < 1 {
		return fmt.Errorf("thread count must be at least 1 (got %d)", c.Parallel)
	}
	if c.Parallel > MaxParallel {
		return fmt.Errorf("thread count cannot exceed %d (got %d)", MaxParallel, c.Parallel)
	}
	if c.MaxFileSizeMB < 1 {
		return fmt.Errorf("max file size must be at least 1 MB (got %d)", c.MaxFileSizeMB)
	}
	if c.MaxFileSizeMB > 1000 {
		return fmt.Errorf("max file size cannot exceed 1000 MB (got %d)", c.MaxFileSizeMB)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1 (got %d)", c.MaxDepth)
	}
	if c.Truncate < 0 {
		return fmt.Errorf("truncate limit cannot be negative (got %d)", c.Truncate)
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("cannot use both --verbose and --quiet")
	}
	switch c.Format {
	case FormatJSON, FormatPrettyJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want json, pretty-json, or yaml)", c.Format)
	}
	if c.OutputPath != "" {
		if parent := filepath.Dir(c.OutputPath); parent != "." {
			if _, err := os.Stat(parent); err != nil {
				return fmt.Errorf("output directory does not exist: %s", parent)
			}
		}
	}
	for _, p := range c.Includes {
		if p == "" {
			return fmt.Errorf("include pattern cannot be empty")
		}
	}
	for _, p := range c.Excludes {
		if p == "" {
			return fmt.Errorf("exclude pattern cannot be empty")
		}
	}
	return nil
}
