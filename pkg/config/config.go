// Package config loads gptloader settings from defaults, an optional YAML
// file and GPTLOADER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"gptloader/pkg/locator"
	"gptloader/pkg/patterns"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GPTLOADER_"

// DefaultFile is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFile = ".gptloader.yaml"

// Config holds every setting that can come from a file or the environment.
type Config struct {
	Output   string         `koanf:"output"`
	Preamble string         `koanf:"preamble"`
	Clone    bool           `koanf:"clone"`
	CloneDir string         `koanf:"clone_dir"`
	Debug    bool           `koanf:"debug"`
	Git      GitConfig      `koanf:"git"`
	Patterns PatternsConfig `koanf:"patterns"`
}

// GitConfig selects how clones and pulls are performed.
type GitConfig struct {
	Backend string `koanf:"backend"`
}

// PatternsConfig controls where ignore and include patterns come from.
type PatternsConfig struct {
	// Fallback enables the bundled pattern files (and builtin ignore
	// defaults) when the repository has no pattern file of its own.
	Fallback    bool     `koanf:"fallback"`
	BundleDir   string   `koanf:"bundle_dir"`
	IgnoreFile  string   `koanf:"ignore_file"`
	IncludeFile string   `koanf:"include_file"`
	Ignore      []string `koanf:"ignore"`
	Include     []string `koanf:"include"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Git: GitConfig{Backend: locator.BackendExec},
		Patterns: PatternsConfig{
			Fallback:    true,
			IgnoreFile:  patterns.IgnoreFileName,
			IncludeFile: patterns.IncludeFileName,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path, then the
// environment. An empty path means DefaultFile; a missing file is skipped
// unless it was named explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// envKey maps GPTLOADER_PATTERNS_BUNDLE_DIR to patterns.bundle_dir. Only the
// first underscore after a known section name becomes a key separator.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"git", "patterns"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// LoaderOptions converts the pattern settings for patterns.NewLoader.
func (c *Config) LoaderOptions() patterns.LoaderOptions {
	bundle := c.Patterns.BundleDir
	if bundle == "" {
		bundle = patterns.DefaultBundleDir()
	}
	return patterns.LoaderOptions{
		IgnoreFile:   c.Patterns.IgnoreFile,
		IncludeFile:  c.Patterns.IncludeFile,
		BundleDir:    bundle,
		Fallback:     c.Patterns.Fallback,
		ExtraIgnore:  c.Patterns.Ignore,
		ExtraInclude: c.Patterns.Include,
	}
}
