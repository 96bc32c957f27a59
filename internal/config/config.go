// Package config loads cppmuck configuration from .cppmuck/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the cppmuck configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the cppmuck configuration directory.
const ConfigDirName = ".cppmuck"

// Config holds all cppmuck configuration.
type Config struct {
	Gen     GenConfig     `yaml:"gen"`
	Compile CompileConfig `yaml:"compile"`
	Cache   CacheConfig   `yaml:"cache"`
}

// GenConfig holds configuration for stub generation.
type GenConfig struct {
	// HeaderExt is the extension of the header included at the top of the
	// generated stub file.
	HeaderExt string `yaml:"header_ext"`
	// RequireDefinition excludes bare declarations without bodies from
	// stubbing. Off by default: header-only declarations stay visible.
	RequireDefinition bool `yaml:"require_definition"`
	// Output is the default stub output path, relative to the working
	// directory.
	Output string `yaml:"output"`
}

// CompileConfig holds configuration for compile-command handling.
type CompileConfig struct {
	// BuildDir is the compilation database directory, relative to the
	// project root.
	BuildDir string `yaml:"build_dir"`
	// StripArgs are additional arguments dropped from every compile
	// command before parsing.
	StripArgs []string `yaml:"strip_args"`
}

// CacheConfig holds configuration for the probe/file cache. The key is
// phrased as "disabled" so the YAML zero value matches the default
// (caching on) and merging stays honest.
type CacheConfig struct {
	Disabled bool `yaml:"disabled"`
}

// ErrConfigNotFound is returned when no config file can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .cppmuck/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking
// up the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path, merges it with defaults,
// and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .cppmuck directory by walking up from
// startDir. Returns the path to the directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .cppmuck directory if it doesn't exist and
// returns its path.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Gen.HeaderExt, ".") {
		return fmt.Errorf("%w: gen.header_ext must start with a dot, got %q",
			ErrInvalidConfig, cfg.Gen.HeaderExt)
	}
	if cfg.Gen.Output == "" {
		return fmt.Errorf("%w: gen.output must not be empty", ErrInvalidConfig)
	}
	if cfg.Compile.BuildDir == "" {
		return fmt.Errorf("%w: compile.build_dir must not be empty", ErrInvalidConfig)
	}
	return nil
}

// SaveDefault writes the default configuration to .cppmuck/config.yaml in
// workDir, creating the directory if needed.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# cppmuck configuration\n# See https://github.com/hargabyte/cppmuck for documentation\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
