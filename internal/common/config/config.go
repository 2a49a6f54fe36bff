package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBranch is the target branch when nothing else names one
	DefaultBranch = "master"

	// RepoConfigFile is the repository-local override file, read from the repo root
	RepoConfigFile = ".smash.toml"
)

var (
	ErrInvalidBranchName = errors.New("invalid branch name")
)

// Config represents the application configuration
type Config struct {
	Branch BranchConfig `yaml:"branch"`
	Log    LogConfig    `yaml:"log"`
}

// BranchConfig holds branch selection settings
type BranchConfig struct {
	Default string `yaml:"default"`
}

// LogConfig holds file logging settings
type LogConfig struct {
	File       bool `yaml:"file"`
	MaxSize    int  `yaml:"max_size"`    // megabytes
	MaxBackups int  `yaml:"max_backups"` // rotated files kept
	MaxAge     int  `yaml:"max_age"`     // days
}

// RepoConfig is the per-repository override read from .smash.toml
type RepoConfig struct {
	DefaultBranch string `toml:"default_branch"`
}

// Defaults returns the configuration used when no config file exists
func Defaults() *Config {
	return &Config{
		Branch: BranchConfig{Default: DefaultBranch},
		Log: LogConfig{
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     30,
		},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/smash/config.yaml (XDG standard - priority)
// 2. ~/.smash/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "smash", "config.yaml"),
		filepath.Join(home, ".smash", "config.yaml"),
	}, nil
}

// FindConfigPath returns the first existing config file path.
// Returns an empty string if no config file exists.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// Load reads configuration from the first available config file
// Priority: ~/.config/smash/config.yaml > ~/.smash/config.yaml
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return Defaults(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file yields the defaults; nothing is written.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Branch.Default == "" {
		cfg.Branch.Default = DefaultBranch
	}
	if err := ValidateBranchName(cfg.Branch.Default); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadRepoConfig reads .smash.toml from the repository root.
// A missing file yields an empty RepoConfig.
func LoadRepoConfig(root string) (*RepoConfig, error) {
	path := filepath.Join(root, RepoConfigFile)

	var rc RepoConfig
	if _, err := toml.DecodeFile(path, &rc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if rc.DefaultBranch != "" {
		if err := ValidateBranchName(rc.DefaultBranch); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return &rc, nil
}

// DefaultBranchFor returns the default target branch, letting the
// repository override win over the global setting
func (c *Config) DefaultBranchFor(repo *RepoConfig) string {
	if repo != nil && repo.DefaultBranch != "" {
		return repo.DefaultBranch
	}
	if c.Branch.Default != "" {
		return c.Branch.Default
	}
	return DefaultBranch
}

// ValidateBranchName rejects names git would never accept as a branch.
// git checkout does the full validation later.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidBranchName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidBranchName, name)
	case strings.ContainsAny(name, " \t\n~^:?*[\\"):
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidBranchName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains '..'", ErrInvalidBranchName, name)
	}
	return nil
}
