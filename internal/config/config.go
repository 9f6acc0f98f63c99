package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	appName = "orgsocial"
)

// Environment variables that override the config file
const (
	EnvSocialFile   = "ORG_SOCIAL_FILE"
	EnvFeedURL      = "ORG_SOCIAL_URL"
	EnvFeedCount    = "ORG_SOCIAL_FEED_COUNT"
	EnvFetchTimeout = "ORG_SOCIAL_FETCH_TIMEOUT"
)

var (
	// ConfigDir is the global configuration directory (~/.config/orgsocial)
	ConfigDir string

	// ConfigFile is the yaml settings file
	ConfigFile string

	// DatabasePath is the SQLite database file for the post history
	DatabasePath string

	// KeybindsPath is the user keybinding override file
	KeybindsPath string

	// LogPath is the debug log written with --debug
	LogPath string
)

// Config holds the user settings.
type Config struct {
	// SocialFile is the user's own social.org
	SocialFile string `yaml:"social_file"`
	// FeedURL is where SocialFile is published. Used to find mentions.
	FeedURL          string        `yaml:"feed_url,omitempty"`
	DefaultFeedCount int           `yaml:"default_feed_count"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	UserAgent        string        `yaml:"user_agent,omitempty"`
	Watch            bool          `yaml:"watch"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		SocialFile:       "social.org",
		DefaultFeedCount: 10,
		FetchTimeout:     10 * time.Second,
		Watch:            true,
	}
}

// Initialize sets up the configuration paths and creates the directories.
func Initialize() error {
	ConfigDir = filepath.Join(xdg.ConfigHome, appName)
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsPath = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(xdg.DataHome, appName, "orgsocial.db")
	LogPath = filepath.Join(xdg.StateHome, appName, "debug.log")

	dirs := []string{ConfigDir, filepath.Dir(DatabasePath), filepath.Dir(LogPath)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSocialFile); ok && v != "" {
		c.SocialFile = v
	}
	if v, ok := lookup(EnvFeedURL); ok && v != "" {
		c.FeedURL = v
	}
	if v, ok := lookup(EnvFeedCount); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFeedCount, err)
		}
		c.DefaultFeedCount = n
	}
	if v, ok := lookup(EnvFetchTimeout); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFetchTimeout, err)
		}
		c.FetchTimeout = d
	}
	return nil
}

// parseTimeout accepts a Go duration ("15s") or a bare number of seconds
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SocialFile) == "" {
		return fmt.Errorf("social_file must not be empty")
	}
	if c.DefaultFeedCount < 0 {
		return fmt.Errorf("default_feed_count must be >= 0, got %d", c.DefaultFeedCount)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// SocialPath resolves SocialFile, expanding a leading ~/
func (c *Config) SocialPath() (string, error) {
	path := c.SocialFile
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	return path, nil
}

// Save writes the config as yaml
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// CreateDefaultIfMissing writes the default config to path unless a file is already there.
func CreateDefaultIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return Default().Save(path)
}
