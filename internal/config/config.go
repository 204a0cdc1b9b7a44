// ABOUTME: Configuration management with YAML config loading and XDG defaults.
// ABOUTME: Handles feed settings, cache directory resolution, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "potd-wallpaper"

// DefaultFeedURL is the public picture-of-the-day endpoint.
const DefaultFeedURL = "https://potd.menhera.org/api/today.json"

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 3
	defaultMaxImageSize = 32 << 20
	defaultInterval     = time.Hour
)

// Config stores settings loaded from $XDG_CONFIG_HOME/potd-wallpaper/config.yaml.
type Config struct {
	Feed     FeedConfig     `yaml:"feed"`
	Cache    CacheConfig    `yaml:"cache"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// FeedConfig holds feed endpoint and download settings.
type FeedConfig struct {
	URL          string   `yaml:"url"`
	Timeout      Duration `yaml:"timeout"`
	MaxRetries   int      `yaml:"max_retries"`
	MaxImageSize int64    `yaml:"max_image_size"`
}

// CacheConfig holds an optional cache directory override.
type CacheConfig struct {
	Directory string `yaml:"directory"`
}

// ScheduleConfig holds the firing interval used when installing the
// scheduler unit.
type ScheduleConfig struct {
	Interval Duration `yaml:"interval"`
}

// Duration is a time.Duration that YAML-encodes as a string like "30s".
// Bare numbers are accepted as seconds.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration node: %w", err)
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Default returns a config with every field at its default value.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:          DefaultFeedURL,
			Timeout:      Duration(defaultTimeout),
			MaxRetries:   defaultMaxRetries,
			MaxImageSize: defaultMaxImageSize,
		},
		Schedule: ScheduleConfig{Interval: Duration(defaultInterval)},
	}
}

// CacheDir resolves the cache directory: the configured override if set,
// otherwise the XDG cache home.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return ExpandPath(c.Cache.Directory)
	}
	return filepath.Join(xdg.CacheHome, appName), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns defaults if the file doesn't exist;
// absent fields keep their default values.
func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = Duration(defaultTimeout)
	}
	if c.Feed.MaxRetries <= 0 {
		c.Feed.MaxRetries = defaultMaxRetries
	}
	if c.Feed.MaxImageSize <= 0 {
		c.Feed.MaxImageSize = defaultMaxImageSize
	}
	if c.Schedule.Interval <= 0 {
		c.Schedule.Interval = Duration(defaultInterval)
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
