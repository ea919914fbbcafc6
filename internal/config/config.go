package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all buzz configuration.
type Config struct {
	// Auth backend
	Auth AuthConfig `yaml:"auth"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AuthConfig points the client at a GoTrue-compatible auth service.
type AuthConfig struct {
	URL     string `yaml:"url"`      // project URL, e.g. https://xyz.supabase.co
	AnonKey string `yaml:"anon_key"` // public anon key, sent as apikey
	Timeout string `yaml:"timeout"`  // per-request bound; empty means none
}

var (
	ErrMissingAuthURL = errors.New("auth URL not configured (set auth.url or BUZZ_AUTH_URL)")
	ErrInvalidAuthURL = errors.New("auth URL must be an absolute http or https URL")
	ErrMissingAnonKey = errors.New("auth anon key not configured (set auth.anon_key or BUZZ_AUTH_ANON_KEY)")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme: ThemeAuto,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			DebugMode: false,
		},
	}
}

// DefaultDir returns ~/.buzz, falling back to .buzz in the working directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".buzz"
	}
	return filepath.Join(home, ".buzz")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The anon key is public, but the file is still user-private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. BUZZ_* wins
// over the SUPABASE_* names the mobile app uses.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Auth.URL = v
	}
	if v := os.Getenv("BUZZ_AUTH_URL"); v != "" {
		c.Auth.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Auth.AnonKey = v
	}
	if v := os.Getenv("BUZZ_AUTH_ANON_KEY"); v != "" {
		c.Auth.AnonKey = v
	}
	if v := os.Getenv("BUZZ_AUTH_TIMEOUT"); v != "" {
		c.Auth.Timeout = v
	}
	if os.Getenv("BUZZ_DARK_MODE") == "1" {
		c.UI.Theme = ThemeDark
	}
	if v := os.Getenv("BUZZ_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetAuthTimeout returns the auth request timeout. Zero means no timeout.
func (c *Config) GetAuthTimeout() time.Duration {
	if c.Auth.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Auth.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Auth.URL == "" {
		return ErrMissingAuthURL
	}
	u, err := url.Parse(c.Auth.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAuthURL, c.Auth.URL)
	}
	if c.Auth.AnonKey == "" {
		return ErrMissingAnonKey
	}
	if c.Auth.Timeout != "" {
		if _, err := time.ParseDuration(c.Auth.Timeout); err != nil {
			return fmt.Errorf("invalid auth timeout %q: %w", c.Auth.Timeout, err)
		}
	}
	if !c.UI.Theme.Valid() {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if len(out.Auth.AnonKey) > 8 {
		out.Auth.AnonKey = out.Auth.AnonKey[:4] + "…" + out.Auth.AnonKey[len(out.Auth.AnonKey)-4:]
	} else if out.Auth.AnonKey != "" {
		out.Auth.AnonKey = "…"
	}
	return &out
}
