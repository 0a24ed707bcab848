package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "instafetch"
)

// ConfigDir returns the standard config directory for instafetch.
// Windows: %APPDATA%\instafetch\
// macOS/Linux: ~/.config/instafetch/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/instafetch/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Server configuration for `instafetch serve`
	Server ServerConfig `yaml:"server,omitempty"`

	// Session holds optional Instagram session credentials. Filling these in
	// increases the success rate on throttled or login-gated content.
	// Environment variables take precedence over the file (see applyEnv).
	Session SessionConfig `yaml:"session,omitempty"`

	// BrowserFallback enables the headless-browser strategy as a last resort.
	// Requires a local Chromium install; off by default.
	BrowserFallback bool `yaml:"browser_fallback,omitempty"`

	// PacingMaxMS is the upper bound of the randomized delay inserted before
	// each strategy attempt, in milliseconds. 0 disables pacing.
	PacingMaxMS int `yaml:"pacing_max_ms,omitempty"`

	// TelemetryLog is the path of the append-only extraction log.
	// Empty disables telemetry.
	TelemetryLog string `yaml:"telemetry_log,omitempty"`
}

// ServerConfig holds HTTP server settings for `instafetch serve`
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port,omitempty"`

	// APIKey for authentication (optional, if set all extract requests must
	// include an X-API-Key header)
	APIKey string `yaml:"api_key,omitempty"`
}

// SessionConfig holds operator-supplied Instagram session cookies.
// Loaded once at startup and passed down by value; never logged.
type SessionConfig struct {
	SessionID string `yaml:"session_id,omitempty"`
	CSRFToken string `yaml:"csrf_token,omitempty"`
	UserID    string `yaml:"user_id,omitempty"`
}

// Empty reports whether no session credentials are configured.
func (s SessionConfig) Empty() bool {
	return s.SessionID == ""
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server:      ServerConfig{Port: 8080},
		PacingMaxMS: 400,
	}
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/instafetch/config.yml and applies
// environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.TelemetryLog = expandPath(cfg.TelemetryLog)
	cfg.applyEnv()

	return cfg, nil
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// Environment overrides apply either way.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
		cfg.applyEnv()
	}
	return cfg
}

// applyEnv overlays environment-supplied values. Credentials belong in the
// environment on shared hosts; the file keys exist for local setups.
func (c *Config) applyEnv() {
	if v := os.Getenv("INSTAFETCH_SESSION_ID"); v != "" {
		c.Session.SessionID = v
	}
	if v := os.Getenv("INSTAFETCH_CSRF_TOKEN"); v != "" {
		c.Session.CSRFToken = v
	}
	if v := os.Getenv("INSTAFETCH_USER_ID"); v != "" {
		c.Session.UserID = v
	}
	if v := os.Getenv("INSTAFETCH_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
}

// expandPath expands a leading tilde to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/instafetch/config.yml
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# instafetch configuration file\n# Run 'instafetch init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0600)
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}
