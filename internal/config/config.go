package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/quizdesk/internal/logging"
)

// Config represents the complete quizdesk configuration
type Config struct {
	Gateway GatewayConfig `mapstructure:"gateway"`
	API     APIConfig     `mapstructure:"api"`
	Store   StoreConfig   `mapstructure:"store"`
	Access  AccessConfig  `mapstructure:"access"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// Backend names accepted by gateway.backend
const (
	BackendHTTP   = "http"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// GatewayConfig selects where quizzes live
type GatewayConfig struct {
	// Backend is one of "http", "sqlite", "memory" (default: "sqlite")
	Backend string `mapstructure:"backend"`
}

// APIConfig configures the remote quiz API client
type APIConfig struct {
	// BaseURL is the API prefix, e.g. https://school.example/api/teacher
	BaseURL string `mapstructure:"base_url"`
	// Token is the bearer token sent with every request and checked by the access gate
	Token string `mapstructure:"token"`
	// Timeout bounds each HTTP request to the API (default: 15s)
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig configures the local SQLite store
type StoreConfig struct {
	// Path is the database file. Empty means {config dir}/quizzes.db
	Path string `mapstructure:"path"`
	// Watch reloads the TUI list when the file changes on disk (default: true)
	Watch bool `mapstructure:"watch"`
}

// AccessConfig controls the role check performed before management commands
type AccessConfig struct {
	// Required enables the check (default: false)
	Required bool `mapstructure:"required"`
	// Role must appear in the token's role claims (default: "teacher")
	Role string `mapstructure:"role"`
	// Secret enables HMAC signature verification of the token
	Secret string `mapstructure:"secret"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// FeedbackTimeout is how long success banners stay visible (default: 3.5s)
	FeedbackTimeout time.Duration `mapstructure:"feedback_timeout"`
	// ShowHelp shows the key help line (default: true)
	ShowHelp bool `mapstructure:"show_help"`
	// Theme is the color theme (default: "default")
	// Options: "default", "dracula", "nord", "solarized-light"
	Theme string `mapstructure:"theme"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where quizdesk.log is written. Empty means {config dir}/logs
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// ServerConfig configures the development API server
type ServerConfig struct {
	// Addr is the listen address (default: "127.0.0.1:8787")
	Addr string `mapstructure:"addr"`
	// Token, when set, is required as a bearer token on quiz routes
	Token string `mapstructure:"token"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	rotation := logging.DefaultRotationConfig()
	return &Config{
		Gateway: GatewayConfig{
			Backend: BackendSQLite,
		},
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8787/api/teacher",
			Timeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Watch: true,
		},
		Access: AccessConfig{
			Required: false,
			Role:     "teacher",
		},
		TUI: TUIConfig{
			FeedbackTimeout: 3500 * time.Millisecond,
			ShowHelp:        true,
			Theme:           "default",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			Compress:   rotation.Compress,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("gateway.backend", defaults.Gateway.Backend)

	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.token", defaults.API.Token)
	viper.SetDefault("api.timeout", defaults.API.Timeout)

	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("store.watch", defaults.Store.Watch)

	viper.SetDefault("access.required", defaults.Access.Required)
	viper.SetDefault("access.role", defaults.Access.Role)
	viper.SetDefault("access.secret", defaults.Access.Secret)

	viper.SetDefault("tui.feedback_timeout", defaults.TUI.FeedbackTimeout)
	viper.SetDefault("tui.show_help", defaults.TUI.ShowHelp)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.token", defaults.Server.Token)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// StorePath returns the SQLite file path, applying the default location.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	return filepath.Join(ConfigDir(), "quizzes.db")
}

// LogDir returns the log directory, applying the default location.
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return expandHome(c.Logging.Dir)
	}
	return filepath.Join(ConfigDir(), "logs")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quizdesk")
	}
	// Fall back to ~/.config/quizdesk
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quizdesk"
	}
	return filepath.Join(home, ".config", "quizdesk")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidBackends returns the list of valid gateway.backend values
func ValidBackends() []string {
	return []string{BackendHTTP, BackendSQLite, BackendMemory}
}
