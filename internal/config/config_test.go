package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/quizdesk/internal/logging"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("Default() has validation errors: %v", ValidationErrors(errs))
	}
	if cfg.TUI.FeedbackTimeout != 3500*time.Millisecond {
		t.Errorf("FeedbackTimeout = %v, want 3.5s", cfg.TUI.FeedbackTimeout)
	}
	if cfg.Gateway.Backend != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Gateway.Backend)
	}
}

func TestDefaultLoggingFollowsRotationDefaults(t *testing.T) {
	rotation := logging.DefaultRotationConfig()
	got := Default().Logging
	if got.MaxSizeMB != rotation.MaxSizeMB || got.MaxBackups != rotation.MaxBackups || got.Compress != rotation.Compress {
		t.Errorf("Logging = %+v, want rotation %+v", got, rotation)
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	want := logging.ValidLevels()
	if len(levels) != len(want) {
		t.Fatalf("ValidLogLevels() = %v, want %d levels", levels, len(want))
	}
	for i, l := range levels {
		if l != strings.ToLower(want[i]) {
			t.Errorf("level %d = %q, want %q", i, l, strings.ToLower(want[i]))
		}
		if logging.ParseLevel(l) != want[i] {
			t.Errorf("ParseLevel(%q) = %q, want %q", l, logging.ParseLevel(l), want[i])
		}
	}

	cfg := Default()
	cfg.Logging.Level = "WARN"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("upper-case level rejected: %v", errs)
	}
}

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
gateway:
  backend: http
api:
  base_url: https://school.example/api/teacher
  timeout: 5s
tui:
  feedback_timeout: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Gateway.Backend != BackendHTTP || cfg.API.Timeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TUI.FeedbackTimeout != 2*time.Second {
		t.Errorf("FeedbackTimeout = %v", cfg.TUI.FeedbackTimeout)
	}
	if !cfg.TUI.ShowHelp || cfg.Logging.MaxBackups != 3 {
		t.Error("defaults should fill unset keys")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("gateway.backend", "postgres")
	viper.Set("logging.level", "verbose")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok || len(verrs) != 2 {
		t.Fatalf("error = %v, want 2 ValidationErrors", err)
	}
	if !strings.Contains(err.Error(), "2 validation errors") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Gateway.Backend = "ftp" }, "gateway.backend"},
		{"http without url", func(c *Config) { c.Gateway.Backend = BackendHTTP; c.API.BaseURL = "" }, "api.base_url"},
		{"http relative url", func(c *Config) { c.Gateway.Backend = BackendHTTP; c.API.BaseURL = "/api" }, "api.base_url"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "api.timeout"},
		{"access without role", func(c *Config) { c.Access.Required = true; c.Access.Role = " " }, "access.role"},
		{"negative feedback", func(c *Config) { c.TUI.FeedbackTimeout = -time.Second }, "tui.feedback_timeout"},
		{"huge feedback", func(c *Config) { c.TUI.FeedbackTimeout = time.Hour }, "tui.feedback_timeout"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"bad addr", func(c *Config) { c.Server.Addr = "8787" }, "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 || errs[0].Field != tt.field {
				t.Errorf("Validate() = %v, want one error on %s", errs, tt.field)
			}
		})
	}
}

func TestValidate_URLIgnoredForOtherBackends(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = ""
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("sqlite backend should not need api.base_url: %v", errs)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := ConfigDir(); got != "/tmp/xdg/quizdesk" {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigFile(); got != "/tmp/xdg/quizdesk/config.yaml" {
		t.Errorf("ConfigFile() = %q", got)
	}

	cfg := Default()
	if got := cfg.StorePath(); got != "/tmp/xdg/quizdesk/quizzes.db" {
		t.Errorf("StorePath() = %q", got)
	}
	if got := cfg.LogDir(); got != "/tmp/xdg/quizdesk/logs" {
		t.Errorf("LogDir() = %q", got)
	}

	cfg.Store.Path = "/data/q.db"
	if got := cfg.StorePath(); got != "/data/q.db" {
		t.Errorf("StorePath() = %q", got)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.Logging.Dir = "~/logs"
		if got := cfg.LogDir(); got != filepath.Join(home, "logs") {
			t.Errorf("LogDir() = %q", got)
		}
	}
}
