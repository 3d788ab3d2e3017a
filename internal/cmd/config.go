package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/quizdesk/internal/config"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View quizdesk configuration",
	Long: `View quizdesk configuration.

Without arguments, displays the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for invalid values",
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/quizdesk/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	RunE:  runConfigThemes,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configThemesCmd)
	configCmd.AddCommand(configPathCmd)
}

// secretKeys are masked by config show.
var secretKeys = []string{"api.token", "access.secret", "server.token"}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	settings := viper.AllSettings()
	delete(settings, "config")
	for _, key := range secretKeys {
		maskSetting(settings, key)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// maskSetting replaces a non-empty nested value addressed by a dotted key.
func maskSetting(settings map[string]any, key string) {
	section, name, _ := strings.Cut(key, ".")
	m, ok := settings[section].(map[string]any)
	if !ok {
		return
	}
	if v, ok := m[name]; ok && fmt.Sprint(v) != "" {
		m[name] = "********"
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return err
	}

	errs := cfg.Validate()
	out := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintln(out, "Configuration is valid.")
		return nil
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	for _, e := range errs {
		fmt.Fprintf(out, "  %s\n", e.Error())
	}
	return config.ValidationErrors(errs)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := viper.GetString("tui.theme")

	for _, name := range styles.BuiltinThemes() {
		marker := " "
		if name == current {
			marker = "*"
		}
		st := styles.NewStyles(styles.GetPalette(styles.ThemeName(name)))
		badges := make([]string, 0, len(lifecycle.States()))
		for _, s := range lifecycle.States() {
			badges = append(badges, st.Badge(s))
		}
		fmt.Fprintf(out, "%s %-16s %s\n", marker, name, strings.Join(badges, " "))
	}
	fmt.Fprintln(out, "\nSet with tui.theme in the config file or QUIZDESK_TUI_THEME.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: QUIZDESK_* (e.g., QUIZDESK_GATEWAY_BACKEND)")
	return nil
}

const defaultConfigFile = `# quizdesk configuration

# Where quizzes live: http (school API), sqlite (local file) or memory (demo)
gateway:
  backend: sqlite

# School API, used when gateway.backend is http
api:
  base_url: http://127.0.0.1:8787/api/teacher
  token: ""
  timeout: 15s

# Local SQLite store
store:
  # Empty means ~/.config/quizdesk/quizzes.db
  path: ""
  # Reload the interactive screen when the file changes
  watch: true

# Role check before publish, delete and the interactive screen
access:
  required: false
  role: teacher
  # Set to verify the token's HMAC signature
  secret: ""

tui:
  # How long success messages stay visible
  feedback_timeout: 3.5s
  show_help: true
  # default, dracula, nord, solarized-light
  theme: default

logging:
  enabled: true
  level: info
  # Empty means ~/.config/quizdesk/logs
  dir: ""
  max_size_mb: 10
  max_backups: 3
  compress: false

# Development API server (quizdesk serve)
server:
  addr: 127.0.0.1:8787
  token: ""
`
