package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Iron-Ham/quizdesk/internal/errors"
)

// executeCommand runs the root command with args and returns captured output.
// Flags are reset first because the command tree is package state.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupEnv points configuration at a temp directory and selects backend.
func setupEnv(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("QUIZDESK_GATEWAY_BACKEND", backend)
	t.Setenv("QUIZDESK_STORE_PATH", filepath.Join(dir, "quizzes.db"))
	t.Setenv("QUIZDESK_STORE_WATCH", "false")
	t.Setenv("QUIZDESK_LOGGING_ENABLED", "false")
	return dir
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "quizdesk" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "quizdesk")
	}

	expected := []string{"manage", "list", "publish", "delete", "seed", "serve", "config"}
	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, name := range expected {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestList_MemoryBackend(t *testing.T) {
	setupEnv(t, "memory")

	out, err := executeCommand(t, "", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"TITLE", "Fractions warm-up", "Unit 2 review", "Published", "5 of 5 quizzes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, readOnlyNotice) {
		t.Error("open access should not print the read-only notice")
	}
}

func TestList_Filters(t *testing.T) {
	setupEnv(t, "memory")

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "state",
			args:     []string{"list", "--state", "Published"},
			contains: []string{"Angles and triangles", "1 of 5 quizzes"},
			excludes: []string{"Fractions warm-up"},
		},
		{
			name:     "glob",
			args:     []string{"list", "--match", "*REVIEW*"},
			contains: []string{"Unit 2 review", "1 of 5 quizzes"},
		},
		{
			name:     "state and glob",
			args:     []string{"list", "--state", "closed", "--match", "r*"},
			contains: []string{"Ratios check-in"},
			excludes: []string{"Unit 2 review"},
		},
		{
			name:     "no match",
			args:     []string{"list", "--match", "zzz*"},
			contains: []string{"No quizzes."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "", tt.args...)
			if err != nil {
				t.Fatalf("list error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestList_InvalidFlags(t *testing.T) {
	setupEnv(t, "memory")

	if _, err := executeCommand(t, "", "list", "--state", "archived"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("unknown state error = %v, want ErrInvalidInput", err)
	}
	if _, err := executeCommand(t, "", "list", "--match", "[unterminated"); err == nil {
		t.Error("expected error for a malformed glob")
	}
}

func TestPublish_RefusedWithoutTerminal(t *testing.T) {
	setupEnv(t, "memory")

	_, err := executeCommand(t, "y\n", "publish", "q1")
	if !errors.Is(err, errNotInteractive) {
		t.Errorf("error = %v, want errNotInteractive", err)
	}
}

func TestPublish_Yes(t *testing.T) {
	setupEnv(t, "memory")

	out, err := executeCommand(t, "", "publish", "q1", "--yes")
	if err != nil {
		t.Fatalf("publish error = %v", err)
	}
	if !strings.Contains(out, "Quiz published") {
		t.Errorf("output = %q", out)
	}
}

func TestPublish_Prompt(t *testing.T) {
	setupEnv(t, "memory")
	orig := isTerminal
	isTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { isTerminal = orig })

	out, err := executeCommand(t, "y\n", "publish", "q1")
	if err != nil {
		t.Fatalf("publish error = %v", err)
	}
	if !strings.Contains(out, "Publish quiz?") || !strings.Contains(out, "Quiz published") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand(t, "n\n", "publish", "q1")
	if err != nil {
		t.Fatalf("publish error = %v", err)
	}
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("declined prompt should cancel, got %q", out)
	}
}

func TestMutation_Rejections(t *testing.T) {
	setupEnv(t, "memory")

	tests := []struct {
		name string
		args []string
		is   error
		msg  string
	}{
		{"publish closed quiz", []string{"publish", "q4", "--yes"}, errors.ErrActionNotAllowed, ""},
		{"delete published quiz", []string{"delete", "q3", "--yes"}, errors.ErrActionNotAllowed, ""},
		{"unknown quiz", []string{"delete", "nope", "--yes"}, errors.ErrQuizNotFound, ""},
		{"store refuses delete", []string{"delete", "q2", "--yes"}, nil, "Quiz has submissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if tt.msg != "" && err.Error() != tt.msg {
				t.Errorf("error = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestSeedAndManageSQLite(t *testing.T) {
	dir := setupEnv(t, "sqlite")

	out, err := executeCommand(t, "", "seed")
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}
	if !strings.Contains(out, "Seeded 5 quizzes") {
		t.Errorf("seed output = %q", out)
	}

	out, err = executeCommand(t, "", "list", "--state", "draft")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "2 of 5 quizzes") {
		t.Errorf("list output = %q", out)
	}

	fixture := filepath.Join(dir, "fixture.yaml")
	content := "quizzes:\n  - id: custom-1\n    title: Custom quiz\n    status: draft\n"
	if err := os.WriteFile(fixture, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(t, "", "seed", "--reset", "--file", fixture); err != nil {
		t.Fatalf("seed --reset error = %v", err)
	}

	if _, err := executeCommand(t, "", "delete", "custom-1", "--yes"); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	out, err = executeCommand(t, "", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "No quizzes.") {
		t.Errorf("store should be empty after delete, got %q", out)
	}
}

func TestSeed_RequiresSQLite(t *testing.T) {
	setupEnv(t, "memory")
	if _, err := executeCommand(t, "", "seed"); err == nil {
		t.Error("seed should refuse non-sqlite backends")
	}
}

func TestAccessRequired(t *testing.T) {
	setupEnv(t, "memory")
	t.Setenv("QUIZDESK_ACCESS_REQUIRED", "true")

	_, err := executeCommand(t, "", "publish", "q1", "--yes")
	if !errors.Is(err, errors.ErrAccessDenied) {
		t.Errorf("error = %v, want ErrAccessDenied", err)
	}

	// list is read-only and not gated, but says so
	out, err := executeCommand(t, "", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, readOnlyNotice) {
		t.Errorf("list should flag read-only access:\n%s", out)
	}
}

func TestConfigValidate(t *testing.T) {
	setupEnv(t, "memory")
	out, err := executeCommand(t, "", "config", "validate")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Configuration is valid.") {
		t.Errorf("output = %q", out)
	}

	t.Setenv("QUIZDESK_GATEWAY_BACKEND", "ftp")
	out, err = executeCommand(t, "", "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "gateway.backend") {
		t.Errorf("output should name the field, got %q", out)
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	setupEnv(t, "memory")
	t.Setenv("QUIZDESK_API_TOKEN", "super-secret-token")

	out, err := executeCommand(t, "", "config", "show")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if strings.Contains(out, "super-secret-token") {
		t.Error("token should be masked")
	}
	for _, want := range []string{"gateway:", "backend: memory", "********"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	dir := setupEnv(t, "memory")

	out, err := executeCommand(t, "", "config", "init")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	path := filepath.Join(dir, "quizdesk", "config.yaml")
	if !strings.Contains(out, path) {
		t.Errorf("output = %q, want path %s", out, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, err := executeCommand(t, "", "config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestConfigThemes(t *testing.T) {
	setupEnv(t, "memory")
	t.Setenv("QUIZDESK_TUI_THEME", "nord")

	out, err := executeCommand(t, "", "config", "themes")
	if err != nil {
		t.Fatalf("themes error = %v", err)
	}
	for _, want := range []string{"default", "dracula", "* nord", "solarized-light", "Draft", "Closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
