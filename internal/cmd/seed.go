package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/quizdesk/internal/config"
	"github.com/Iron-Ham/quizdesk/internal/gateway/sqlitestore"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

var (
	seedFile  string
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load quizzes into the local SQLite store",
	Long: `Load quizzes into the local SQLite store.

Without --file the built-in sample set is used. Fixture files are YAML:

  quizzes:
    - title: Fractions warm-up
      status: draft
      question_count: 10

Quizzes with an id replace the existing row; others get a new id.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture to load")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete every quiz before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Gateway.Backend != config.BackendSQLite {
		return fmt.Errorf("seed only works with the sqlite backend (configured: %s)", cfg.Gateway.Backend)
	}

	quizzes, err := loadFixture(seedFile)
	if err != nil {
		return err
	}

	store, err := sqlitestore.Open(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("failed to open quiz store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if seedReset {
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
	}
	stored, err := store.Upsert(ctx, quizzes)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d quizzes into %s\n", len(stored), store.Path())
	return nil
}

func loadFixture(path string) ([]quiz.Quiz, error) {
	if path == "" {
		return sqlitestore.SampleQuizzes(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sqlitestore.ParseFixture(f)
}
