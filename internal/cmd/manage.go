package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/quizdesk/internal/config"
	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/tui"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Open the interactive quiz screen",
	Long: `Open the interactive quiz screen.

Keys: p publish, d delete, enter/y confirm, esc/n cancel, x dismiss,
r refresh, f cycle the state filter, e/v open details, q quit.`,
	Args: cobra.NoArgs,
	RunE: runManage,
}

func init() {
	rootCmd.AddCommand(manageCmd)
}

func runManage(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := rt.checkAccess(); err != nil {
		return err
	}
	if err := styles.SetActiveTheme(rt.cfg.TUI.Theme); err != nil {
		rt.logger.Warn("falling back to default theme", "error", err)
	}

	coord := coordinator.New(rt.gateway, coordinator.Options{
		FeedbackTTL: rt.cfg.TUI.FeedbackTimeout,
		Logger:      rt.logger,
	})

	var watcher *tui.Watcher
	if rt.cfg.Gateway.Backend == config.BackendSQLite && rt.cfg.Store.Watch {
		watcher, err = tui.NewWatcher(rt.cfg.StorePath())
		if err != nil {
			rt.logger.Warn("store watch disabled", "error", err)
			watcher = nil
		}
	}

	app := tui.New(coord, tui.Options{
		ShowHelp: rt.cfg.TUI.ShowHelp,
		Watcher:  watcher,
		Logger:   rt.logger,
	})
	return app.Run()
}
