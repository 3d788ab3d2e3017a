package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/quizdesk/internal/coordinator"
)

// App wraps the Bubble Tea program.
type App struct {
	program *tea.Program
	model   Model
	watcher *Watcher
}

// New creates the TUI application around coord.
func New(coord *coordinator.Coordinator, opts Options) *App {
	return &App{
		model:   NewModel(coord, opts),
		watcher: opts.Watcher,
	}
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run() error {
	defer func() { _ = a.watcher.Close() }()

	a.program = tea.NewProgram(a.model, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigChan)
		close(done)
	}()

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-done:
		}
	}()

	_, err := a.program.Run()
	return err
}
