package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of the quiz screen.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Publish key.Binding
	Delete  key.Binding
	Edit    key.Binding
	Results key.Binding
	Detail  key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding

	// Dialog bindings. Close doubles as "close detail pane" outside a dialog.
	Confirm key.Binding
	Close   key.Binding

	ForceQuit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Publish: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "publish"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Results: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "results"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "cancel"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// ShortHelp implements help.KeyMap for the list screen.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Publish, k.Delete, k.Filter, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the list screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},
		{k.Publish, k.Delete, k.Edit, k.Results},
		{k.Filter, k.Refresh, k.Dismiss},
		{k.Help, k.Quit},
	}
}

// dialogKeys is the help.KeyMap shown while a confirmation is open.
type dialogKeys struct{ k KeyMap }

func (d dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{d.k.Confirm, d.k.Close}
}

func (d dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{d.ShortHelp()}
}
