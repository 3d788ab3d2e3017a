package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

// Styles is the set of lipgloss styles derived from one palette.
type Styles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Text     lipgloss.Style

	// Quiz table
	TableHeader lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	StateBadge  lipgloss.Style

	// Action hints for the selected quiz
	ActionEnabled  lipgloss.Style
	ActionDisabled lipgloss.Style

	// Confirmation dialog
	Dialog            lipgloss.Style
	DialogDestructive lipgloss.Style
	Button            lipgloss.Style
	ButtonDanger      lipgloss.Style
	ButtonDisabled    lipgloss.Style

	// Feedback banner
	SuccessMsg lipgloss.Style
	ErrorMsg   lipgloss.Style

	Detail  lipgloss.Style
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles builds styles from p.
func NewStyles(p *ColorPalette) *Styles {
	return &Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Muted: lipgloss.NewStyle().Foreground(p.Muted),
		Text:  lipgloss.NewStyle().Foreground(p.Text),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		Row: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		RowSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		StateBadge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		ActionEnabled: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		ActionDisabled: lipgloss.NewStyle().
			Foreground(p.Muted).
			Strikethrough(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		DialogDestructive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Padding(1, 2),
		Button: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Padding(0, 2),
		ButtonDanger: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Error).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Surface).
			Padding(0, 2),

		SuccessMsg: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),
		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),
	}
}

// StateColor returns the badge color for a lifecycle category.
func (s *Styles) StateColor(c lifecycle.Category) lipgloss.Color {
	switch c {
	case lifecycle.CategoryDraft:
		return s.Palette.StateDraft
	case lifecycle.CategoryPublished:
		return s.Palette.StatePublished
	case lifecycle.CategoryClosed:
		return s.Palette.StateClosed
	default:
		return s.Palette.StateUnknown
	}
}

// Badge renders the state label in its category color.
func (s *Styles) Badge(state lifecycle.State) string {
	d := lifecycle.Describe(state)
	return s.StateBadge.Foreground(s.StateColor(d.Category)).Render(d.Label)
}

var active = NewStyles(DefaultPalette())

// SetActiveTheme switches the styles returned by Active.
func SetActiveTheme(name string) error {
	if !IsValidTheme(name) {
		return fmt.Errorf("unknown theme %q", name)
	}
	active = NewStyles(GetPalette(ThemeName(name)))
	return nil
}

// Active returns the current styles.
func Active() *Styles {
	return active
}
