package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
)

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner is a labelled spinner shown while faucet data is in flight.
type LoadingSpinner struct {
	model spinner.Model
	label string
}

// NewSpinner returns a spinner that renders label beside it.
func NewSpinner(label string) LoadingSpinner {
	return LoadingSpinner{
		model: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		label: label,
	}
}

// Init starts the tick loop.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.model.Tick
}

// Update advances the frame on a tick.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// View renders the current frame and the label.
func (l LoadingSpinner) View() string {
	if l.label == "" {
		return l.model.View()
	}
	return l.model.View() + " " + spinnerLabelStyle.Render(l.label)
}

// Centered renders View in the middle of a width x height box.
func (l LoadingSpinner) Centered(width, height int) string {
	return styles.CenterBoth(l.View(), width, height)
}
