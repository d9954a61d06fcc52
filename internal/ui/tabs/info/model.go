// Package info provides the info tab: network and faucet configuration,
// the connected wallet and build information.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sui-faucet-tui/internal/app"
	"github.com/j-veylop/sui-faucet-tui/internal/config"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	CopyPackage key.Binding
	CopyFaucet  key.Binding
	CopyAddress key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CopyPackage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy package id"),
		),
		CopyFaucet: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "copy faucet object id"),
		),
		CopyAddress: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "copy wallet address"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.CopyPackage):
		if m.config != nil {
			return m, copyCmd(m.config.PackageID)
		}
	case key.Matches(keyMsg, m.keys.CopyFaucet):
		if m.config != nil {
			return m, copyCmd(m.config.FaucetObjectID)
		}
	case key.Matches(keyMsg, m.keys.CopyAddress):
		return m, copyCmd(m.state.Address())
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}
	return m, nil
}

func copyCmd(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: text}
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.CopyPackage,
		m.keys.CopyFaucet,
		m.keys.CopyAddress,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CopyPackage, m.keys.CopyFaucet, m.keys.CopyAddress},
		{m.keys.Up, m.keys.Down},
	}
}
