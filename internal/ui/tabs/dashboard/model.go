// Package dashboard provides the faucet tab: wallet header, faucet stats,
// the claim control and the deposit form.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sui-faucet-tui/internal/app"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/components"
	"github.com/j-veylop/sui-faucet-tui/internal/wallet"
)

// keyMap defines the key bindings specific to the faucet tab.
type keyMap struct {
	Claim   key.Binding
	Deposit key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Claim: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "claim"),
		),
		Deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit deposit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the faucet tab state.
type Model struct {
	state       *app.State
	spinner     components.LoadingSpinner
	cooldownBar components.CooldownBar
	deposit     textinput.Model
	keys        keyMap
	viewport    viewport.Model
	now         func() time.Time
	width       int
	height      int
}

// New creates the faucet tab.
func New(state *app.State) *Model {
	in := textinput.New()
	in.Placeholder = "Amount in SUI"
	in.CharLimit = 32
	in.Width = 20
	in.Prompt = "› "

	return &Model{
		state:       state,
		spinner:     components.NewSpinner("Loading faucet stats..."),
		cooldownBar: components.NewCooldownBar(),
		deposit:     in,
		keys:        defaultKeyMap(),
		viewport:    viewport.New(0, 0),
		now:         time.Now,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case app.ServiceEventMsg:
		m.handleServiceEvent(msg.Event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		if m.deposit.Focused() {
			var cmd tea.Cmd
			m.deposit, cmd = m.deposit.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) {
	switch e := event.(type) {
	case services.ActionResultEvent:
		if e.Kind == faucet.ActionDeposit && e.Error == nil {
			m.deposit.Reset()
		}
	case services.WalletEvent:
		if e.Type == wallet.EventDisconnected {
			m.blurDeposit()
			m.deposit.Reset()
		}
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.deposit.Focused() {
		return m.handleDepositKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Claim):
		return func() tea.Msg { return app.ClaimMsg{} }
	case key.Matches(msg, m.keys.Deposit):
		if !m.state.View().IsConnected() {
			return nil
		}
		m.state.SetInputFocused(true)
		return m.deposit.Focus()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) handleDepositKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.blurDeposit()
		return nil
	case key.Matches(msg, m.keys.Submit):
		amount := m.deposit.Value()
		m.blurDeposit()
		return func() tea.Msg { return app.DepositMsg{Amount: amount} }
	}

	var cmd tea.Cmd
	m.deposit, cmd = m.deposit.Update(msg)
	return cmd
}

func (m *Model) blurDeposit() {
	m.deposit.Blur()
	m.state.SetInputFocused(false)
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.deposit.Focused() {
		return []key.Binding{m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Claim, m.keys.Deposit}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Claim, m.keys.Deposit},
		{m.keys.Submit, m.keys.Cancel},
	}
}
