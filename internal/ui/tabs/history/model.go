// Package history provides the history tab: the recorded faucet balance
// and the claims and deposits sent from this client.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sui-faucet-tui/internal/app"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
	"github.com/j-veylop/sui-faucet-tui/internal/services"
)

// recentLimit is how many transactions the table shows.
const recentLimit = 15

// Source is where the tab reads recorded history from.
type Source interface {
	GetBalanceHistory(timeRange models.TimeRange) (*models.BalanceHistory, error)
	GetRecentTransactions(limit int) ([]models.TransactionRecord, error)
	GetTransactionSummary() (*models.TransactionSummary, error)
	GetDrainProjection() (*models.DrainProjection, error)
}

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	ToggleRange key.Binding
	Reload      key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Reload: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "reload history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// historyLoadedMsg carries one load of every history view.
type historyLoadedMsg struct {
	balance      *models.BalanceHistory
	transactions []models.TransactionRecord
	summary      *models.TransactionSummary
	projection   *models.DrainProjection
	timeRange    models.TimeRange
}

// historyErrorMsg is sent when loading history fails.
type historyErrorMsg struct {
	err string
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	source   Source
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	timeRange    models.TimeRange
	balance      *models.BalanceHistory
	transactions []models.TransactionRecord
	summary      *models.TransactionSummary
	projection   *models.DrainProjection
	loading      bool
	lastRefresh  time.Time
	errorMsg     string
}

// New creates the history tab. A nil source leaves the tab in its error
// state.
func New(state *app.State, source Source) *Model {
	return &Model{
		state:     state,
		source:    source,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeRange: models.TimeRange7Days,
	}
}

// Init loads the history.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadHistoryCmd()
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	source, timeRange := m.source, m.timeRange
	return func() tea.Msg {
		if source == nil {
			return historyErrorMsg{err: "history database not available"}
		}

		balance, err := source.GetBalanceHistory(timeRange)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		txs, err := source.GetRecentTransactions(recentLimit)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		summary, err := source.GetTransactionSummary()
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		projection, err := source.GetDrainProjection()
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		return historyLoadedMsg{
			balance:      balance,
			transactions: txs,
			summary:      summary,
			projection:   projection,
			timeRange:    timeRange,
		}
	}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.timeRange != m.timeRange {
			break
		}
		m.balance = msg.balance
		m.transactions = msg.transactions
		m.summary = msg.summary
		m.projection = msg.projection
		m.loading = false
		m.lastRefresh = time.Now()
		m.errorMsg = ""

	case historyErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		cmds = append(cmds, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  fmt.Sprintf("History error: %s", msg.err),
				Duration: app.LongNotificationDuration,
			}
		})

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			cmds = append(cmds, m.reload())
		}

	case app.ServiceEventMsg:
		switch msg.Event.(type) {
		case services.ActionResultEvent, services.WalletEvent:
			cmds = append(cmds, m.reload())
		case services.StatsUpdatedEvent:
			// Snapshots are throttled in the store; reload at most once a minute.
			if time.Since(m.lastRefresh) >= time.Minute {
				cmds = append(cmds, m.reload())
			}
		}

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, tea.Batch(cmds...)
}

// reload starts a load unless one is already running.
func (m *Model) reload() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	return m.loadHistoryCmd()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
		m.loading = true
		return m, m.loadHistoryCmd()

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Reload,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Reload},
		{m.keys.Up, m.keys.Down},
	}
}
