package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
	"github.com/j-veylop/sui-faucet-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderNetworkCard(),
		m.renderWalletCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Network, faucet and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderNetworkCard() string {
	rows := []string{styles.CardTitleStyle.Render("Network & Faucet"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		ws := m.config.WSURL
		if ws == "" {
			ws = "polling only"
		}
		rows = append(rows,
			m.renderConfigRow("RPC", m.config.RPCURL),
			m.renderConfigRow("WebSocket", ws),
			m.renderConfigRow("Package", faucet.TruncateID(m.config.PackageID)),
			m.renderConfigRow("Faucet Object", faucet.TruncateID(m.config.FaucetObjectID)),
			m.renderConfigRow("Gas Budget", faucet.FormatSui(m.config.GasBudget)+" SUI"),
			"",
			m.renderConfigRow("Keystore", m.config.KeystorePath),
			m.renderConfigRow("Database", m.config.DatabasePath),
			m.renderConfigRow("Log File", m.config.LogPath),
			m.renderConfigRow("Notifications", strconv.FormatBool(m.config.Notifications)),
		)
	}

	rows = append(rows, "", styles.HelpStyle.Render("Press 'p' or 'o' to copy the package or faucet id"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderWalletCard() string {
	rows := []string{styles.CardTitleStyle.Render("Wallet"), ""}

	view := m.state.View()
	if !view.IsConnected() {
		rows = append(rows, styles.HelpStyle.Render("Not connected"))
	} else {
		rows = append(rows, m.renderConfigRow("Address", faucet.TruncateID(view.Address)))
		if bal := m.state.WalletBalance(); bal != nil {
			rows = append(rows, m.renderConfigRow("Balance", faucet.FormatBalance(*bal)+" SUI"))
		}
		if view.LastDigest != "" {
			rows = append(rows, m.renderConfigRow("Last Digest", view.LastDigest))
		}
		if view.Stats != nil {
			rows = append(rows, m.renderConfigRow("Clock", string(view.Stats.ClockSource)))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Sui Faucet TUI"),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
