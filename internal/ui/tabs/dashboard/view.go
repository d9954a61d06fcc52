package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/components"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
)

// View renders the faucet tab.
func (m *Model) View() string {
	view := m.state.View()

	var sections []string
	sections = append(sections, m.renderTitle())

	if !view.IsConnected() {
		sections = append(sections, m.renderConnectPrompt())
	} else {
		sections = append(sections, m.renderWalletHeader(view))
		if banner := m.renderMessages(view); banner != "" {
			sections = append(sections, banner)
		}
		if view.Stats == nil {
			sections = append(sections, m.renderLoading(view))
		} else {
			sections = append(sections,
				m.renderStats(*view.Stats),
				m.renderClaim(view),
				m.renderDeposit(view),
			)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Sui Faucet")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"Claim %d SUI every %d hours, or top the faucet up", config.ClaimAmount, config.CooldownHours))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderConnectPrompt() string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	rows := []string{
		fmt.Sprintf("%s %s", icon, styles.HelpStyle.Render("No wallet connected")),
		"",
		styles.InfoTextStyle.Render("╰─▶ Press c to connect your wallet"),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderWalletHeader(view faucet.ViewState) string {
	icon := lipgloss.NewStyle().Foreground(styles.Success).Render("●")
	line := fmt.Sprintf("%s %s %s", icon,
		styles.StatLabelStyle.Render("Wallet"),
		styles.StatValueStyle.Render(faucet.TruncateID(view.Address)))

	if bal := m.state.WalletBalance(); bal != nil {
		line += styles.HelpStyle.Render("  ·  ") +
			styles.StatValueStyle.Render(faucet.FormatBalance(*bal)+" SUI")
	}
	return line + "\n"
}

func (m *Model) renderMessages(view faucet.ViewState) string {
	width := m.cardWidth()
	switch {
	case view.Err != "":
		return styles.MessageErrorStyle.Width(width).Render("✗ " + view.Err)
	case view.Success != "":
		return styles.MessageSuccessStyle.Width(width).Render("✓ " + view.Success)
	}
	return ""
}

func (m *Model) renderLoading(view faucet.ViewState) string {
	if !view.Loading && view.Err != "" {
		return styles.HelpStyle.Render("Press r to retry")
	}
	return m.spinner.Centered(m.cardWidth(), 5)
}

func (m *Model) renderStats(stats faucet.FaucetStats) string {
	balanceStyle := styles.BalanceStyle(float64(stats.RawBalance) /
		float64(uint64(config.ClaimAmount)*config.MistPerSui))

	cells := []components.StatCell{
		{Label: "Faucet Balance", Value: stats.Balance + " SUI", Style: &balanceStyle},
		{Label: "Claim Amount", Value: stats.ClaimAmount + " SUI"},
		{Label: "Cooldown", Value: stats.CooldownPeriod + " hours"},
		{Label: "Last Claim", Value: faucet.FormatLastClaim(stats.LastClaimTime)},
	}

	rows := []string{
		styles.CardTitleStyle.Render("◈ Faucet Stats"),
		"",
		components.RenderStatsGrid(cells, m.cardWidth()-6, 2),
	}
	if stats.LowBalance() {
		rows = append(rows, styles.WarningTextStyle.Render("⚠ Faucet balance is below one claim"))
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderClaim(view faucet.ViewState) string {
	rows := []string{styles.CardTitleStyle.Render("◈ Claim"), ""}

	label := fmt.Sprintf("Claim %d SUI", config.ClaimAmount)
	switch {
	case view.Submitting:
		rows = append(rows, styles.ButtonInactiveStyle.Render("Claiming..."))
	case view.ClaimEnabled():
		rows = append(rows,
			styles.ButtonActiveStyle.Render(label)+styles.HelpStyle.Render(" enter"))
	default:
		rows = append(rows, styles.ButtonInactiveStyle.Render(label))
		left := view.Stats.Remaining(m.now())
		countdown := faucet.FormatCountdown(left.Milliseconds())
		rows = append(rows,
			"",
			styles.StatLabelStyle.Render("Next claim in ")+styles.WarningTextStyle.Render(countdown),
			m.cooldownBar.View(
				components.CooldownElapsed(left.Milliseconds(), faucet.CooldownMs),
				countdown,
				m.cardWidth()-6,
			),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDeposit(view faucet.ViewState) string {
	rows := []string{styles.CardTitleStyle.Render("◈ Deposit"), ""}

	field := m.deposit.View()
	if m.deposit.Focused() {
		field = styles.FocusedBorderStyle.Render(field)
	} else {
		field = styles.BlurredBorderStyle.Render(field)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, field, " ", styles.HelpStyle.Render("SUI")))

	var hint []string
	switch {
	case view.Submitting:
		hint = append(hint, "transaction in flight")
	case m.deposit.Focused():
		hint = append(hint, "enter submit", "esc cancel")
	default:
		hint = append(hint, "d to enter an amount")
	}
	rows = append(rows, styles.HelpStyle.Render(strings.Join(hint, " · ")))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
