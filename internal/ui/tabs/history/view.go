package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/config"
	"github.com/j-veylop/sui-faucet-tui/internal/faucet"
	"github.com/j-veylop/sui-faucet-tui/internal/models"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/components"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && m.balance == nil {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}

	sections := []string{
		m.renderHeader(),
		m.renderBalanceChart(),
		m.renderOutlook(),
		m.renderSummary(),
		m.renderTransactions(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading history data..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("History")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if m.balance.HasData() {
		first := m.balance.Snapshots[0].Timestamp.Local()
		last, _ := m.balance.Latest()
		subtitle = styles.HelpStyle.Render(fmt.Sprintf("Snapshots: %s → %s (%d)",
			first.Format("Jan 2 15:04"),
			last.Timestamp.Local().Format("Jan 2 15:04"),
			len(m.balance.Snapshots),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderBalanceChart() string {
	cardWidth := m.cardWidth()

	rows := []string{
		styles.CardTitleStyle.Render("◈ Faucet Balance"),
		"",
	}

	series := m.balance.Series(config.MistPerSui)
	chart := components.RenderBalanceChart(series, max(cardWidth-16, 30), 8,
		fmt.Sprintf("SUI over %s", strings.ToLower(m.timeRange.String())))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	if m.balance.HasData() {
		lo, hi := m.balance.Range()
		rows = append(rows, "",
			fmt.Sprintf("  Low %s · High %s  %s",
				styles.StatValueStyle.Render(faucet.FormatBalance(lo)),
				styles.StatValueStyle.Render(faucet.FormatBalance(hi)),
				components.RenderSparkline(series, 40),
			))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderOutlook() string {
	p := m.projection
	rows := []string{styles.CardTitleStyle.Render("◈ Outlook"), ""}

	if p == nil || p.Status == models.ProjectionUnknown {
		rows = append(rows, styles.HelpStyle.Render("  Not enough snapshots to project the balance yet"))
		return styles.CardStyle.Width(m.cardWidth()).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	status := styles.ProjectionStyle(string(p.Status)).Render(string(p.Status))
	rows = append(rows, fmt.Sprintf("  %s  runs dry in %s  %s",
		status,
		styles.StatValueStyle.Render(p.FormatTimeLeft()),
		styles.HelpStyle.Render(fmt.Sprintf("(%s confidence, %d snapshots)", p.Confidence, p.DataPoints)),
	))

	perHour := func(mist float64) string {
		return faucet.FormatBalance(uint64(max(mist, 0))) + " SUI/h"
	}
	rows = append(rows, fmt.Sprintf("  Claimed %s · Deposited %s · %d claims left",
		perHour(p.DrainPerHour), perHour(p.RefillPerHour), p.ClaimsLeft))
	if p.VsEarlier != "" {
		rows = append(rows, styles.HelpStyle.Render("  "+p.VsEarlier))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSummary() string {
	cardWidth := m.cardWidth()
	s := m.summary
	if s == nil {
		s = &models.TransactionSummary{}
	}

	lastClaim := "never"
	if !s.LastClaim.IsZero() {
		lastClaim = s.LastClaim.Local().Format("2006-01-02 15:04:05")
	}
	failStyle := styles.StatValueStyle
	if s.Failures > 0 {
		failStyle = styles.WarningTextStyle.Bold(true)
	}

	cells := []components.StatCell{
		{Label: "Claims", Value: fmt.Sprintf("%d (%s SUI)", s.Claims, faucet.FormatSui(s.ClaimedMist))},
		{Label: "Deposits", Value: fmt.Sprintf("%d (%s SUI)", s.Deposits, faucet.FormatSui(s.DepositedMist))},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failures), Style: &failStyle},
		{Label: "Last Claim", Value: lastClaim},
	}

	rows := []string{
		styles.CardTitleStyle.Render("◈ Your Activity"),
		"",
		components.RenderStatsGrid(cells, cardWidth-6, 2),
	}
	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTransactions() string {
	cardWidth := m.cardWidth()

	rows := []string{
		styles.CardTitleStyle.Render("◈ Recent Transactions"),
		"",
	}

	if len(m.transactions) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No claims or deposits sent from this client yet"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	header := fmt.Sprintf("%-19s  %-8s  %-9s  %14s  %s", "Time", "Kind", "Status", "Amount", "Digest")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for _, tx := range m.transactions {
		detail := faucet.TruncateID(tx.Digest)
		if !tx.Succeeded() && tx.Error != "" {
			detail = tx.Error
		}
		if maxDetail := cardWidth - 70; maxDetail > 3 && len(detail) > maxDetail {
			detail = detail[:maxDetail-3] + "..."
		}

		status := styles.TxStatusStyle(string(tx.Status)).Render(fmt.Sprintf("%-9s", tx.Status))
		rows = append(rows, fmt.Sprintf("%-19s  %-8s  %s  %14s  %s",
			tx.Timestamp.Local().Format("2006-01-02 15:04:05"),
			tx.Kind,
			status,
			faucet.FormatSui(tx.AmountMist)+" SUI",
			styles.HelpStyle.Render(detail),
		))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
