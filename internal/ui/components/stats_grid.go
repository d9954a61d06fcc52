package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
)

// StatCell is one labelled value in a stats grid.
type StatCell struct {
	Label string
	Value string
	Style *lipgloss.Style // overrides the value style when set
}

// RenderStatsGrid lays cells out in rows of columns, each cell width/columns
// wide with its label above its value.
func RenderStatsGrid(cells []StatCell, width, columns int) string {
	if len(cells) == 0 {
		return ""
	}
	columns = max(columns, 1)
	cellWidth := max(width/columns, 12)

	var rows []string
	for start := 0; start < len(cells); start += columns {
		end := min(start+columns, len(cells))

		blocks := make([]string, 0, columns)
		for _, c := range cells[start:end] {
			valueStyle := styles.StatValueStyle
			if c.Style != nil {
				valueStyle = *c.Style
			}
			block := lipgloss.JoinVertical(lipgloss.Left,
				styles.StatLabelStyle.Render(c.Label),
				valueStyle.Render(c.Value),
			)
			blocks = append(blocks, lipgloss.NewStyle().Width(cellWidth).Render(block))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
