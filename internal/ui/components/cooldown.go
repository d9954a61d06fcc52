package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
	"github.com/j-veylop/sui-faucet-tui/internal/ui/styles"
)

const (
	cooldownFrom = "#ffd93d"
	cooldownTo   = "#4da2ff"
)

// CooldownBar shows how much of the claim cooldown has elapsed.
type CooldownBar struct {
	progress progress.Model
}

// NewCooldownBar creates a cooldown bar with a yellow to blue gradient.
func NewCooldownBar() CooldownBar {
	return CooldownBar{
		progress: progress.New(
			progress.WithScaledGradient(cooldownFrom, cooldownTo),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders the bar filled to elapsed (0..1) followed by label.
func (c CooldownBar) View(elapsed float64, label string, width int) string {
	c.progress.Width = max(width-len(label)-2, 10)

	bar := c.progress.ViewAs(clamp01(elapsed))
	text := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, "  ", text)
}

// CooldownElapsed returns the elapsed share of period given the time left.
func CooldownElapsed(remainingMs, periodMs int64) float64 {
	if periodMs <= 0 {
		return 1
	}
	return clamp01(1 - float64(remainingMs)/float64(periodMs))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// RenderGradientBar renders a bar filled to percent (0..100) with a
// cooldown gradient, without bubbles/progress.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(cooldownFrom, cooldownTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return b.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
