// Package components provides reusable TUI widgets for the finsim dashboard.
package components

import (
	"strings"

	"finsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// cardMinContent is the narrowest content width a card will render at;
// below this the terminal is too small for the layout to mean anything.
const cardMinContent = 10

// Metric is one headline figure on the dashboard. Delta is an optional
// third line, typically a signed change against the previous month.
type Metric struct {
	Label string
	Value string
	Delta string
}

// cardFrame is the rounded-border style shared by every card. outerWidth
// includes the border; lipgloss wants the inner width.
func cardFrame(outerWidth int) lipgloss.Style {
	w := outerWidth - 2
	if w < cardMinContent {
		w = cardMinContent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(w).
		Padding(0, 1)
}

// LayoutRow distributes totalWidth into n widths that sum to exactly
// totalWidth. First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// MetricCard renders one metric as a small bordered card. outerWidth is the
// total rendered width including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label))
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(m.Value))
	if m.Delta != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Delta))
	}

	return cardFrame(outerWidth).Render(content.String())
}

// MetricCardRow renders metrics side by side, dividing totalWidth between
// them so the row edge lines up with the cards below it.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ContentCard renders a bordered card with an optional bold title line
// above the body. outerWidth is the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	content := body
	if title != "" {
		titled := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true).Render(title)
		content = titled + "\n" + body
	}
	return cardFrame(outerWidth).Render(content)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth returns the usable text width inside a ContentCard given
// its outer width (border plus one cell of padding per side).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4
	if w < cardMinContent {
		w = cardMinContent
	}
	return w
}
