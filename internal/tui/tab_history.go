package tui

import (
	"fmt"
	"strconv"
	"strings"

	"finsim/internal/cli"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// histState tracks the history tab state.
type histState struct {
	cursor int
}

func (a App) updateHistoryKeys(key string) (tea.Model, tea.Cmd, bool) {
	history := a.eng.History()

	switch key {
	case "j", "down":
		a.hist.cursor = clampInt(a.hist.cursor+1, 0, len(history)-1)
		return a, nil, true
	case "k", "up":
		a.hist.cursor = clampInt(a.hist.cursor-1, 0, len(history)-1)
		return a, nil, true
	case "g":
		a.hist.cursor = 0
		return a, nil, true
	case "G":
		a.hist.cursor = clampInt(len(history)-1, 0, len(history)-1)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	history := a.eng.History()

	if len(history) == 0 {
		mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		hintStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
		body := mutedStyle.Render("No months completed yet.") + "\n\n" +
			mutedStyle.Render("Press ") + hintStyle.Render("M") +
			mutedStyle.Render(" to close out the current month and start building your track record.")
		return components.ContentCard("History", body, cw)
	}

	var b strings.Builder

	// Balance trend chart
	chartVals := make([]float64, len(history))
	chartLabels := make([]string, len(history))
	for i, r := range history {
		v := r.RemainingBalance
		if v < 0 {
			v = 0
		}
		chartVals[i] = v
		chartLabels[i] = "M" + strconv.Itoa(r.Month)
	}
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Month-End Balance (%d months)", len(history)),
		components.BarChart(chartVals, chartLabels, t.Blue, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Savings and stability sparklines
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	savingsVals := make([]float64, len(history))
	stabilityVals := make([]float64, len(history))
	for i, r := range history {
		savingsVals[i] = r.TotalSavings
		stabilityVals[i] = r.StabilityIndex
	}
	var trends strings.Builder
	trends.WriteString(mutedStyle.Render("Savings    ") + components.Sparkline(savingsVals, t.Green))
	trends.WriteString("\n")
	trends.WriteString(mutedStyle.Render("Stability  ") + components.Sparkline(stabilityVals, t.Accent))
	b.WriteString(components.ContentCard("Trends", trends.String(), cw))
	b.WriteString("\n")

	// Month table, newest first, cursor-selectable
	b.WriteString(a.renderHistoryTable(cw))

	return b.String()
}

func (a App) renderHistoryTable(cw int) string {
	t := theme.Active
	history := a.eng.History()
	currency := a.currency()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %16s %16s %16s %10s %8s",
		"Month", "Balance", "Savings", "Debt", "Stability", "Stress")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", 80)))
	body.WriteString("\n")

	// Newest first; cursor 0 selects the most recent month
	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		line := fmt.Sprintf("%-8s %16s %16s %16s %10s %8s",
			cli.FormatMonth(r.Month),
			cli.FormatMoney(r.RemainingBalance, currency),
			cli.FormatMoney(r.TotalSavings, currency),
			cli.FormatMoney(r.TotalDebt, currency),
			cli.FormatIndex(r.StabilityIndex),
			cli.FormatIndex(r.StressLevel))

		if len(history)-1-i == a.hist.cursor {
			body.WriteString(selectedStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}

	return components.ContentCard("Months", body.String(), cw)
}
