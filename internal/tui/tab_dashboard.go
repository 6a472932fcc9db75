package tui

import (
	"fmt"
	"strings"

	"finsim/internal/cli"
	"finsim/internal/engine"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	state := a.eng.Snapshot()
	currency := a.currency()
	var b strings.Builder

	// Row 1: headline metrics
	cards := []components.Metric{
		{Label: "Balance", Value: cli.FormatMoney(state.CurrentBalance, currency), Delta: ""},
		{Label: "Savings", Value: cli.FormatMoney(state.Savings, currency), Delta: ""},
		{Label: "Debt", Value: cli.FormatMoney(state.Debt, currency), Delta: ""},
		{Label: "Income", Value: cli.FormatMoney(state.VirtualIncome, currency), Delta: "per month"},
	}
	if n := len(a.eng.History()); n > 0 {
		last := a.eng.History()[n-1]
		cards[0].Delta = cli.FormatSigned(state.CurrentBalance-last.RemainingBalance) + " vs last month"
		cards[1].Delta = cli.FormatSigned(state.Savings-last.TotalSavings) + " vs last month"
		cards[2].Delta = cli.FormatSigned(state.Debt-last.TotalDebt) + " vs last month"
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: wellbeing meters + budget summary
	halves := components.LayoutRow(cw, 2)
	innerW := components.CardInnerWidth(halves[0])

	barW := innerW - 22
	if barW < 10 {
		barW = 10
	}
	var wellBody strings.Builder
	wellBody.WriteString(components.IndexBar("Stability", state.StabilityIndex, false, 10, barW))
	wellBody.WriteString("\n")
	wellBody.WriteString(components.IndexBar("Stress", state.StressLevel, true, 10, barW))
	wellCard := components.ContentCard("Wellbeing", wellBody.String(), halves[0])

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	total := a.eng.TotalAllocated()
	remaining := a.eng.RemainingBudget()
	budInnerW := components.CardInnerWidth(halves[1])
	budBarW := budInnerW - 8
	if budBarW < 10 {
		budBarW = 10
	}
	var budBody strings.Builder
	budBody.WriteString(components.ProgressBar(total/100, budBarW))
	budBody.WriteString("\n")
	budBody.WriteString(labelStyle.Render("Allocated: ") + valueStyle.Render(cli.FormatPercent(total)))
	budBody.WriteString(labelStyle.Render("   Unallocated: "))
	if remaining < 0 {
		budBody.WriteString(warnStyle.Render(cli.FormatMoney(remaining, currency) + " (over budget)"))
	} else {
		budBody.WriteString(valueStyle.Render(cli.FormatMoney(remaining, currency)))
	}
	budCard := components.ContentCard("Budget", budBody.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Wellbeing", wellBody.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Budget", budBody.String(), cw))
	} else {
		b.WriteString(components.CardRow([]string{wellCard, budCard}))
	}
	b.WriteString("\n")

	// Row 3: spending limits, when configured
	if usage := a.eng.RestrictionUsage(); len(usage) > 0 {
		b.WriteString(a.renderLimitsCard(usage, cw))
		b.WriteString("\n")
	}

	// Pending scenario notice
	if sc, ok := a.eng.ActiveScenario(); ok {
		noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
		hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := noticeStyle.Render(sc.Title) + "\n" +
			hintStyle.Render("A scenario is waiting — open the Scenario tab to decide.")
		b.WriteString(components.ContentCard("⚡ Life Event", body, cw))
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	b.WriteString(hintStyle.Render("  [a] allocate  [s] scenario  [M] end month  [?] help"))

	return b.String()
}

// renderLimitsCard shows utilization of every configured spending guardrail.
func (a App) renderLimitsCard(usage []engine.RestrictionUsage, cw int) string {
	t := theme.Active
	currency := a.currency()
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	exceedStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	labelW := 16
	barW := innerW - labelW - 30
	if barW < 10 {
		barW = 10
	}

	var body strings.Builder
	for _, u := range usage {
		label := limitLabel(u)
		pct := u.Percent / 100

		body.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(label, labelW))))
		body.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(" "))
		body.WriteString(components.ProgressBar(pct, barW))
		body.WriteString(labelStyle.Render("  " + cli.FormatMoney(u.Spent, currency) + " / " + cli.FormatMoney(u.Limit, currency)))
		switch {
		case u.Exceeded:
			body.WriteString(exceedStyle.Render("  over limit"))
		case u.Warning:
			body.WriteString(warnStyle.Render("  near limit"))
		}
		body.WriteString("\n")
	}

	return components.ContentCard("Spending Limits", body.String(), cw)
}

func limitLabel(u engine.RestrictionUsage) string {
	switch u.Dimension {
	case engine.ReasonDailyLimit:
		return "Daily"
	case engine.ReasonMonthlyCap:
		return "Monthly"
	default:
		return u.CategoryID
	}
}
