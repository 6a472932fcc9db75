package tui

import (
	"fmt"
	"strings"

	"finsim/internal/cli"
	"finsim/internal/model"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scenState tracks the scenario tab state.
type scenState struct {
	cursor int
}

func (a App) updateScenarioKeys(key string) (tea.Model, tea.Cmd, bool) {
	sc, active := a.eng.ActiveScenario()

	switch key {
	case "t":
		if active {
			a.setFlash("decide on the current scenario first")
			return a, nil, true
		}
		drawn := a.eng.TriggerScenario()
		a.scen.cursor = 0
		a.persist()
		a.setFlash("new scenario: " + drawn.Title)
		return a, nil, true
	case "j", "down":
		if active {
			a.scen.cursor = clampInt(a.scen.cursor+1, 0, len(sc.Options)-1)
		}
		return a, nil, true
	case "k", "up":
		if active {
			a.scen.cursor = clampInt(a.scen.cursor-1, 0, len(sc.Options)-1)
		}
		return a, nil, true
	case "enter":
		if !active || a.scen.cursor >= len(sc.Options) {
			return a, nil, true
		}
		opt := sc.Options[a.scen.cursor]
		if err := a.eng.ApplyChoice(opt.ID); err != nil {
			a.setFlash(err.Error())
			return a, nil, true
		}
		a.persist()
		a.setFlash("chose: " + opt.Label)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderScenarioTab(cw int) string {
	t := theme.Active
	sc, active := a.eng.ActiveScenario()

	if !active {
		mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		hintStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
		body := mutedStyle.Render("No life event is pending.") + "\n\n" +
			mutedStyle.Render("Press ") + hintStyle.Render("t") +
			mutedStyle.Render(" to draw a random scenario and test your budget against it.")
		return components.ContentCard("Scenario", body, cw)
	}

	titleStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder

	var head strings.Builder
	head.WriteString(titleStyle.Render(sc.Title))
	head.WriteString("\n\n")
	head.WriteString(descStyle.Render(wrapText(sc.Description, components.CardInnerWidth(cw))))
	b.WriteString(components.ContentCard("⚡ Life Event", head.String(), cw))
	b.WriteString("\n")

	var opts strings.Builder
	for i, opt := range sc.Options {
		opts.WriteString(a.renderScenarioOption(opt, i == a.scen.cursor, cw))
		opts.WriteString("\n")
	}
	opts.WriteString(mutedStyle.Render("[j/k] navigate  [Enter] choose"))
	b.WriteString(components.ContentCard("Your Options", opts.String(), cw))

	return b.String()
}

func (a App) renderScenarioOption(opt model.ScenarioOption, selected bool, cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	if selected {
		labelStyle = labelStyle.Background(t.SurfaceBright).Foreground(t.AccentBright)
	}

	marker := "  "
	if selected {
		marker = markerStyle.Render("▸ ")
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(labelStyle.Render(opt.Label))
	b.WriteString("\n    ")
	b.WriteString(descStyle.Render(truncStr(opt.Description, innerW-4)))
	b.WriteString("\n    ")
	b.WriteString(renderImpact(opt.Impact))
	b.WriteString("\n")
	return b.String()
}

// renderImpact summarizes the non-zero effects of one option.
func renderImpact(im model.ScenarioImpact) string {
	t := theme.Active

	part := func(label string, v float64) string {
		if v == 0 {
			return ""
		}
		style := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		if v < 0 {
			style = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		}
		return style.Render(fmt.Sprintf("%s %s  ", label, cli.FormatSigned(v)))
	}

	// Debt and stress are inverted: an increase is bad
	inverted := func(label string, v float64) string {
		if v == 0 {
			return ""
		}
		style := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		if v > 0 {
			style = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		}
		return style.Render(fmt.Sprintf("%s %s  ", label, cli.FormatSigned(v)))
	}

	return part("balance", im.Balance) +
		part("savings", im.Savings) +
		inverted("debt", im.Debt) +
		part("stability", im.Stability) +
		inverted("stress", im.Stress)
}

// wrapText wraps s at word boundaries to the given width.
func wrapText(s string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > width {
			b.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
