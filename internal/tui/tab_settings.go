package tui

import (
	"fmt"
	"strings"

	"finsim/internal/advisor"
	"finsim/internal/config"
	"finsim/internal/i18n"
	"finsim/internal/model"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldLanguage = iota
	settingsFieldCurrency
	settingsFieldAPIURL
	settingsFieldAPIKey
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldLanguage:
		ti.Placeholder = "en, ru, uz"
		ti.SetValue(cfg.General.Language)
	case settingsFieldCurrency:
		ti.Placeholder = "e.g. UZS, $, so'm"
		ti.SetValue(cfg.General.CurrencyLabel)
	case settingsFieldAPIURL:
		ti.Placeholder = "https://... (empty = offline tips)"
		ti.SetValue(cfg.Advisor.APIURL)
	case settingsFieldAPIKey:
		ti.Placeholder = "advisor API key"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		if existing := config.GetAdvisorKey(cfg); existing != "" {
			ti.SetValue(existing)
		}
	case settingsFieldTheme:
		ti.Placeholder = "flexoki-dark, catppuccin-mocha, tokyo-night, terminal"
		ti.SetValue(cfg.Appearance.Theme)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldLanguage:
		cfg.General.Language = val
		a.lang = i18n.Normalize(val)
	case settingsFieldCurrency:
		cfg.General.CurrencyLabel = val
	case settingsFieldAPIURL:
		cfg.Advisor.APIURL = val
	case settingsFieldAPIKey:
		cfg.Advisor.APIKey = val
	case settingsFieldTheme:
		for _, th := range theme.All {
			if th.Name == val {
				cfg.Appearance.Theme = val
				theme.SetActive(val)
				break
			}
		}
	}

	a.settings.saveErr = config.Save(cfg)
	if a.settings.saveErr == nil {
		a.cfg = cfg
		// Advisor backend may have changed; rebuild the conversation only
		// when nothing is streaming.
		if !a.adv.streaming && (a.settings.cursor == settingsFieldAPIURL ||
			a.settings.cursor == settingsFieldAPIKey ||
			a.settings.cursor == settingsFieldLanguage) {
			a.conv = advisor.NewConversation(advisorResponder(cfg), a.lang)
			a.conv.Greet(model.AdvisorStateFrom(a.eng.Snapshot()))
		}
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	apiKeyDisplay := "(not set)"
	if existing := config.GetAdvisorKey(cfg); existing != "" {
		if len(existing) > 12 {
			apiKeyDisplay = existing[:8] + "..." + existing[len(existing)-4:]
		} else {
			apiKeyDisplay = "****"
		}
	}

	apiURLDisplay := cfg.Advisor.APIURL
	if apiURLDisplay == "" {
		apiURLDisplay = "(offline tips)"
	}
	currencyDisplay := cfg.General.CurrencyLabel
	if currencyDisplay == "" {
		currencyDisplay = "(none)"
	}

	fields := []field{
		{"Language", cfg.General.Language},
		{"Currency Label", currencyDisplay},
		{"Advisor API URL", apiURLDisplay},
		{"Advisor API Key", apiKeyDisplay},
		{"Theme", cfg.Appearance.Theme},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			padLen := components.CardInnerWidth(cw) - usedWidth
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// General info card
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("State database:  ") + valueStyle.Render(a.dbPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.2fs", a.loadTime.Seconds())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
