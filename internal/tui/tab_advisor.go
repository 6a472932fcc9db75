package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"finsim/internal/advisor"
	"finsim/internal/model"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// advisorTimeout bounds one streamed reply end to end.
const advisorTimeout = 60 * time.Second

// advState tracks the advisor chat tab state.
type advState struct {
	typing    bool
	streaming bool
	input     textinput.Model
	scroll    int // lines scrolled up from the bottom of the chat
}

func newAdvisorInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60
	ti.Placeholder = "Ask about savings, debt, or your budget..."
	return ti
}

func (a App) updateAdvisorKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "i", "enter":
		a.adv.typing = true
		a.adv.input = newAdvisorInput()
		a.adv.input.Focus()
		return a, a.adv.input.Cursor.BlinkCmd(), true
	case "j", "down":
		if a.adv.scroll > 0 {
			a.adv.scroll--
		}
		return a, nil, true
	case "k", "up":
		a.adv.scroll++
		return a, nil, true
	case "c":
		if !a.adv.streaming {
			a.conv.Clear()
			a.conv.Greet(model.AdvisorStateFrom(a.eng.Snapshot()))
			a.adv.scroll = 0
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateAdvisorInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(a.adv.input.Value())
		a.adv.typing = false
		if text == "" {
			return a, nil
		}
		return a.sendAdvisorMessage(text)
	case "esc":
		a.adv.typing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.adv.input, cmd = a.adv.input.Update(msg)
	return a, cmd
}

func (a App) sendAdvisorMessage(text string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)

	done, err := a.conv.Send(ctx, text, model.AdvisorStateFrom(a.eng.Snapshot()))
	if err != nil {
		cancel()
		if errors.Is(err, advisor.ErrBusy) {
			a.setFlash("the advisor is still replying")
		} else if !errors.Is(err, advisor.ErrEmptyMessage) {
			a.setFlash(err.Error())
		}
		return a, nil
	}

	a.adv.streaming = true
	a.adv.scroll = 0
	return a, waitAdvisorCmd(done, cancel)
}

// waitAdvisorCmd blocks until the streamed reply completes. The running tick
// keeps the partial message repainting in the meantime.
func waitAdvisorCmd(done <-chan struct{}, cancel context.CancelFunc) tea.Cmd {
	return func() tea.Msg {
		<-done
		cancel()
		return AdvisorDoneMsg{}
	}
}

func (a App) renderAdvisorTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	userStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	assistantStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	// Build the full transcript, then window it by scroll position
	var lines []string
	for _, msg := range a.conv.Messages() {
		prefix := assistantStyle.Render("Advisor")
		if msg.Role == model.RoleUser {
			prefix = userStyle.Render("You")
		}
		lines = append(lines, prefix)
		for _, l := range strings.Split(wrapText(msg.Content, innerW-2), "\n") {
			lines = append(lines, textStyle.Render("  "+l))
		}
		lines = append(lines, "")
	}
	if a.adv.streaming {
		lines = append(lines, mutedStyle.Render("  …"))
	}

	// Chat window height: card chrome (3) + input/hint row (2)
	visible := h - 7
	if visible < 5 {
		visible = 5
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := a.adv.scroll
	if scroll > maxScroll {
		scroll = maxScroll
	}
	start := len(lines) - visible - scroll
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}

	var body strings.Builder
	body.WriteString(strings.Join(lines[start:end], "\n"))
	body.WriteString("\n")

	if a.adv.typing {
		body.WriteString(userStyle.Render("> "))
		body.WriteString(a.adv.input.View())
	} else {
		body.WriteString(mutedStyle.Render("[i] type  [j/k] scroll  [c] clear chat"))
	}

	return components.ContentCard("Advisor", body.String(), cw)
}
