package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"finsim/internal/cli"
	"finsim/internal/engine"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// allocStep is the increment applied by the +/- quick keys.
const allocStep = 5

// allocState tracks the allocation tab state.
type allocState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

func newAllocInput(current float64) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 5
	ti.Width = 8
	ti.Placeholder = "0-100"
	ti.SetValue(strconv.FormatFloat(current, 'f', -1, 64))
	ti.Focus()
	return ti
}

func (a App) updateAllocateKeys(key string) (tea.Model, tea.Cmd, bool) {
	cats := a.eng.Snapshot().Categories

	switch key {
	case "j", "down":
		a.alloc.cursor = clampInt(a.alloc.cursor+1, 0, len(cats)-1)
		return a, nil, true
	case "k", "up":
		a.alloc.cursor = clampInt(a.alloc.cursor-1, 0, len(cats)-1)
		return a, nil, true
	case "g":
		a.alloc.cursor = 0
		return a, nil, true
	case "G":
		a.alloc.cursor = clampInt(len(cats)-1, 0, len(cats)-1)
		return a, nil, true
	case "enter":
		if a.alloc.cursor < len(cats) {
			if cats[a.alloc.cursor].Disabled {
				a.setFlash("category is deactivated — press t to reactivate")
				return a, nil, true
			}
			a.alloc.editing = true
			a.alloc.input = newAllocInput(cats[a.alloc.cursor].Allocated)
			return a, a.alloc.input.Cursor.BlinkCmd(), true
		}
		return a, nil, true
	case "+", "=":
		a.adjustAllocation(allocStep)
		return a, nil, true
	case "-", "_":
		a.adjustAllocation(-allocStep)
		return a, nil, true
	case "t":
		if a.alloc.cursor < len(cats) {
			if active, err := a.eng.ToggleCategory(cats[a.alloc.cursor].ID); err == nil {
				if active {
					a.setFlash(cats[a.alloc.cursor].Name + " is active again")
				} else {
					a.setFlash(cats[a.alloc.cursor].Name + " deactivated")
				}
				a.persist()
			}
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateAllocInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.commitAllocationEdit()
		a.alloc.editing = false
		return a, nil
	case "esc":
		a.alloc.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.alloc.input, cmd = a.alloc.input.Update(msg)
	return a, cmd
}

func (a *App) commitAllocationEdit() {
	cats := a.eng.Snapshot().Categories
	if a.alloc.cursor >= len(cats) {
		return
	}
	cat := cats[a.alloc.cursor]

	pct, err := strconv.ParseFloat(strings.TrimSpace(a.alloc.input.Value()), 64)
	if err != nil {
		a.setFlash("enter a number between 0 and 100")
		return
	}
	a.applyAllocation(cat.ID, pct)
}

func (a *App) adjustAllocation(delta float64) {
	cats := a.eng.Snapshot().Categories
	if a.alloc.cursor >= len(cats) {
		return
	}
	cat := cats[a.alloc.cursor]
	a.applyAllocation(cat.ID, cat.Allocated+delta)
}

// applyAllocation routes an allocation change through the engine and queues
// the durable write behind the debounced syncer.
func (a *App) applyAllocation(categoryID string, pct float64) {
	if err := a.eng.UpdateAllocation(categoryID, pct); err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidPercent):
			a.setFlash("allocation must be between 0 and 100")
		case errors.Is(err, engine.ErrInactiveCategory):
			a.setFlash("category is deactivated — press t to reactivate")
		default:
			a.setFlash(err.Error())
		}
		return
	}
	a.syncer.Queue(a.eng.Snapshot().Month, categoryID, pct)
	a.persist()
}

func (a App) renderAllocateTab(cw int) string {
	t := theme.Active
	state := a.eng.Snapshot()
	currency := a.currency()
	innerW := components.CardInnerWidth(cw)

	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	plainStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	nameW := 18
	barW := innerW - nameW - 36
	if barW < 10 {
		barW = 10
	}

	var body strings.Builder
	for i, cat := range state.Categories {
		name := truncStr(cat.Icon+" "+cat.Name, nameW)

		if a.alloc.editing && i == a.alloc.cursor {
			body.WriteString(markerStyle.Render("▸ "))
			body.WriteString(selectedStyle.Render(fmt.Sprintf("%-*s ", nameW, name)))
			body.WriteString(a.alloc.input.View())
			body.WriteString(mutedStyle.Render("  %"))
			body.WriteString("\n")
			continue
		}

		if i == a.alloc.cursor {
			body.WriteString(markerStyle.Render("▸ "))
			body.WriteString(selectedStyle.Render(fmt.Sprintf("%-*s", nameW, name)))
		} else if cat.Disabled {
			body.WriteString(mutedStyle.Render("  "))
			body.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s", nameW, name)))
		} else {
			body.WriteString(plainStyle.Render("  "))
			body.WriteString(plainStyle.Render(fmt.Sprintf("%-*s", nameW, name)))
		}
		if cat.Disabled {
			body.WriteString(mutedStyle.Render(" off"))
			body.WriteString("\n")
			continue
		}
		body.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(" "))
		body.WriteString(components.AllocationBar("", cat.Allocated/100,
			cat.Recommended.Min, cat.Recommended.Max, 0, barW))
		body.WriteString(mutedStyle.Render("  " + cli.FormatMoney(state.VirtualIncome*cat.Allocated/100, currency)))
		body.WriteString("\n")
	}

	body.WriteString("\n")
	total := a.eng.TotalAllocated()
	remaining := a.eng.RemainingBudget()
	body.WriteString(mutedStyle.Render("Total allocated: ") + plainStyle.Render(cli.FormatPercent(total)))
	if total > 100 {
		body.WriteString(warnStyle.Render("  over budget"))
	} else {
		body.WriteString(mutedStyle.Render("  Unallocated: ") + plainStyle.Render(cli.FormatMoney(remaining, currency)))
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("[j/k] navigate  [Enter] set  [+/-] adjust by 5  [t] toggle  [Esc] cancel"))

	card := components.ContentCard("Allocations", body.String(), cw)

	if a.syncer != nil && a.syncer.Err() != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		return card + "\n" + errStyle.Render("  some changes have not been written: "+a.syncer.Err().Error())
	}
	return card
}
