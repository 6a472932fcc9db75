package components

import (
	"fmt"
	"strings"

	"finsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. flash, when non-empty,
// replaces the default key hints on the left side. syncing marks pending
// allocation writes.
func RenderStatusBar(width, month int, balance string, syncing bool, flash string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [q]uit"
	if flash != "" {
		left = " " + flash
	}

	right := fmt.Sprintf("Month %d", month)
	if balance != "" {
		right += " · " + balance
	}
	if syncing {
		right = "saving… · " + right
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
