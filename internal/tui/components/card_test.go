package components

import (
	"strings"
	"testing"

	"finsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))

	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	// Padding below the short card must still carry ANSI styling or it
	// renders as unstyled black cells.
	for i, line := range lines {
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("Line %d has no ANSI codes", i)
		}
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	metrics := []Metric{
		{Label: "Balance", Value: "450,000 UZS", Delta: "+12,000 vs last month"},
		{Label: "Savings", Value: "90,000 UZS"},
		{Label: "Debt", Value: "0 UZS"},
	}
	row := MetricCardRow(metrics, 90)

	if got := lipgloss.Width(row); got != 90 {
		t.Errorf("row width = %d, want 90", got)
	}
	if !strings.Contains(row, "Balance") || !strings.Contains(row, "+12,000 vs last month") {
		t.Error("row is missing label or delta text")
	}

	// Delta-less cards stay two lines; the row stretches to the tallest.
	tall := len(strings.Split(MetricCard(metrics[0], 30), "\n"))
	if got := len(strings.Split(row, "\n")); got != tall {
		t.Errorf("row height = %d, want %d", got, tall)
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct {
		total, n int
	}{
		{100, 4},
		{101, 4},
		{103, 2},
		{7, 3},
	} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestTabVisualWidth(t *testing.T) {
	for _, tab := range Tabs {
		active := TabVisualWidth(tab, true)
		inactive := TabVisualWidth(tab, false)
		if active != len(tab.Name) {
			t.Errorf("%s: active width = %d, want %d", tab.Name, active, len(tab.Name))
		}
		want := len(tab.Name) + 2
		if tab.KeyPos < 0 {
			want = len(tab.Name) + 3
		}
		if inactive != want {
			t.Errorf("%s: inactive width = %d, want %d", tab.Name, inactive, want)
		}
	}
}
