package tui

import "testing"

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < 6; active++ {
		a := App{activeTab: active}
		pos := 1 // leading space before the first tab

		for i := 0; i < 6; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < 5 {
				pos += 2 // separator
			}
		}
	}
}

func TestTabAtXMissesGutter(t *testing.T) {
	a := App{}
	if got := a.tabAtX(0); got != -1 {
		t.Fatalf("tabAtX(0) = %d, want -1", got)
	}
	if got := a.tabAtX(500); got != -1 {
		t.Fatalf("tabAtX(500) = %d, want -1", got)
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	names := []string{"Dashboard", "Allocate", "Scenario", "History", "Advisor", "Settings"}

	w := len(names[tabIdx])
	if tabIdx == activeIdx {
		return w
	}
	if tabIdx == 5 {
		return w + 3 // inactive Settings adds a trailing "[x]"
	}
	return w + 2 // brackets around the shortcut letter
}
