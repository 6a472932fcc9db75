// Package tui provides the interactive Bubble Tea dashboard for finsim.
package tui

import (
	"strings"
	"time"

	"finsim/internal/advisor"
	"finsim/internal/cli"
	"finsim/internal/config"
	"finsim/internal/engine"
	"finsim/internal/i18n"
	"finsim/internal/model"
	"finsim/internal/store"
	"finsim/internal/tui/components"
	"finsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indices, matching components.Tabs order.
const (
	tabDashboard = iota
	tabAllocate
	tabScenario
	tabHistory
	tabAdvisor
	tabSettings
)

// StateLoadedMsg is sent when the persisted simulation has been restored.
type StateLoadedMsg struct {
	Engine   *engine.Engine
	Store    *store.Store
	HasState bool
	Err      error
	LoadTime time.Duration
}

// AdvisorDoneMsg is sent when a streamed advisor reply finishes.
type AdvisorDoneMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	// Simulation
	eng    *engine.Engine
	db     *store.Store
	syncer *store.AllocationSyncer
	conv   *advisor.Conversation

	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	flash   string
	flashAt time.Time

	// Per-tab state
	alloc    allocState
	scen     scenState
	hist     histState
	adv      advState
	settings settingsState

	// First-run onboarding (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
	loadSub chan tea.Msg // completion message from the loader goroutine

	dbPath string
	lang   i18n.Language
	cfg    config.Config
}

const (
	minTerminalWidth = 80
	compactWidth     = 110
	maxContentWidth  = 180

	minContentHeight = 5
	flashDuration    = 4 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start even if the config file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(dbPath string, lang i18n.Language, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		dbPath:  dbPath,
		lang:    lang,
		cfg:     cfg,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadStateCmd(a.dbPath, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// currency returns the configured currency label.
func (a App) currency() string {
	return a.cfg.General.CurrencyLabel
}

// persist writes the current engine state to the store. Failures surface as
// a flash message rather than crashing the dashboard.
func (a *App) persist() {
	if a.db == nil {
		return
	}
	if err := a.db.SaveState(a.eng.Snapshot()); err != nil {
		a.setFlash("save failed: " + err.Error())
	}
}

func (a *App) setFlash(msg string) {
	a.flash = msg
	a.flashAt = time.Now()
}

func (a App) currentFlash() string {
	if a.flash == "" || time.Since(a.flashAt) > flashDuration {
		return ""
	}
	return a.flash
}

// endMonth closes out the current month if no scenario is pending.
func (a *App) endMonth() {
	if _, pending := a.eng.ActiveScenario(); pending {
		a.setFlash("resolve the pending scenario before ending the month")
		a.activeTab = tabScenario
		return
	}
	result := a.eng.EndMonth()
	if err := a.db.SaveResult(result); err != nil {
		a.setFlash("recording month: " + err.Error())
	}
	a.persist()
	a.setFlash("month " + cli.FormatNumber(int64(result.Month)) + " closed — balance " +
		cli.FormatMoney(result.RemainingBalance, a.currency()))
	a.hist.cursor = 0
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.loadErr != nil || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return a.scrollBy(-1), nil
		case tea.MouseButtonWheelDown:
			return a.scrollBy(1), nil
		case tea.MouseButtonLeft:
			// Tab bar occupies the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case StateLoadedMsg:
		return a.applyLoaded(msg)

	case AdvisorDoneMsg:
		a.adv.streaming = false
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		// The tick drives streaming chat re-render and flash expiry.
		return a, tickCmd()
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) applyLoaded(msg StateLoadedMsg) (tea.Model, tea.Cmd) {
	a.loaded = true
	a.loadErr = msg.Err
	a.loadTime = msg.LoadTime
	if msg.Err != nil {
		return a, nil
	}

	a.eng = msg.Engine
	a.db = msg.Store
	a.syncer = store.NewAllocationSyncer(msg.Store, store.DefaultSyncDelay)

	responder := advisorResponder(a.cfg)
	a.conv = advisor.NewConversation(responder, a.lang)
	a.conv.Greet(model.AdvisorStateFrom(a.eng.Snapshot()))

	// Onboard when nothing has been saved yet
	if !msg.HasState || a.eng.Snapshot().Profile == nil {
		a.needSetup = true
		a.setupForm = newSetupForm(&a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a.quit()
	}

	if !a.loaded {
		return a, nil
	}

	if a.loadErr != nil {
		if key == "q" {
			return a.quit()
		}
		return a, nil
	}

	// First-run onboarding intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text-entry modes intercept all keys
	if a.activeTab == tabAllocate && a.alloc.editing {
		return a.updateAllocInput(msg)
	}
	if a.activeTab == tabAdvisor && a.adv.typing {
		return a.updateAdvisorInput(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Per-tab keybindings
	switch a.activeTab {
	case tabAllocate:
		if m, cmd, handled := a.updateAllocateKeys(key); handled {
			return m, cmd
		}
	case tabScenario:
		if m, cmd, handled := a.updateScenarioKeys(key); handled {
			return m, cmd
		}
	case tabHistory:
		if m, cmd, handled := a.updateHistoryKeys(key); handled {
			return m, cmd
		}
	case tabAdvisor:
		if m, cmd, handled := a.updateAdvisorKeys(key); handled {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, handled := a.updateSettingsKeys(key); handled {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a.quit()
	case "M":
		a.endMonth()
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// quit flushes pending allocation writes before exiting.
func (a App) quit() (tea.Model, tea.Cmd) {
	if a.syncer != nil {
		_ = a.syncer.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	return a, tea.Quit
}

// scrollBy adjusts the cursor of whichever tab has a scrollable list.
func (a App) scrollBy(delta int) App {
	switch a.activeTab {
	case tabAllocate:
		a.alloc.cursor = clampInt(a.alloc.cursor+delta, 0, len(a.eng.Snapshot().Categories)-1)
	case tabScenario:
		if sc, ok := a.eng.ActiveScenario(); ok {
			a.scen.cursor = clampInt(a.scen.cursor+delta, 0, len(sc.Options)-1)
		}
	case tabHistory:
		a.hist.cursor = clampInt(a.hist.cursor+delta, 0, len(a.eng.History())-1)
	case tabAdvisor:
		a.adv.scroll += delta
		if a.adv.scroll < 0 {
			a.adv.scroll = 0
		}
	}
	return a
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewLoadError()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := "\n  Terminal too narrow\n\n  finsim needs at least 80 columns.\n"
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ finsim"))
	b.WriteString(subtitleStyle.Render(" · Budget Simulator"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Restoring simulation..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)

	body := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Could not open the state database") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(a.loadErr.Error()) +
		"\n\n" +
		lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("[q] quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"d a s h v x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
	}
	for _, bind := range navBindings {
		b.WriteString("  " + keyStyle.Render(padRight(bind.key, 12)) + "  " + descStyle.Render(bind.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"Enter", "Edit / Confirm"},
		{"Esc", "Back / Cancel"},
		{"t", "Draw a scenario (Scenario tab)"},
		{"M", "End the current month"},
		{"i", "Type a message (Advisor tab)"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		b.WriteString("  " + keyStyle.Render(padRight(bind.key, 12)) + "  " + descStyle.Render(bind.desc) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	state := a.eng.Snapshot()
	syncing := a.syncer != nil && a.syncer.Dirty()
	statusBar := components.RenderStatusBar(w, state.Month,
		cli.FormatMoney(state.CurrentBalance, a.currency()), syncing, a.currentFlash())

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabAllocate:
		content = a.renderAllocateTab(cw)
	case tabScenario:
		content = a.renderScenarioTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw)
	case tabAdvisor:
		content = a.renderAdvisorTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadStateCmd restores the persisted simulation in a background goroutine
// and delivers the result through sub.
func loadStateCmd(dbPath string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			db, err := store.Open(dbPath)
			if err != nil {
				sub <- StateLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}

			eng := engine.New()
			state, ok, err := db.LoadState()
			if err != nil {
				_ = db.Close()
				sub <- StateLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			if ok {
				history, histErr := db.LoadHistory()
				if histErr != nil {
					_ = db.Close()
					sub <- StateLoadedMsg{Err: histErr, LoadTime: time.Since(start)}
					return
				}
				eng.Restore(state, history)
			}

			sub <- StateLoadedMsg{
				Engine:   eng,
				Store:    db,
				HasState: ok,
				LoadTime: time.Since(start),
			}
		}()

		return <-sub
	}
}

// advisorResponder picks the remote backend when configured, the local
// heuristics otherwise.
func advisorResponder(cfg config.Config) advisor.Responder {
	if remote := advisor.NewRemote(cfg.Advisor.APIURL, config.GetAdvisorKey(cfg)); remote != nil {
		return remote
	}
	return advisor.NewLocal()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 1 // leading space before the first tab
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Two-column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos += 2
		}
	}
	return -1
}
