package tui

import (
	"strconv"
	"strings"

	"finsim/internal/config"
	"finsim/internal/model"
	"finsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues collects the onboarding answers. Money fields stay as strings
// until the form completes so partial input never fails validation.
type setupValues struct {
	Language string
	Income   string
	Savings  string
	Debt     string
	Theme    string
}

// newSetupForm builds the first-run onboarding form.
func newSetupForm(vals *setupValues) *huh.Form {
	if vals.Language == "" {
		vals.Language = "en"
	}
	if vals.Theme == "" {
		vals.Theme = theme.Active.Name
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to finsim").
				Description("Set up your simulated budget. All money here is virtual — experiment freely."),

			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("English", "en"),
					huh.NewOption("Русский", "ru"),
					huh.NewOption("O'zbekcha", "uz"),
				).
				Value(&vals.Language),

			huh.NewInput().
				Title("Monthly income").
				Description("Used to size your virtual budget").
				Placeholder("500,000").
				Validate(validMoney).
				Value(&vals.Income),

			huh.NewInput().
				Title("Current savings").
				Placeholder("0").
				Validate(validOptionalMoney).
				Value(&vals.Savings),

			huh.NewInput().
				Title("Outstanding debt").
				Placeholder("0").
				Validate(validOptionalMoney).
				Value(&vals.Debt),

			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

func validMoney(s string) error {
	_, err := parseMoney(s)
	return err
}

func validOptionalMoney(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validMoney(s)
}

func parseMoney(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// applySetup persists the onboarding answers into the config and seeds the
// simulated profile.
func (a *App) applySetup() {
	cfg := loadConfigOrDefault()
	cfg.General.Language = a.setupVals.Language
	cfg.Appearance.Theme = a.setupVals.Theme
	if err := config.Save(cfg); err != nil {
		a.setFlash("saving config: " + err.Error())
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)

	income, _ := parseMoney(a.setupVals.Income)
	savings, _ := parseMoney(a.setupVals.Savings)
	debt, _ := parseMoney(a.setupVals.Debt)

	if income > 0 {
		err := a.eng.SetFinancialProfile(model.FinancialProfile{
			MonthlyIncome:   income,
			ExistingSavings: savings,
			TotalDebt:       debt,
		})
		if err != nil {
			a.setFlash("profile: " + err.Error())
		}
	}
	a.persist()
}
