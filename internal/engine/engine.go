// Package engine owns the simulated financial state and enforces its
// invariants. All mutations go through Engine methods; everything else
// observes snapshots.
package engine

import (
	"errors"
	"math"
	"math/rand"

	"finsim/internal/catalog"
	"finsim/internal/model"
)

// Validation errors returned by engine operations.
var (
	ErrInvalidIncome     = errors.New("engine: monthly income must be a finite non-negative number")
	ErrUnknownCategory   = errors.New("engine: unknown category id")
	ErrInvalidPercent    = errors.New("engine: percent must be within [0,100]")
	ErrNoActiveScenario  = errors.New("engine: no active scenario")
	ErrForeignOption     = errors.New("engine: option does not belong to the active scenario")
	ErrBlankCategory     = errors.New("engine: category id and name must be non-empty")
	ErrDuplicateCategory = errors.New("engine: category id already exists")
	ErrInactiveCategory  = errors.New("engine: category is deactivated")
)

// Seed defaults used at first load and after Reset.
const (
	seedIncome    = 500_000
	seedSavings   = 50_000
	seedStability = 75
	seedStress    = 20
)

// Engine is the sole owner and mutator of the simulation state. It is not
// safe for concurrent use; callers serializing access (the daemon) wrap it.
type Engine struct {
	state    model.UserState
	active   *model.Scenario
	history  []model.MonthlyResult
	catalog  []model.Scenario
	rng      *rand.Rand
	freshCat func() []model.BudgetCategory

	// custom is set once the user edits the catalog itself (adds, renames,
	// or toggles a category). A custom catalog survives month end with its
	// allocations zeroed instead of being replaced by the seed set.
	custom bool
}

// Option configures a new Engine.
type Option func(*Engine)

// WithRand sets the random source used for scenario selection.
// Deterministic sources make scenario-driven tests reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithScenarios replaces the scenario catalog.
func WithScenarios(scenarios []model.Scenario) Option {
	return func(e *Engine) { e.catalog = scenarios }
}

// WithCategories replaces the category catalog factory. The factory must
// return a fresh zero-allocated slice on every call; it is invoked at init,
// month end, and reset.
func WithCategories(fresh func() []model.BudgetCategory) Option {
	return func(e *Engine) { e.freshCat = fresh }
}

// New creates an engine seeded with the default starting state.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog.Scenarios(),
		freshCat: catalog.Categories,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	e.state = e.seedState()
	return e
}

func (e *Engine) seedState() model.UserState {
	return model.UserState{
		VirtualIncome:  seedIncome,
		CurrentBalance: seedIncome,
		Savings:        seedSavings,
		Debt:           0,
		StabilityIndex: seedStability,
		StressLevel:    seedStress,
		Month:          1,
		Categories:     e.freshCat(),
	}
}

// Snapshot returns a read-only copy of the current state. Slices and maps
// are cloned so callers cannot mutate engine-owned data.
func (e *Engine) Snapshot() model.UserState {
	s := e.state

	s.ActiveScenarioID = ""
	if e.active != nil {
		s.ActiveScenarioID = e.active.ID
	}

	s.Categories = make([]model.BudgetCategory, len(e.state.Categories))
	copy(s.Categories, e.state.Categories)

	if e.state.Restrictions != nil {
		r := *e.state.Restrictions
		r.CategoryLimits = cloneMap(e.state.Restrictions.CategoryLimits)
		r.CategorySpent = cloneMap(e.state.Restrictions.CategorySpent)
		s.Restrictions = &r
	}
	if e.state.Profile != nil {
		p := *e.state.Profile
		p.RecurringExpenses = append([]model.RecurringExpense(nil), e.state.Profile.RecurringExpenses...)
		s.Profile = &p
	}
	return s
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetFinancialProfile reinitializes the derived balance fields from the
// profile. This is a full overwrite, not a merge: income, balance, savings,
// and debt are all replaced.
func (e *Engine) SetFinancialProfile(p model.FinancialProfile) error {
	if math.IsNaN(p.MonthlyIncome) || math.IsInf(p.MonthlyIncome, 0) || p.MonthlyIncome < 0 {
		return ErrInvalidIncome
	}

	prof := p
	prof.RecurringExpenses = append([]model.RecurringExpense(nil), p.RecurringExpenses...)

	e.state.VirtualIncome = p.MonthlyIncome
	e.state.CurrentBalance = p.MonthlyIncome
	e.state.Savings = p.ExistingSavings
	e.state.Debt = p.TotalDebt
	e.state.Profile = &prof
	return nil
}

// SetRestrictions stores the restriction configuration. The engine is
// authoritative for spend counters: whatever the caller passed for spent
// fields is discarded and all counters start at zero.
func (e *Engine) SetRestrictions(r model.BudgetRestrictions) {
	r.DailySpent = 0
	r.MonthlySpent = 0
	r.CategoryLimits = cloneMap(r.CategoryLimits)
	r.CategorySpent = make(map[string]float64)
	if r.WarnAtPercent <= 0 {
		r.WarnAtPercent = model.DefaultWarnAtPercent
	}
	e.state.Restrictions = &r
}

// UpdateAllocation replaces a category's allocated percent. Other
// categories are never auto-normalized; over- and under-allocation are
// advisory states surfaced by the presentation layer.
func (e *Engine) UpdateAllocation(categoryID string, percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return ErrInvalidPercent
	}
	for i := range e.state.Categories {
		if e.state.Categories[i].ID == categoryID {
			if e.state.Categories[i].Disabled {
				return ErrInactiveCategory
			}
			e.state.Categories[i].Allocated = percent
			return nil
		}
	}
	return ErrUnknownCategory
}

// AddCategory appends a user-defined category to the catalog. Allocated is
// forced to zero; the recommended band and color are taken as given.
func (e *Engine) AddCategory(c model.BudgetCategory) error {
	if c.ID == "" || c.Name == "" {
		return ErrBlankCategory
	}
	for i := range e.state.Categories {
		if e.state.Categories[i].ID == c.ID {
			return ErrDuplicateCategory
		}
	}
	c.Allocated = 0
	c.Disabled = false
	e.state.Categories = append(e.state.Categories, c)
	e.custom = true
	return nil
}

// RenameCategory changes a category's display name. The id is immutable.
func (e *Engine) RenameCategory(categoryID, name string) error {
	if name == "" {
		return ErrBlankCategory
	}
	for i := range e.state.Categories {
		if e.state.Categories[i].ID == categoryID {
			e.state.Categories[i].Name = name
			e.custom = true
			return nil
		}
	}
	return ErrUnknownCategory
}

// ToggleCategory flips a category between active and deactivated and
// returns the new active state. Deactivating zeroes the allocation so the
// category stops counting toward the budget total.
func (e *Engine) ToggleCategory(categoryID string) (bool, error) {
	for i := range e.state.Categories {
		if e.state.Categories[i].ID == categoryID {
			c := &e.state.Categories[i]
			c.Disabled = !c.Disabled
			if c.Disabled {
				c.Allocated = 0
			}
			e.custom = true
			return !c.Disabled, nil
		}
	}
	return false, ErrUnknownCategory
}

// TotalAllocated sums the allocated percent across all categories.
func (e *Engine) TotalAllocated() float64 {
	var total float64
	for _, c := range e.state.Categories {
		total += c.Allocated
	}
	return total
}

// RemainingBudget is 100 minus the total allocation; negative when
// over-allocated.
func (e *Engine) RemainingBudget() float64 {
	return 100 - e.TotalAllocated()
}

// TriggerScenario selects a scenario uniformly at random and makes it
// active, replacing any scenario already pending.
func (e *Engine) TriggerScenario() model.Scenario {
	s := e.catalog[e.rng.Intn(len(e.catalog))]
	e.active = &s
	return s
}

// ActiveScenario returns the pending scenario, if any.
func (e *Engine) ActiveScenario() (model.Scenario, bool) {
	if e.active == nil {
		return model.Scenario{}, false
	}
	return *e.active, true
}

// ApplyChoice applies one option of the active scenario and clears it.
// Balance, savings, and debt impacts are percent-of-income; stability and
// stress are additive points clamped to [0,100].
func (e *Engine) ApplyChoice(optionID string) error {
	if e.active == nil {
		return ErrNoActiveScenario
	}
	opt, ok := e.active.Option(optionID)
	if !ok {
		return ErrForeignOption
	}

	mult := e.state.VirtualIncome / 100
	e.state.CurrentBalance += opt.Impact.Balance * mult
	e.state.Savings += opt.Impact.Savings * mult
	e.state.Debt += opt.Impact.Debt * mult
	e.state.StabilityIndex = clamp(e.state.StabilityIndex+opt.Impact.Stability, 0, 100)
	e.state.StressLevel = clamp(e.state.StressLevel+opt.Impact.Stress, 0, 100)

	e.active = nil
	return nil
}

// EndMonth snapshots the month into history, advances the month counter,
// resets the balance to income, and hands out a fresh unallocated catalog.
// A user-customized catalog keeps its categories and only the allocations
// are zeroed. Savings, debt, stability, and stress persist; restriction
// spend counters reset with the new month.
func (e *Engine) EndMonth() model.MonthlyResult {
	result := model.MonthlyResult{
		Month:            e.state.Month,
		RemainingBalance: e.state.CurrentBalance,
		TotalSavings:     e.state.Savings,
		TotalDebt:        e.state.Debt,
		StabilityIndex:   e.state.StabilityIndex,
		StressLevel:      e.state.StressLevel,
	}
	e.history = append(e.history, result)

	e.state.Month++
	e.state.CurrentBalance = e.state.VirtualIncome
	if e.custom {
		for i := range e.state.Categories {
			e.state.Categories[i].Allocated = 0
		}
	} else {
		e.state.Categories = e.freshCat()
	}

	if r := e.state.Restrictions; r != nil {
		r.DailySpent = 0
		r.MonthlySpent = 0
		r.CategorySpent = make(map[string]float64)
	}

	return result
}

// History returns the month-end results in chronological order.
func (e *Engine) History() []model.MonthlyResult {
	out := make([]model.MonthlyResult, len(e.history))
	copy(out, e.history)
	return out
}

// Reset returns the simulation to seed defaults and clears history, the
// active scenario, the profile, and restrictions.
func (e *Engine) Reset() {
	e.state = e.seedState()
	e.active = nil
	e.history = nil
	e.custom = false
}

// Restore replaces the engine's state wholesale. Used by the store when
// resuming a saved simulation; the caller is responsible for consistency.
// A persisted pending scenario is resolved against the scenario catalog;
// an id the catalog no longer knows is dropped.
func (e *Engine) Restore(state model.UserState, history []model.MonthlyResult) {
	if state.Month < 1 {
		state.Month = 1
	}
	state.StabilityIndex = clamp(state.StabilityIndex, 0, 100)
	state.StressLevel = clamp(state.StressLevel, 0, 100)
	if len(state.Categories) == 0 {
		state.Categories = e.freshCat()
	}
	e.state = state
	e.history = append([]model.MonthlyResult(nil), history...)
	e.active = nil
	if state.ActiveScenarioID != "" {
		for _, sc := range e.catalog {
			if sc.ID == state.ActiveScenarioID {
				pending := sc
				e.active = &pending
				break
			}
		}
	}
	e.custom = !sameCatalog(state.Categories, e.freshCat())
}

// sameCatalog reports whether the restored category set is still the seed
// catalog, ignoring allocations. Any difference means the user customized it.
func sameCatalog(got, seed []model.BudgetCategory) bool {
	if len(got) != len(seed) {
		return false
	}
	for i := range got {
		if got[i].ID != seed[i].ID || got[i].Name != seed[i].Name || got[i].Disabled {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
