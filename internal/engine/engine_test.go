package engine

import (
	"math"
	"math/rand"
	"testing"

	"finsim/internal/model"
)

func newTestEngine() *Engine {
	return New(WithRand(rand.New(rand.NewSource(1))))
}

func TestSeedDefaults(t *testing.T) {
	e := newTestEngine()
	s := e.Snapshot()

	if s.VirtualIncome != 500_000 {
		t.Fatalf("VirtualIncome = %.0f, want 500000", s.VirtualIncome)
	}
	if s.CurrentBalance != 500_000 {
		t.Fatalf("CurrentBalance = %.0f, want 500000", s.CurrentBalance)
	}
	if s.Savings != 50_000 {
		t.Fatalf("Savings = %.0f, want 50000", s.Savings)
	}
	if s.StabilityIndex != 75 || s.StressLevel != 20 {
		t.Fatalf("stability/stress = %.0f/%.0f, want 75/20", s.StabilityIndex, s.StressLevel)
	}
	if s.Month != 1 {
		t.Fatalf("Month = %d, want 1", s.Month)
	}
	if len(s.Categories) == 0 {
		t.Fatal("seed state has no categories")
	}
}

func TestSetFinancialProfile(t *testing.T) {
	e := newTestEngine()

	err := e.SetFinancialProfile(model.FinancialProfile{
		MonthlyIncome:   300_000,
		ExistingSavings: 12_000,
		TotalDebt:       5_000,
	})
	if err != nil {
		t.Fatalf("SetFinancialProfile: %v", err)
	}

	s := e.Snapshot()
	if s.VirtualIncome != 300_000 || s.CurrentBalance != 300_000 {
		t.Fatalf("income/balance = %.0f/%.0f, want 300000/300000", s.VirtualIncome, s.CurrentBalance)
	}
	if s.Savings != 12_000 || s.Debt != 5_000 {
		t.Fatalf("savings/debt = %.0f/%.0f, want 12000/5000", s.Savings, s.Debt)
	}
	if s.Profile == nil {
		t.Fatal("profile not stored")
	}
}

func TestSetFinancialProfileRejectsInvalidIncome(t *testing.T) {
	e := newTestEngine()
	before := e.Snapshot()

	for _, income := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := e.SetFinancialProfile(model.FinancialProfile{MonthlyIncome: income})
		if err == nil {
			t.Fatalf("income %v accepted, want error", income)
		}
	}

	after := e.Snapshot()
	if after.VirtualIncome != before.VirtualIncome || after.CurrentBalance != before.CurrentBalance {
		t.Fatal("rejected profile mutated state")
	}
}

func TestAllocationSumProperty(t *testing.T) {
	e := newTestEngine()
	cats := e.Snapshot().Categories

	updates := []struct {
		id  string
		pct float64
	}{
		{cats[0].ID, 30},
		{cats[1].ID, 10},
		{cats[2].ID, 5},
		{cats[0].ID, 25}, // overwrite, not accumulate
	}
	for _, u := range updates {
		if err := e.UpdateAllocation(u.id, u.pct); err != nil {
			t.Fatalf("UpdateAllocation(%q, %.0f): %v", u.id, u.pct, err)
		}
	}

	var want float64
	for _, c := range e.Snapshot().Categories {
		want += c.Allocated
	}
	if got := e.TotalAllocated(); got != want {
		t.Fatalf("TotalAllocated = %.1f, want sum of allocations %.1f", got, want)
	}
	if got := e.RemainingBudget() + e.TotalAllocated(); got != 100 {
		t.Fatalf("RemainingBudget + TotalAllocated = %.1f, want 100", got)
	}
}

func TestUpdateAllocationValidation(t *testing.T) {
	e := newTestEngine()
	catID := e.Snapshot().Categories[0].ID

	if err := e.UpdateAllocation("nope", 10); err != ErrUnknownCategory {
		t.Fatalf("unknown category err = %v, want ErrUnknownCategory", err)
	}
	if err := e.UpdateAllocation(catID, -1); err != ErrInvalidPercent {
		t.Fatalf("negative percent err = %v, want ErrInvalidPercent", err)
	}
	if err := e.UpdateAllocation(catID, 101); err != ErrInvalidPercent {
		t.Fatalf("101 percent err = %v, want ErrInvalidPercent", err)
	}
	if err := e.UpdateAllocation(catID, math.NaN()); err != ErrInvalidPercent {
		t.Fatalf("NaN percent err = %v, want ErrInvalidPercent", err)
	}
	if got := e.TotalAllocated(); got != 0 {
		t.Fatalf("rejected updates changed allocations: total = %.1f", got)
	}
}

func TestScenarioChoiceIsOneShot(t *testing.T) {
	e := newTestEngine()

	if err := e.ApplyChoice("anything"); err != ErrNoActiveScenario {
		t.Fatalf("ApplyChoice without trigger err = %v, want ErrNoActiveScenario", err)
	}

	s := e.TriggerScenario()
	if _, ok := e.ActiveScenario(); !ok {
		t.Fatal("no active scenario after trigger")
	}

	if err := e.ApplyChoice("not-an-option"); err != ErrForeignOption {
		t.Fatalf("foreign option err = %v, want ErrForeignOption", err)
	}

	if err := e.ApplyChoice(s.Options[0].ID); err != nil {
		t.Fatalf("ApplyChoice: %v", err)
	}
	if _, ok := e.ActiveScenario(); ok {
		t.Fatal("scenario still active after choice")
	}
	if err := e.ApplyChoice(s.Options[0].ID); err != ErrNoActiveScenario {
		t.Fatalf("second ApplyChoice err = %v, want ErrNoActiveScenario", err)
	}
}

func TestTriggerReplacesActiveScenario(t *testing.T) {
	e := newTestEngine()
	e.TriggerScenario()
	second := e.TriggerScenario()

	active, ok := e.ActiveScenario()
	if !ok {
		t.Fatal("no active scenario")
	}
	if active.ID != second.ID {
		t.Fatalf("active scenario = %q, want the replacing one %q", active.ID, second.ID)
	}
}

func TestScenarioImpactMath(t *testing.T) {
	// income=500000, medical emergency "use savings":
	// savings -15% of income = -75000, stability -5, balance and debt unchanged.
	e := New(
		WithRand(rand.New(rand.NewSource(1))),
		WithScenarios([]model.Scenario{{
			ID: "medical-emergency",
			Options: []model.ScenarioOption{{
				ID:     "use-savings",
				Impact: model.ScenarioImpact{Savings: -15, Stability: -5, Stress: 5},
			}},
		}}),
	)

	before := e.Snapshot()
	e.TriggerScenario()
	if err := e.ApplyChoice("use-savings"); err != nil {
		t.Fatalf("ApplyChoice: %v", err)
	}

	after := e.Snapshot()
	if got, want := before.Savings-after.Savings, 75_000.0; got != want {
		t.Fatalf("savings decreased by %.0f, want %.0f", got, want)
	}
	if got, want := before.StabilityIndex-after.StabilityIndex, 5.0; got != want {
		t.Fatalf("stability decreased by %.0f, want %.0f", got, want)
	}
	if after.CurrentBalance != before.CurrentBalance {
		t.Fatalf("balance changed: %.0f -> %.0f", before.CurrentBalance, after.CurrentBalance)
	}
	if after.Debt != before.Debt {
		t.Fatalf("debt changed: %.0f -> %.0f", before.Debt, after.Debt)
	}
}

func TestStabilityAndStressClamped(t *testing.T) {
	e := New(
		WithRand(rand.New(rand.NewSource(1))),
		WithScenarios([]model.Scenario{{
			ID: "spike",
			Options: []model.ScenarioOption{
				{ID: "up", Impact: model.ScenarioImpact{Stability: 20, Stress: -50}},
				{ID: "down", Impact: model.ScenarioImpact{Stability: -200, Stress: 300}},
			},
		}}),
	)

	// Seed stability is 75; push to 95 then +20 must cap at exactly 100.
	e.TriggerScenario()
	_ = e.ApplyChoice("up") // 75+20=95, stress 20-50 -> 0
	s := e.Snapshot()
	if s.StressLevel != 0 {
		t.Fatalf("stress = %.0f, want clamped to 0", s.StressLevel)
	}

	e.TriggerScenario()
	_ = e.ApplyChoice("up")
	s = e.Snapshot()
	if s.StabilityIndex != 100 {
		t.Fatalf("stability = %.0f, want exactly 100", s.StabilityIndex)
	}

	e.TriggerScenario()
	_ = e.ApplyChoice("down")
	s = e.Snapshot()
	if s.StabilityIndex != 0 || s.StressLevel != 100 {
		t.Fatalf("stability/stress = %.0f/%.0f, want 0/100", s.StabilityIndex, s.StressLevel)
	}
}

func TestEndMonth(t *testing.T) {
	e := newTestEngine()
	catID := e.Snapshot().Categories[0].ID
	if err := e.UpdateAllocation(catID, 40); err != nil {
		t.Fatalf("UpdateAllocation: %v", err)
	}

	const n = 3
	for i := 0; i < n; i++ {
		e.EndMonth()
	}

	history := e.History()
	if len(history) != n {
		t.Fatalf("history has %d entries, want %d", len(history), n)
	}
	for i, r := range history {
		if r.Month != i+1 {
			t.Fatalf("history[%d].Month = %d, want %d (chronological order)", i, r.Month, i+1)
		}
	}

	s := e.Snapshot()
	if s.Month != n+1 {
		t.Fatalf("Month = %d, want %d", s.Month, n+1)
	}
	if s.CurrentBalance != s.VirtualIncome {
		t.Fatalf("balance not reset to income: %.0f vs %.0f", s.CurrentBalance, s.VirtualIncome)
	}
	for _, c := range s.Categories {
		if c.Allocated != 0 {
			t.Fatalf("category %q allocation %.0f after month end, want 0", c.ID, c.Allocated)
		}
	}
}

func TestEndMonthPreservesAggregates(t *testing.T) {
	e := New(
		WithRand(rand.New(rand.NewSource(1))),
		WithScenarios([]model.Scenario{{
			ID:      "s",
			Options: []model.ScenarioOption{{ID: "o", Impact: model.ScenarioImpact{Savings: 10, Debt: 5, Stability: -7, Stress: 9}}},
		}}),
	)
	e.TriggerScenario()
	_ = e.ApplyChoice("o")
	before := e.Snapshot()

	e.EndMonth()

	after := e.Snapshot()
	if after.Savings != before.Savings {
		t.Fatalf("savings changed across month end: %.0f -> %.0f", before.Savings, after.Savings)
	}
	if after.Debt != before.Debt {
		t.Fatalf("debt changed across month end: %.0f -> %.0f", before.Debt, after.Debt)
	}
	if after.StabilityIndex != before.StabilityIndex || after.StressLevel != before.StressLevel {
		t.Fatal("stability/stress changed across month end")
	}
}

func TestEndMonthResetsSpendCounters(t *testing.T) {
	e := newTestEngine()
	e.SetRestrictions(model.BudgetRestrictions{
		MonthlyCap:     1000,
		DailyLimit:     100,
		CategoryLimits: map[string]float64{"food": 200},
	})
	e.RecordSpending(90, "food")

	e.EndMonth()

	r := e.Snapshot().Restrictions
	if r == nil {
		t.Fatal("restrictions dropped at month end")
	}
	if r.MonthlySpent != 0 || r.DailySpent != 0 {
		t.Fatalf("spend counters = %.0f/%.0f after month end, want 0/0", r.MonthlySpent, r.DailySpent)
	}
	if len(r.CategorySpent) != 0 {
		t.Fatalf("category spent = %v after month end, want empty", r.CategorySpent)
	}
	if r.MonthlyCap != 1000 || r.DailyLimit != 100 {
		t.Fatal("limits lost at month end")
	}
}

func TestResetRoundTrip(t *testing.T) {
	profile := model.FinancialProfile{
		MonthlyIncome:   250_000,
		ExistingSavings: 30_000,
		TotalDebt:       10_000,
	}

	e := newTestEngine()
	if err := e.SetFinancialProfile(profile); err != nil {
		t.Fatalf("SetFinancialProfile: %v", err)
	}
	first := e.Snapshot()

	// Run the simulation forward then reset.
	_ = e.UpdateAllocation(first.Categories[0].ID, 50)
	e.TriggerScenario()
	e.EndMonth()
	e.Reset()

	s := e.Snapshot()
	if s.Month != 1 {
		t.Fatalf("Month after reset = %d, want 1", s.Month)
	}
	if len(e.History()) != 0 {
		t.Fatal("history not cleared by reset")
	}
	if _, ok := e.ActiveScenario(); ok {
		t.Fatal("active scenario survived reset")
	}
	if s.Profile != nil || s.Restrictions != nil {
		t.Fatal("profile/restrictions survived reset")
	}

	// Re-applying the same profile reproduces an equivalent initial state.
	if err := e.SetFinancialProfile(profile); err != nil {
		t.Fatalf("SetFinancialProfile after reset: %v", err)
	}
	again := e.Snapshot()
	if again.VirtualIncome != first.VirtualIncome ||
		again.CurrentBalance != first.CurrentBalance ||
		again.Savings != first.Savings ||
		again.Debt != first.Debt {
		t.Fatalf("round-trip state mismatch: %+v vs %+v", again, first)
	}
	for _, c := range again.Categories {
		if c.Allocated != 0 {
			t.Fatalf("category %q not fresh after round trip", c.ID)
		}
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	e := newTestEngine()
	e.SetRestrictions(model.BudgetRestrictions{MonthlyCap: 100, CategoryLimits: map[string]float64{"food": 10}})

	snap := e.Snapshot()
	snap.Categories[0].Allocated = 99
	snap.Restrictions.MonthlySpent = 999
	snap.Restrictions.CategoryLimits["food"] = 999

	s := e.Snapshot()
	if s.Categories[0].Allocated != 0 {
		t.Fatal("mutating a snapshot's categories leaked into engine state")
	}
	if s.Restrictions.MonthlySpent != 0 {
		t.Fatal("mutating a snapshot's restrictions leaked into engine state")
	}
	if s.Restrictions.CategoryLimits["food"] != 10 {
		t.Fatal("mutating a snapshot's limit map leaked into engine state")
	}
}

func TestRestore(t *testing.T) {
	e := newTestEngine()
	saved := model.UserState{
		VirtualIncome:  100,
		CurrentBalance: 50,
		StabilityIndex: 180, // out of range on purpose
		StressLevel:    -5,
		Month:          0,
	}
	e.Restore(saved, []model.MonthlyResult{{Month: 1}})

	s := e.Snapshot()
	if s.StabilityIndex != 100 || s.StressLevel != 0 {
		t.Fatalf("restore did not clamp: %.0f/%.0f", s.StabilityIndex, s.StressLevel)
	}
	if s.Month != 1 {
		t.Fatalf("restore Month = %d, want 1", s.Month)
	}
	if len(s.Categories) == 0 {
		t.Fatal("restore left empty categories")
	}
	if len(e.History()) != 1 {
		t.Fatalf("history len = %d, want 1", len(e.History()))
	}
}

func TestRestoreResumesPendingScenario(t *testing.T) {
	e := newTestEngine()
	triggered := e.TriggerScenario()

	// A second process sees only the persisted snapshot.
	saved := e.Snapshot()
	if saved.ActiveScenarioID != triggered.ID {
		t.Fatalf("snapshot scenario id = %q, want %q", saved.ActiveScenarioID, triggered.ID)
	}

	e2 := newTestEngine()
	e2.Restore(saved, nil)

	sc, ok := e2.ActiveScenario()
	if !ok {
		t.Fatal("pending scenario lost across restore")
	}
	if sc.ID != triggered.ID {
		t.Fatalf("restored scenario = %q, want %q", sc.ID, triggered.ID)
	}
	if err := e2.ApplyChoice(triggered.Options[0].ID); err != nil {
		t.Fatalf("ApplyChoice after restore: %v", err)
	}
	if got := e2.Snapshot().ActiveScenarioID; got != "" {
		t.Fatalf("scenario id = %q after resolution, want empty", got)
	}
}

func TestRestoreDropsUnknownScenario(t *testing.T) {
	e := newTestEngine()
	saved := e.Snapshot()
	saved.ActiveScenarioID = "retired-event"
	e.Restore(saved, nil)

	if _, ok := e.ActiveScenario(); ok {
		t.Fatal("unknown scenario id restored as active")
	}
}

func TestAddCategoryValidation(t *testing.T) {
	e := newTestEngine()
	existing := e.Snapshot().Categories[0].ID

	if err := e.AddCategory(model.BudgetCategory{ID: "", Name: "Pets"}); err != ErrBlankCategory {
		t.Fatalf("blank id err = %v, want ErrBlankCategory", err)
	}
	if err := e.AddCategory(model.BudgetCategory{ID: "pets", Name: ""}); err != ErrBlankCategory {
		t.Fatalf("blank name err = %v, want ErrBlankCategory", err)
	}
	if err := e.AddCategory(model.BudgetCategory{ID: existing, Name: "Dup"}); err != ErrDuplicateCategory {
		t.Fatalf("duplicate id err = %v, want ErrDuplicateCategory", err)
	}

	err := e.AddCategory(model.BudgetCategory{ID: "pets", Name: "Pets", Allocated: 40})
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	cats := e.Snapshot().Categories
	added := cats[len(cats)-1]
	if added.ID != "pets" || added.Allocated != 0 {
		t.Fatalf("added category = %q/%.0f, want pets with zero allocation", added.ID, added.Allocated)
	}
}

func TestRenameCategory(t *testing.T) {
	e := newTestEngine()
	id := e.Snapshot().Categories[0].ID

	if err := e.RenameCategory("nope", "X"); err != ErrUnknownCategory {
		t.Fatalf("unknown id err = %v, want ErrUnknownCategory", err)
	}
	if err := e.RenameCategory(id, ""); err != ErrBlankCategory {
		t.Fatalf("blank name err = %v, want ErrBlankCategory", err)
	}
	if err := e.RenameCategory(id, "Groceries Only"); err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if got := e.Snapshot().Categories[0].Name; got != "Groceries Only" {
		t.Fatalf("Name = %q, want Groceries Only", got)
	}
}

func TestToggleCategoryZeroesAllocation(t *testing.T) {
	e := newTestEngine()
	id := e.Snapshot().Categories[0].ID

	if err := e.UpdateAllocation(id, 25); err != nil {
		t.Fatalf("UpdateAllocation: %v", err)
	}

	active, err := e.ToggleCategory(id)
	if err != nil {
		t.Fatalf("ToggleCategory: %v", err)
	}
	if active {
		t.Fatal("toggle reported active after deactivating")
	}
	if got := e.Snapshot().Categories[0].Allocated; got != 0 {
		t.Fatalf("deactivated allocation = %.0f, want 0", got)
	}
	if err := e.UpdateAllocation(id, 10); err != ErrInactiveCategory {
		t.Fatalf("allocation on inactive err = %v, want ErrInactiveCategory", err)
	}

	active, err = e.ToggleCategory(id)
	if err != nil || !active {
		t.Fatalf("reactivate = %v/%v, want active", active, err)
	}
	if err := e.UpdateAllocation(id, 10); err != nil {
		t.Fatalf("allocation after reactivate: %v", err)
	}
}

func TestEndMonthKeepsCustomCatalog(t *testing.T) {
	e := newTestEngine()
	seedLen := len(e.Snapshot().Categories)

	if err := e.AddCategory(model.BudgetCategory{ID: "pets", Name: "Pets"}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := e.UpdateAllocation("pets", 15); err != nil {
		t.Fatalf("UpdateAllocation: %v", err)
	}

	e.EndMonth()

	cats := e.Snapshot().Categories
	if len(cats) != seedLen+1 {
		t.Fatalf("category count = %d, want %d", len(cats), seedLen+1)
	}
	for _, c := range cats {
		if c.Allocated != 0 {
			t.Fatalf("category %q kept allocation %.0f after month end", c.ID, c.Allocated)
		}
	}
}

func TestRestoreDetectsCustomCatalog(t *testing.T) {
	e := newTestEngine()

	custom := e.Snapshot()
	custom.Categories = append(custom.Categories, model.BudgetCategory{ID: "pets", Name: "Pets"})
	e.Restore(custom, nil)
	e.EndMonth()
	if got := len(e.Snapshot().Categories); got != len(custom.Categories) {
		t.Fatalf("custom catalog not preserved: %d categories, want %d", got, len(custom.Categories))
	}

	e2 := newTestEngine()
	seedLen := len(e2.Snapshot().Categories)
	e2.Restore(e2.Snapshot(), nil)
	e2.EndMonth()
	if got := len(e2.Snapshot().Categories); got != seedLen {
		t.Fatalf("seed catalog changed size across month end: %d, want %d", got, seedLen)
	}
}
