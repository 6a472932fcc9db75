package store

import (
	"path/filepath"
	"testing"

	"finsim/internal/catalog"
	"finsim/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadStateEmpty(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if ok {
		t.Fatal("LoadState reported state before any save")
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	cats := catalog.Categories()
	cats[0].Allocated = 27.5
	cats[1].Disabled = true

	saved := model.UserState{
		VirtualIncome:    750_000,
		CurrentBalance:   612_000,
		Savings:          90_000,
		Debt:             15_000,
		StabilityIndex:   68,
		StressLevel:      31,
		Month:            4,
		ActiveScenarioID: "medical-emergency",
		Categories:       cats,
		Restrictions: &model.BudgetRestrictions{
			DailyLimit:     20_000,
			DailySpent:     4_500,
			MonthlyCap:     400_000,
			MonthlySpent:   130_000,
			CategoryLimits: map[string]float64{"food": 150_000},
			CategorySpent:  map[string]float64{"food": 42_000},
			WarnAtPercent:  80,
		},
		Profile: &model.FinancialProfile{
			MonthlyIncome:   750_000,
			ExistingSavings: 50_000,
			TotalDebt:       15_000,
			RecurringExpenses: []model.RecurringExpense{
				{ID: "rent", Name: "Rent", Amount: 180_000, Category: "housing"},
			},
		},
	}

	if err := s.SaveState(saved); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, ok, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !ok {
		t.Fatal("LoadState found no state after save")
	}

	if got.Month != 4 || got.VirtualIncome != 750_000 || got.StressLevel != 31 {
		t.Fatalf("scalar state mismatch: %+v", got)
	}
	if got.ActiveScenarioID != "medical-emergency" {
		t.Fatalf("active scenario = %q, want medical-emergency", got.ActiveScenarioID)
	}
	if len(got.Categories) != len(cats) {
		t.Fatalf("categories = %d, want %d", len(got.Categories), len(cats))
	}
	for i := range cats {
		if got.Categories[i].ID != cats[i].ID {
			t.Fatalf("category order changed: [%d] = %q, want %q", i, got.Categories[i].ID, cats[i].ID)
		}
	}
	if got.Categories[0].Allocated != 27.5 {
		t.Fatalf("allocated = %v, want 27.5", got.Categories[0].Allocated)
	}
	disabled := false
	for _, c := range got.Categories {
		if c.ID == cats[1].ID {
			disabled = c.Disabled
		}
	}
	if !disabled {
		t.Fatalf("category %q lost its disabled flag", cats[1].ID)
	}
	if got.Restrictions == nil || got.Restrictions.CategoryLimits["food"] != 150_000 {
		t.Fatalf("restrictions round trip failed: %+v", got.Restrictions)
	}
	if got.Restrictions.CategorySpent["food"] != 42_000 {
		t.Fatalf("category spent = %v, want 42000", got.Restrictions.CategorySpent["food"])
	}
	if got.Profile == nil || len(got.Profile.RecurringExpenses) != 1 {
		t.Fatalf("profile round trip failed: %+v", got.Profile)
	}
}

func TestSaveStateOverwrites(t *testing.T) {
	s := openTestStore(t)

	first := model.UserState{VirtualIncome: 500_000, Month: 1, Categories: catalog.Categories()}
	if err := s.SaveState(first); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	second := first
	second.Month = 2
	second.Categories = second.Categories[:3]
	if err := s.SaveState(second); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, _, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got.Month != 2 {
		t.Fatalf("month = %d, want 2", got.Month)
	}
	if len(got.Categories) != 3 {
		t.Fatalf("categories = %d, want 3 after overwrite", len(got.Categories))
	}
}

func TestHistoryOrder(t *testing.T) {
	s := openTestStore(t)

	// Insert out of order; LoadHistory sorts by month.
	for _, m := range []int{3, 1, 2} {
		err := s.SaveResult(model.MonthlyResult{Month: m, RemainingBalance: float64(m) * 1000})
		if err != nil {
			t.Fatalf("SaveResult(%d): %v", m, err)
		}
	}

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d entries, want 3", len(history))
	}
	for i, r := range history {
		if r.Month != i+1 {
			t.Fatalf("history[%d].Month = %d, want %d", i, r.Month, i+1)
		}
	}
}

func TestAllocationLog(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveAllocations([]AllocationEntry{
		{Month: 1, CategoryID: "food", Percent: 30, Synced: true},
		{Month: 1, CategoryID: "transport", Percent: 10, Synced: false},
	})
	if err != nil {
		t.Fatalf("SaveAllocations: %v", err)
	}

	unsynced, err := s.UnsyncedAllocations()
	if err != nil {
		t.Fatalf("UnsyncedAllocations: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].CategoryID != "transport" {
		t.Fatalf("unsynced = %+v, want the transport entry", unsynced)
	}

	// A later synced write for the same key clears the flag.
	err = s.SaveAllocations([]AllocationEntry{
		{Month: 1, CategoryID: "transport", Percent: 12, Synced: true},
	})
	if err != nil {
		t.Fatalf("SaveAllocations: %v", err)
	}
	unsynced, err = s.UnsyncedAllocations()
	if err != nil {
		t.Fatalf("UnsyncedAllocations: %v", err)
	}
	if len(unsynced) != 0 {
		t.Fatalf("unsynced = %+v, want none", unsynced)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveState(model.UserState{Month: 5, Categories: catalog.Categories()}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := s.SaveResult(model.MonthlyResult{Month: 1}); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	_, ok, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if ok {
		t.Fatal("state survived Reset")
	}
	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history survived Reset: %+v", history)
	}
}
