package engine

import (
	"math/rand"
	"testing"

	"finsim/internal/model"
)

func engineWithRestrictions(r model.BudgetRestrictions) *Engine {
	e := New(WithRand(rand.New(rand.NewSource(1))))
	e.SetRestrictions(r)
	return e
}

func TestCheckRestrictionNoConfig(t *testing.T) {
	e := New(WithRand(rand.New(rand.NewSource(1))))
	if got := e.CheckRestriction(1_000_000, "food"); !got.Allowed {
		t.Fatalf("unconfigured check = %+v, want allowed", got)
	}
}

func TestCheckRestrictionPrecedence(t *testing.T) {
	// monthlyCap=1000, monthlySpent=950, dailyLimit=100, dailySpent=90:
	// spending 60 violates both, but monthly must be the reported reason.
	// RecordSpending moves daily and monthly together, so reach the
	// asymmetric counters through the documented daily-reset path.
	e := engineWithRestrictions(model.BudgetRestrictions{
		MonthlyCap: 1000,
		DailyLimit: 100,
	})
	e.RecordSpending(860, "")
	e.ResetDailySpending()
	e.RecordSpending(90, "") // monthly 950, daily 90

	got := e.CheckRestriction(60, "")
	if got.Allowed {
		t.Fatal("check allowed, want blocked")
	}
	if got.Reason != ReasonMonthlyCap {
		t.Fatalf("reason = %q, want %q (monthly cap takes precedence)", got.Reason, ReasonMonthlyCap)
	}
}

func TestCheckRestrictionDailyBeforeCategory(t *testing.T) {
	e := engineWithRestrictions(model.BudgetRestrictions{
		DailyLimit:     100,
		CategoryLimits: map[string]float64{"food": 50},
	})
	e.RecordSpending(90, "food") // daily 90, food 90 (already over category)

	got := e.CheckRestriction(20, "food")
	if got.Allowed || got.Reason != ReasonDailyLimit {
		t.Fatalf("check = %+v, want blocked by %q", got, ReasonDailyLimit)
	}
}

func TestCheckRestrictionCategoryLimit(t *testing.T) {
	e := engineWithRestrictions(model.BudgetRestrictions{
		CategoryLimits: map[string]float64{"food": 100},
	})
	e.RecordSpending(80, "food")

	if got := e.CheckRestriction(30, "food"); got.Allowed || got.Reason != ReasonCategoryLimit {
		t.Fatalf("check = %+v, want blocked by %q", got, ReasonCategoryLimit)
	}
	// Other categories are unconstrained.
	if got := e.CheckRestriction(30, "transport"); !got.Allowed {
		t.Fatalf("unlimited category blocked: %+v", got)
	}
	// Exactly reaching the limit is allowed; only exceeding blocks.
	if got := e.CheckRestriction(20, "food"); !got.Allowed {
		t.Fatalf("spend up to the exact limit blocked: %+v", got)
	}
}

func TestCheckIsPureAndRecordIsUnconditional(t *testing.T) {
	e := engineWithRestrictions(model.BudgetRestrictions{DailyLimit: 100})

	e.CheckRestriction(50, "")
	if r := e.Snapshot().Restrictions; r.DailySpent != 0 {
		t.Fatalf("CheckRestriction mutated counters: dailySpent = %.0f", r.DailySpent)
	}

	// RecordSpending does not consult limits; it always commits.
	e.RecordSpending(500, "food")
	r := e.Snapshot().Restrictions
	if r.DailySpent != 500 || r.MonthlySpent != 500 {
		t.Fatalf("daily/monthly = %.0f/%.0f, want 500/500", r.DailySpent, r.MonthlySpent)
	}
	if r.CategorySpent["food"] != 500 {
		t.Fatalf("category spent = %.0f, want 500", r.CategorySpent["food"])
	}
}

func TestSetRestrictionsZeroesCallerCounters(t *testing.T) {
	e := New(WithRand(rand.New(rand.NewSource(1))))
	e.SetRestrictions(model.BudgetRestrictions{
		DailyLimit:    100,
		DailySpent:    42,
		MonthlySpent:  42,
		CategorySpent: map[string]float64{"food": 42},
	})

	r := e.Snapshot().Restrictions
	if r.DailySpent != 0 || r.MonthlySpent != 0 || len(r.CategorySpent) != 0 {
		t.Fatalf("caller-supplied counters survived: %+v", r)
	}
	if r.WarnAtPercent != model.DefaultWarnAtPercent {
		t.Fatalf("WarnAtPercent = %.0f, want default %d", r.WarnAtPercent, model.DefaultWarnAtPercent)
	}
}

func TestResetDailySpendingOnly(t *testing.T) {
	e := engineWithRestrictions(model.BudgetRestrictions{DailyLimit: 100, MonthlyCap: 1000})
	e.RecordSpending(60, "food")

	e.ResetDailySpending()

	r := e.Snapshot().Restrictions
	if r.DailySpent != 0 {
		t.Fatalf("dailySpent = %.0f, want 0", r.DailySpent)
	}
	if r.MonthlySpent != 60 {
		t.Fatalf("monthlySpent = %.0f, want 60 (must survive daily reset)", r.MonthlySpent)
	}
	if r.CategorySpent["food"] != 60 {
		t.Fatalf("categorySpent = %.0f, want 60", r.CategorySpent["food"])
	}
}

func TestRestrictionUsageWarnAndExceed(t *testing.T) {
	e := engineWithRestrictions(model.BudgetRestrictions{
		DailyLimit:    100,
		MonthlyCap:    1000,
		WarnAtPercent: 80,
	})
	e.RecordSpending(85, "")

	var daily, monthly *RestrictionUsage
	usage := e.RestrictionUsage()
	for i := range usage {
		switch usage[i].Dimension {
		case ReasonDailyLimit:
			daily = &usage[i]
		case ReasonMonthlyCap:
			monthly = &usage[i]
		}
	}
	if daily == nil || monthly == nil {
		t.Fatalf("usage missing dimensions: %+v", usage)
	}
	if !daily.Warning || daily.Exceeded {
		t.Fatalf("daily at 85%% = %+v, want advisory warning only", *daily)
	}
	if monthly.Warning || monthly.Exceeded {
		t.Fatalf("monthly at 8.5%% = %+v, want neither flag", *monthly)
	}

	e.RecordSpending(20, "")
	for _, u := range e.RestrictionUsage() {
		if u.Dimension == ReasonDailyLimit {
			if !u.Exceeded || u.Warning {
				t.Fatalf("daily at 105%% = %+v, want exceeded without warning flag", u)
			}
		}
	}
}
