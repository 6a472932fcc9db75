package engine

import "finsim/internal/model"

// RestrictionReason names the single limit that blocked a spend check.
// Monthly cap takes precedence over daily, which takes precedence over
// per-category.
type RestrictionReason string

// Block reasons reported by CheckRestriction.
const (
	ReasonMonthlyCap    RestrictionReason = "monthlyCap"
	ReasonDailyLimit    RestrictionReason = "dailyLimit"
	ReasonCategoryLimit RestrictionReason = "categoryLimit"
)

// RestrictionCheck is the structured result of a spend-restriction check.
// Violations are policy outcomes, not errors.
type RestrictionCheck struct {
	Allowed bool
	Reason  RestrictionReason
}

// RestrictionUsage reports one limit dimension's utilization for display.
type RestrictionUsage struct {
	Dimension  RestrictionReason
	CategoryID string
	Spent      float64
	Limit      float64
	Percent    float64
	Warning    bool
	Exceeded   bool
}

// CheckRestriction evaluates whether committing amount would violate a
// configured limit. Pure predicate: no counters are touched. Callers check
// first, then commit with RecordSpending.
func (e *Engine) CheckRestriction(amount float64, categoryID string) RestrictionCheck {
	r := e.state.Restrictions
	if r == nil {
		return RestrictionCheck{Allowed: true}
	}

	if r.MonthlyCap > 0 && r.MonthlySpent+amount > r.MonthlyCap {
		return RestrictionCheck{Allowed: false, Reason: ReasonMonthlyCap}
	}
	if r.DailyLimit > 0 && r.DailySpent+amount > r.DailyLimit {
		return RestrictionCheck{Allowed: false, Reason: ReasonDailyLimit}
	}
	if categoryID != "" {
		if limit, ok := r.CategoryLimits[categoryID]; ok && limit > 0 {
			if r.CategorySpent[categoryID]+amount > limit {
				return RestrictionCheck{Allowed: false, Reason: ReasonCategoryLimit}
			}
		}
	}
	return RestrictionCheck{Allowed: true}
}

// RecordSpending unconditionally increments the spend accumulators. The
// restriction decision is deliberately separate so callers get preview-then-
// commit semantics.
func (e *Engine) RecordSpending(amount float64, categoryID string) {
	r := e.state.Restrictions
	if r == nil {
		return
	}
	r.MonthlySpent += amount
	r.DailySpent += amount
	if categoryID != "" {
		if r.CategorySpent == nil {
			r.CategorySpent = make(map[string]float64)
		}
		r.CategorySpent[categoryID] += amount
	}
}

// ResetDailySpending zeroes the daily counter only. Invoked by an external
// scheduler at day boundaries; the engine never self-triggers it.
func (e *Engine) ResetDailySpending() {
	if r := e.state.Restrictions; r != nil {
		r.DailySpent = 0
	}
}

// RestrictionUsage reports utilization for every configured limit. Usage at
// or past the warning threshold but below 100% is advisory; 100% and above
// is the hard-block zone CheckRestriction enforces.
func (e *Engine) RestrictionUsage() []RestrictionUsage {
	r := e.state.Restrictions
	if r == nil {
		return nil
	}

	warnAt := r.WarnAtPercent
	if warnAt <= 0 {
		warnAt = model.DefaultWarnAtPercent
	}

	var out []RestrictionUsage
	if r.MonthlyCap > 0 {
		out = append(out, usageOf(ReasonMonthlyCap, "", r.MonthlySpent, r.MonthlyCap, warnAt))
	}
	if r.DailyLimit > 0 {
		out = append(out, usageOf(ReasonDailyLimit, "", r.DailySpent, r.DailyLimit, warnAt))
	}
	for _, c := range e.state.Categories {
		if limit, ok := r.CategoryLimits[c.ID]; ok && limit > 0 {
			out = append(out, usageOf(ReasonCategoryLimit, c.ID, r.CategorySpent[c.ID], limit, warnAt))
		}
	}
	return out
}

func usageOf(dim RestrictionReason, categoryID string, spent, limit, warnAt float64) RestrictionUsage {
	pct := spent / limit * 100
	return RestrictionUsage{
		Dimension:  dim,
		CategoryID: categoryID,
		Spent:      spent,
		Limit:      limit,
		Percent:    pct,
		Warning:    pct >= warnAt && pct < 100,
		Exceeded:   pct >= 100,
	}
}
