// Package model defines domain types for the budget simulation.
package model

// PercentBand is a recommended allocation range, in percent of income.
type PercentBand struct {
	Min float64
	Max float64
}

// BudgetCategory is one spending category with its current allocation.
// Allocated is a percentage of total income, not an absolute amount.
// A deactivated category stays in the catalog but holds no allocation.
type BudgetCategory struct {
	ID          string
	Name        string
	Icon        string
	Allocated   float64
	Recommended PercentBand
	Color       string
	Disabled    bool
}

// RecurringExpense is a fixed monthly expense declared in the profile.
type RecurringExpense struct {
	ID       string
	Name     string
	Amount   float64
	Category string
}

// FinancialProfile holds the onboarding inputs that seed the simulation.
type FinancialProfile struct {
	MonthlyIncome     float64
	ExistingSavings   float64
	TotalDebt         float64
	RecurringExpenses []RecurringExpense
}

// BudgetRestrictions configures spending guardrails. A zero limit means
// that dimension is unconstrained. Spent counters are owned by the engine
// and are zeroed whenever a new configuration is applied.
type BudgetRestrictions struct {
	DailyLimit     float64
	DailySpent     float64
	MonthlyCap     float64
	MonthlySpent   float64
	CategoryLimits map[string]float64
	CategorySpent  map[string]float64
	WarnAtPercent  float64
}

// DefaultWarnAtPercent is the advisory warning threshold applied when a
// restriction configuration does not set one.
const DefaultWarnAtPercent = 80

// UserState is the authoritative simulated financial state. StabilityIndex
// and StressLevel are always within [0,100]; Month increases by exactly one
// per end-of-month transition. ActiveScenarioID names the unresolved life
// event, empty when none is pending.
type UserState struct {
	VirtualIncome    float64
	CurrentBalance   float64
	Savings          float64
	Debt             float64
	StabilityIndex   float64
	StressLevel      float64
	Month            int
	ActiveScenarioID string
	Categories       []BudgetCategory
	Restrictions     *BudgetRestrictions
	Profile          *FinancialProfile
}

// MonthlyResult is an immutable month-end snapshot kept in chronological order.
type MonthlyResult struct {
	Month            int
	RemainingBalance float64
	TotalSavings     float64
	TotalDebt        float64
	StabilityIndex   float64
	StressLevel      float64
}
