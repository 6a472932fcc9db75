// Package catalog holds the static category and scenario tables.
package catalog

import "finsim/internal/model"

var seedCategories = []model.BudgetCategory{
	{ID: "food", Name: "Food & Groceries", Icon: "🍎", Recommended: model.PercentBand{Min: 15, Max: 25}, Color: "#879A39"},
	{ID: "utilities", Name: "Utilities", Icon: "💡", Recommended: model.PercentBand{Min: 5, Max: 10}, Color: "#D0A215"},
	{ID: "transport", Name: "Transportation", Icon: "🚌", Recommended: model.PercentBand{Min: 5, Max: 15}, Color: "#4385BE"},
	{ID: "housing", Name: "Housing / Rent", Icon: "🏠", Recommended: model.PercentBand{Min: 25, Max: 35}, Color: "#8B7EC8"},
	{ID: "loans", Name: "Loans & Debts", Icon: "💳", Recommended: model.PercentBand{Min: 0, Max: 20}, Color: "#D14D41"},
	{ID: "education", Name: "Education", Icon: "📚", Recommended: model.PercentBand{Min: 5, Max: 10}, Color: "#24837B"},
	{ID: "healthcare", Name: "Healthcare", Icon: "🏥", Recommended: model.PercentBand{Min: 3, Max: 8}, Color: "#CE5D97"},
	{ID: "savings", Name: "Savings", Icon: "💰", Recommended: model.PercentBand{Min: 10, Max: 20}, Color: "#3AA99F"},
}

// Categories returns a fresh copy of the seed catalog with zero allocations.
// Callers own the returned slice; the catalog itself is never mutated.
func Categories() []model.BudgetCategory {
	out := make([]model.BudgetCategory, len(seedCategories))
	copy(out, seedCategories)
	for i := range out {
		out[i].Allocated = 0
	}
	return out
}

// CategoryByID returns the seed catalog entry with the given id.
func CategoryByID(id string) (model.BudgetCategory, bool) {
	for _, c := range seedCategories {
		if c.ID == id {
			return c, true
		}
	}
	return model.BudgetCategory{}, false
}
