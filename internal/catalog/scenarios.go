package catalog

import "finsim/internal/model"

var scenarios = []model.Scenario{
	{
		ID:          "medical-emergency",
		Title:       "Unexpected Medical Expense",
		Description: "You need to cover an urgent dental procedure that costs 15% of your monthly income.",
		Impact:      -15,
		Category:    "healthcare",
		Options: []model.ScenarioOption{
			{
				ID:          "use-savings",
				Label:       "Use Savings",
				Description: "Dip into your emergency fund",
				Impact:      model.ScenarioImpact{Savings: -15, Stability: -5, Stress: 5},
			},
			{
				ID:          "reduce-expenses",
				Label:       "Cut Other Expenses",
				Description: "Reduce spending on non-essentials this month",
				Impact:      model.ScenarioImpact{Balance: -15, Stress: 10},
			},
			{
				ID:          "take-loan",
				Label:       "Take a Small Loan",
				Description: "Borrow the amount and pay it back over time",
				Impact:      model.ScenarioImpact{Debt: 15, Stability: -10, Stress: 15},
			},
		},
	},
	{
		ID:          "price-increase",
		Title:       "Utility Price Increase",
		Description: "Your electricity and gas bills have increased by 20% due to seasonal changes.",
		Impact:      -5,
		Category:    "utilities",
		Options: []model.ScenarioOption{
			{
				ID:          "absorb",
				Label:       "Absorb the Cost",
				Description: "Pay the higher bills from your budget",
				Impact:      model.ScenarioImpact{Balance: -5, Stability: -2, Stress: 5},
			},
			{
				ID:          "reduce-usage",
				Label:       "Reduce Usage",
				Description: "Cut down on electricity and heating",
				Impact:      model.ScenarioImpact{Balance: -2, Stress: 8},
			},
			{
				ID:          "reallocate",
				Label:       "Reallocate Budget",
				Description: "Move funds from entertainment to utilities",
				Impact:      model.ScenarioImpact{Stability: 2, Stress: 3},
			},
		},
	},
	{
		ID:          "bonus-income",
		Title:       "Unexpected Bonus",
		Description: "You received a performance bonus equal to 10% of your monthly salary!",
		Impact:      10,
		Category:    "income",
		Options: []model.ScenarioOption{
			{
				ID:          "save-all",
				Label:       "Save Everything",
				Description: "Put the entire bonus into savings",
				Impact:      model.ScenarioImpact{Savings: 10, Stability: 10, Stress: -5},
			},
			{
				ID:          "pay-debt",
				Label:       "Pay Off Debt",
				Description: "Use it to reduce your outstanding loans",
				Impact:      model.ScenarioImpact{Debt: -10, Stability: 8, Stress: -8},
			},
			{
				ID:          "split",
				Label:       "Split 50/50",
				Description: "Half to savings, half for a treat",
				Impact:      model.ScenarioImpact{Balance: 5, Savings: 5, Stability: 5, Stress: -10},
			},
		},
	},
	{
		ID:          "car-repair",
		Title:       "Car Breakdown",
		Description: "Your car needs a repair that costs 8% of your monthly income to stay on the road.",
		Impact:      -8,
		Category:    "transport",
		Options: []model.ScenarioOption{
			{
				ID:          "repair-now",
				Label:       "Repair Immediately",
				Description: "Pay the full repair bill this month",
				Impact:      model.ScenarioImpact{Balance: -8, Stability: -2, Stress: 6},
			},
			{
				ID:          "public-transport",
				Label:       "Switch to Public Transport",
				Description: "Postpone the repair and commute by bus",
				Impact:      model.ScenarioImpact{Balance: -2, Stability: -4, Stress: 8},
			},
		},
	},
	{
		ID:          "side-income",
		Title:       "Tutoring Opportunity",
		Description: "A family asks you to tutor their child, offering extra income worth 12% of your salary.",
		Impact:      12,
		Category:    "income",
		Options: []model.ScenarioOption{
			{
				ID:          "accept",
				Label:       "Accept the Offer",
				Description: "Take on the extra hours for extra income",
				Impact:      model.ScenarioImpact{Balance: 12, Stability: 4, Stress: 6},
			},
			{
				ID:          "decline",
				Label:       "Protect Your Time",
				Description: "Decline and keep your evenings free",
				Impact:      model.ScenarioImpact{Stress: -3},
			},
			{
				ID:          "accept-save",
				Label:       "Accept and Save It All",
				Description: "Take the work and put everything into savings",
				Impact:      model.ScenarioImpact{Savings: 12, Stability: 6, Stress: 6},
			},
		},
	},
}

// Scenarios returns the full scenario table. The slice is shared; entries
// are immutable by convention.
func Scenarios() []model.Scenario {
	return scenarios
}

// ScenarioByID returns the scenario with the given id.
func ScenarioByID(id string) (model.Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return model.Scenario{}, false
}
