package model

// ScenarioImpact quantifies an option's effect. Balance, Savings, and Debt
// are percent-of-income deltas; Stability and Stress are additive points.
type ScenarioImpact struct {
	Balance   float64
	Savings   float64
	Debt      float64
	Stability float64
	Stress    float64
}

// ScenarioOption is one discrete response to a life event.
type ScenarioOption struct {
	ID          string
	Label       string
	Description string
	Impact      ScenarioImpact
}

// Scenario is an immutable life-event definition from the catalog.
// Impact is the headline percent shown on the card, descriptive only.
type Scenario struct {
	ID          string
	Title       string
	Description string
	Impact      float64
	Category    string
	Options     []ScenarioOption
}

// Option returns the option with the given id, if it belongs to s.
func (s Scenario) Option(id string) (ScenarioOption, bool) {
	for _, opt := range s.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return ScenarioOption{}, false
}
