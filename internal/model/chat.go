package model

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in an advisor conversation. Assistant messages
// grow incrementally while a streamed reply is in flight.
type ChatMessage struct {
	ID        int64
	Role      ChatRole
	Content   string
	Timestamp time.Time
}

// AdvisorState is the redacted state snapshot shared with the advisory
// boundary. It carries no profile details beyond the simulated aggregates.
type AdvisorState struct {
	Month          int     `json:"month"`
	VirtualIncome  float64 `json:"virtualIncome"`
	CurrentBalance float64 `json:"currentBalance"`
	Savings        float64 `json:"savings"`
	Debt           float64 `json:"debt"`
	StabilityIndex float64 `json:"stabilityIndex"`
	StressLevel    float64 `json:"stressLevel"`
}

// AdvisorStateFrom extracts the shareable snapshot from a full user state.
func AdvisorStateFrom(s UserState) AdvisorState {
	return AdvisorState{
		Month:          s.Month,
		VirtualIncome:  s.VirtualIncome,
		CurrentBalance: s.CurrentBalance,
		Savings:        s.Savings,
		Debt:           s.Debt,
		StabilityIndex: s.StabilityIndex,
		StressLevel:    s.StressLevel,
	}
}
