package daemon

import (
	"math"
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Month:          2,
		CurrentBalance: 500_000,
		Savings:        60_000,
		Debt:           10_000,
		StabilityIndex: 75,
		StressLevel:    20,
	}
	curr := Snapshot{
		Month:          3,
		CurrentBalance: 430_000,
		Savings:        72_000,
		Debt:           10_000,
		StabilityIndex: 70,
		StressLevel:    28,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Months != 1 {
		t.Fatalf("Months delta = %d, want 1", delta.Months)
	}
	if delta.CurrentBalance != -70_000 {
		t.Fatalf("Balance delta = %.0f, want -70000", delta.CurrentBalance)
	}
	if delta.Savings != 12_000 {
		t.Fatalf("Savings delta = %.0f, want 12000", delta.Savings)
	}
	if math.Abs(delta.StabilityIndex+5) > 1e-9 {
		t.Fatalf("Stability delta = %.1f, want -5", delta.StabilityIndex)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestDeltaIsZero(t *testing.T) {
	if !(Delta{}).isZero() {
		t.Fatal("empty delta reported as non-zero")
	}
	if (Delta{StressLevel: 0.5}).isZero() {
		t.Fatal("stress-only delta reported as zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		DBPath:       "state.db",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}
