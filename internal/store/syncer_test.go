package store

import (
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestSyncerCoalescesUpdates(t *testing.T) {
	s := openTestStore(t)
	syncer := NewAllocationSyncer(s, 30*time.Millisecond)
	defer func() { _ = syncer.Close() }()

	// Rapid updates to one category: only the last value should land.
	syncer.Queue(1, "food", 10)
	syncer.Queue(1, "food", 20)
	syncer.Queue(1, "food", 35)

	if !syncer.Dirty() {
		t.Fatal("Dirty = false with queued updates")
	}

	waitFor(t, func() bool { return !syncer.Dirty() })

	rows, err := s.db.Query("SELECT percent FROM allocation_log WHERE month = 1 AND category_id = 'food'")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var percents []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			t.Fatalf("scan: %v", err)
		}
		percents = append(percents, p)
	}
	if len(percents) != 1 || percents[0] != 35 {
		t.Fatalf("persisted percents = %v, want [35]", percents)
	}
}

func TestSyncerCloseFlushes(t *testing.T) {
	s := openTestStore(t)
	// Long delay so the timer cannot fire before Close.
	syncer := NewAllocationSyncer(s, time.Hour)

	syncer.Queue(2, "housing", 25)
	if err := syncer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var percent float64
	err := s.db.QueryRow(
		"SELECT percent FROM allocation_log WHERE month = 2 AND category_id = 'housing'",
	).Scan(&percent)
	if err != nil {
		t.Fatalf("row after Close: %v", err)
	}
	if percent != 25 {
		t.Fatalf("percent = %v, want 25", percent)
	}

	// Queue after Close is a no-op.
	syncer.Queue(2, "housing", 99)
	if syncer.Dirty() {
		t.Fatal("Queue accepted after Close")
	}
}

func TestSyncerFailedWriteKeepsPending(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	syncer := NewAllocationSyncer(s, time.Hour)
	syncer.Queue(1, "food", 40)

	// Closing the database underneath forces the write to fail.
	_ = s.Close()

	if err := syncer.Flush(); err == nil {
		t.Fatal("Flush succeeded against a closed database")
	}
	if !syncer.Dirty() {
		t.Fatal("failed flush dropped the pending entry")
	}
	if syncer.Err() == nil {
		t.Fatal("Err = nil after failed flush")
	}
}
