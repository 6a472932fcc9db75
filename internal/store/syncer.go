package store

import (
	"sync"
	"time"
)

// DefaultSyncDelay is the debounce window for allocation writes. Rapid
// slider-style updates within the window coalesce into a single write.
const DefaultSyncDelay = 500 * time.Millisecond

// AllocationSyncer batches allocation updates and writes them after a quiet
// period. The write fires on the trailing edge: each Queue call restarts the
// delay. A failed write keeps the entries pending and records them as
// unsynced so they are never silently dropped.
type AllocationSyncer struct {
	store *Store
	delay time.Duration

	mu      sync.Mutex
	pending map[string]AllocationEntry // keyed by category id
	timer   *time.Timer
	lastErr error
	closed  bool
}

// NewAllocationSyncer creates a syncer writing through the given store.
// A non-positive delay falls back to DefaultSyncDelay.
func NewAllocationSyncer(s *Store, delay time.Duration) *AllocationSyncer {
	if delay <= 0 {
		delay = DefaultSyncDelay
	}
	return &AllocationSyncer{
		store:   s,
		delay:   delay,
		pending: make(map[string]AllocationEntry),
	}
}

// Queue records an allocation change and (re)arms the flush timer.
func (a *AllocationSyncer) Queue(month int, categoryID string, percent float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.pending[categoryID] = AllocationEntry{
		Month:      month,
		CategoryID: categoryID,
		Percent:    percent,
		Synced:     true,
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { _ = a.Flush() })
}

// Flush writes all pending entries immediately. On failure the entries stay
// pending for the next attempt and are recorded with the synced flag cleared.
func (a *AllocationSyncer) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if len(a.pending) == 0 {
		err := a.lastErr
		a.mu.Unlock()
		return err
	}

	batch := make([]AllocationEntry, 0, len(a.pending))
	for _, e := range a.pending {
		batch = append(batch, e)
	}
	a.mu.Unlock()

	err := a.store.SaveAllocations(batch)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.lastErr = err
		for i := range batch {
			batch[i].Synced = false
		}
		// Best effort: leave an unsynced marker so the gap is visible even
		// if the process exits before a retry succeeds.
		_ = a.store.SaveAllocations(batch)
		return err
	}

	a.lastErr = nil
	for _, e := range batch {
		if cur, ok := a.pending[e.CategoryID]; ok && cur.Percent == e.Percent && cur.Month == e.Month {
			delete(a.pending, e.CategoryID)
		}
	}
	return nil
}

// Dirty reports whether updates are still waiting to be written.
func (a *AllocationSyncer) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending) > 0
}

// Err returns the error from the most recent failed write, cleared by the
// next successful flush.
func (a *AllocationSyncer) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close stops the timer and flushes whatever is pending.
func (a *AllocationSyncer) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	return a.Flush()
}
