// Package daemon provides the long-running background simulation service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"finsim/internal/engine"
	"finsim/internal/model"
	"finsim/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Addr         string
	Interval     time.Duration
	EventsBuffer int
}

// Snapshot is a compact state view for status/event payloads.
type Snapshot struct {
	At             time.Time `json:"at"`
	Month          int       `json:"month"`
	VirtualIncome  float64   `json:"virtual_income"`
	CurrentBalance float64   `json:"current_balance"`
	Savings        float64   `json:"savings"`
	Debt           float64   `json:"debt"`
	StabilityIndex float64   `json:"stability_index"`
	StressLevel    float64   `json:"stress_level"`
	DailySpent     float64   `json:"daily_spent"`
	MonthlySpent   float64   `json:"monthly_spent"`
}

// Delta captures state changes between polls.
type Delta struct {
	Months         int     `json:"months"`
	CurrentBalance float64 `json:"current_balance"`
	Savings        float64 `json:"savings"`
	Debt           float64 `json:"debt"`
	StabilityIndex float64 `json:"stability_index"`
	StressLevel    float64 `json:"stress_level"`
}

func (d Delta) isZero() bool {
	return d.Months == 0 &&
		d.CurrentBalance == 0 &&
		d.Savings == 0 &&
		d.Debt == 0 &&
		d.StabilityIndex == 0 &&
		d.StressLevel == 0
}

// Event is emitted whenever the persisted state changes or a local day
// rolls over.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/state.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	State           Snapshot  `json:"state"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service watches the state database, publishes change events, and resets
// daily spending counters when the local day rolls over.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	lastDay     string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		lastDay:   time.Now().Format("2006-01-02"),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/state", s.handleState)
	mux.HandleFunc("/v1/history", s.handleHistory)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so state is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := time.Now()
	day := now.Format("2006-01-02")

	state, ok, err := s.loadState(day)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		log.Printf("finsim daemon poll error: %v", err)
		return
	}
	if !ok {
		// Nothing saved yet; keep polling.
		s.mu.Lock()
		s.lastError = ""
		s.lastPollAt = now
		s.pollCount++
		s.lastDay = day
		s.mu.Unlock()
		return
	}

	snap := snapshotFromState(state, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot
	rolledOver := day != s.lastDay

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.lastDay = day

	switch {
	case !prevExists:
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	case rolledOver:
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "day_rollover",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     diffSnapshots(prev, snap),
		}
		publish = true
	default:
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "state_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

// loadState reads the persisted state, applying the daily spending reset
// first when the local day has changed since the last poll.
func (s *Service) loadState(day string) (model.UserState, bool, error) {
	db, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return model.UserState{}, false, err
	}
	defer func() { _ = db.Close() }()

	state, ok, err := db.LoadState()
	if err != nil || !ok {
		return model.UserState{}, false, err
	}

	s.mu.RLock()
	rolledOver := day != s.lastDay
	s.mu.RUnlock()

	if rolledOver && state.Restrictions != nil && state.Restrictions.DailySpent != 0 {
		eng := engine.New()
		history, histErr := db.LoadHistory()
		if histErr != nil {
			return model.UserState{}, false, histErr
		}
		eng.Restore(state, history)
		eng.ResetDailySpending()
		state = eng.Snapshot()
		if err := db.SaveState(state); err != nil {
			return model.UserState{}, false, err
		}
		log.Printf("finsim daemon: daily spending reset for %s", day)
	}

	return state, true, nil
}

func snapshotFromState(st model.UserState, at time.Time) Snapshot {
	snap := Snapshot{
		At:             at,
		Month:          st.Month,
		VirtualIncome:  st.VirtualIncome,
		CurrentBalance: st.CurrentBalance,
		Savings:        st.Savings,
		Debt:           st.Debt,
		StabilityIndex: st.StabilityIndex,
		StressLevel:    st.StressLevel,
	}
	if r := st.Restrictions; r != nil {
		snap.DailySpent = r.DailySpent
		snap.MonthlySpent = r.MonthlySpent
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Months:         curr.Month - prev.Month,
		CurrentBalance: curr.CurrentBalance - prev.CurrentBalance,
		Savings:        curr.Savings - prev.Savings,
		Debt:           curr.Debt - prev.Debt,
		StabilityIndex: curr.StabilityIndex - prev.StabilityIndex,
		StressLevel:    curr.StressLevel - prev.StressLevel,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		State:           s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleHistory(w http.ResponseWriter, _ *http.Request) {
	db, err := store.Open(s.cfg.DBPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() { _ = db.Close() }()

	history, err := db.LoadHistory()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []model.MonthlyResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().State,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
