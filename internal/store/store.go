// Package store provides SQLite-backed persistence for the simulation state.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finsim/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store persists simulation state between runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the state database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveState writes the full simulation state in one transaction.
func (s *Store) SaveState(st model.UserState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT OR REPLACE INTO user_state
		(id, virtual_income, current_balance, savings, debt,
		 stability_index, stress_level, month, active_scenario, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.VirtualIncome, st.CurrentBalance, st.Savings, st.Debt,
		st.StabilityIndex, st.StressLevel, st.Month, st.ActiveScenarioID, now,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM categories"); err != nil {
		return err
	}
	for _, c := range st.Categories {
		_, err = tx.Exec(`INSERT INTO categories
			(category_id, name, icon, allocated, recommended_min, recommended_max, color, disabled)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Icon, c.Allocated, c.Recommended.Min, c.Recommended.Max, c.Color, c.Disabled,
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec("DELETE FROM restrictions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM category_limits"); err != nil {
		return err
	}
	if r := st.Restrictions; r != nil {
		_, err = tx.Exec(`INSERT INTO restrictions
			(id, daily_limit, daily_spent, monthly_cap, monthly_spent, warn_at_percent)
			VALUES (1, ?, ?, ?, ?, ?)`,
			r.DailyLimit, r.DailySpent, r.MonthlyCap, r.MonthlySpent, r.WarnAtPercent,
		)
		if err != nil {
			return err
		}
		for id, limit := range r.CategoryLimits {
			_, err = tx.Exec(`INSERT INTO category_limits (category_id, limit_amount, spent)
				VALUES (?, ?, ?)`, id, limit, r.CategorySpent[id])
			if err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec("DELETE FROM profile"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM recurring_expenses"); err != nil {
		return err
	}
	if p := st.Profile; p != nil {
		_, err = tx.Exec(`INSERT INTO profile (id, monthly_income, existing_savings, total_debt)
			VALUES (1, ?, ?, ?)`, p.MonthlyIncome, p.ExistingSavings, p.TotalDebt)
		if err != nil {
			return err
		}
		for _, e := range p.RecurringExpenses {
			_, err = tx.Exec(`INSERT INTO recurring_expenses (expense_id, name, amount, category)
				VALUES (?, ?, ?, ?)`, e.ID, e.Name, e.Amount, e.Category)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadState reads the persisted simulation state. The second return is false
// when no state has been saved yet.
func (s *Store) LoadState() (model.UserState, bool, error) {
	var st model.UserState

	err := s.db.QueryRow(`SELECT virtual_income, current_balance, savings, debt,
		stability_index, stress_level, month, active_scenario FROM user_state WHERE id = 1`).Scan(
		&st.VirtualIncome, &st.CurrentBalance, &st.Savings, &st.Debt,
		&st.StabilityIndex, &st.StressLevel, &st.Month, &st.ActiveScenarioID,
	)
	if err == sql.ErrNoRows {
		return model.UserState{}, false, nil
	}
	if err != nil {
		return model.UserState{}, false, err
	}

	// Catalog order is meaningful (seed order, user additions appended),
	// so keep insertion order explicit.
	rows, err := s.db.Query(`SELECT category_id, name, icon, allocated,
		recommended_min, recommended_max, color, disabled FROM categories
		ORDER BY rowid`)
	if err != nil {
		return model.UserState{}, false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.BudgetCategory
		var icon, color sql.NullString
		err := rows.Scan(&c.ID, &c.Name, &icon, &c.Allocated,
			&c.Recommended.Min, &c.Recommended.Max, &color, &c.Disabled)
		if err != nil {
			return model.UserState{}, false, err
		}
		c.Icon = icon.String
		c.Color = color.String
		st.Categories = append(st.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return model.UserState{}, false, err
	}

	restrictions, err := s.loadRestrictions()
	if err != nil {
		return model.UserState{}, false, err
	}
	st.Restrictions = restrictions

	profile, err := s.loadProfile()
	if err != nil {
		return model.UserState{}, false, err
	}
	st.Profile = profile

	return st, true, nil
}

func (s *Store) loadRestrictions() (*model.BudgetRestrictions, error) {
	var r model.BudgetRestrictions
	err := s.db.QueryRow(`SELECT daily_limit, daily_spent, monthly_cap, monthly_spent,
		warn_at_percent FROM restrictions WHERE id = 1`).Scan(
		&r.DailyLimit, &r.DailySpent, &r.MonthlyCap, &r.MonthlySpent, &r.WarnAtPercent,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT category_id, limit_amount, spent FROM category_limits")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	r.CategoryLimits = make(map[string]float64)
	r.CategorySpent = make(map[string]float64)
	for rows.Next() {
		var id string
		var limit, spent float64
		if err := rows.Scan(&id, &limit, &spent); err != nil {
			return nil, err
		}
		r.CategoryLimits[id] = limit
		r.CategorySpent[id] = spent
	}
	return &r, rows.Err()
}

func (s *Store) loadProfile() (*model.FinancialProfile, error) {
	var p model.FinancialProfile
	err := s.db.QueryRow(`SELECT monthly_income, existing_savings, total_debt
		FROM profile WHERE id = 1`).Scan(&p.MonthlyIncome, &p.ExistingSavings, &p.TotalDebt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT expense_id, name, amount, category FROM recurring_expenses")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e model.RecurringExpense
		var category sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount, &category); err != nil {
			return nil, err
		}
		e.Category = category.String
		p.RecurringExpenses = append(p.RecurringExpenses, e)
	}
	return &p, rows.Err()
}

// SaveResult appends (or overwrites) one month-end snapshot.
func (s *Store) SaveResult(r model.MonthlyResult) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT OR REPLACE INTO monthly_results
		(month, remaining_balance, total_savings, total_debt,
		 stability_index, stress_level, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Month, r.RemainingBalance, r.TotalSavings, r.TotalDebt,
		r.StabilityIndex, r.StressLevel, now,
	)
	return err
}

// LoadHistory reads all month-end snapshots in chronological order.
func (s *Store) LoadHistory() ([]model.MonthlyResult, error) {
	rows, err := s.db.Query(`SELECT month, remaining_balance, total_savings, total_debt,
		stability_index, stress_level FROM monthly_results ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []model.MonthlyResult
	for rows.Next() {
		var r model.MonthlyResult
		err := rows.Scan(&r.Month, &r.RemainingBalance, &r.TotalSavings, &r.TotalDebt,
			&r.StabilityIndex, &r.StressLevel)
		if err != nil {
			return nil, err
		}
		history = append(history, r)
	}
	return history, rows.Err()
}

// AllocationEntry is one persisted allocation change for a given month.
type AllocationEntry struct {
	Month      int
	CategoryID string
	Percent    float64
	Synced     bool
}

// SaveAllocations upserts a batch of allocation entries in one transaction.
func (s *Store) SaveAllocations(entries []AllocationEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		synced := 0
		if e.Synced {
			synced = 1
		}
		_, err = tx.Exec(`INSERT OR REPLACE INTO allocation_log
			(month, category_id, percent, synced, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			e.Month, e.CategoryID, e.Percent, synced, now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UnsyncedAllocations returns entries whose last write did not complete.
func (s *Store) UnsyncedAllocations() ([]AllocationEntry, error) {
	rows, err := s.db.Query(`SELECT month, category_id, percent FROM allocation_log
		WHERE synced = 0 ORDER BY month, category_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []AllocationEntry
	for rows.Next() {
		var e AllocationEntry
		if err := rows.Scan(&e.Month, &e.CategoryID, &e.Percent); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset drops all persisted state so the next run starts from the seed.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{
		"user_state", "categories", "restrictions", "category_limits",
		"profile", "recurring_expenses", "monthly_results", "allocation_log",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return tx.Commit()
}
