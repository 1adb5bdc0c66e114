// Package storage provides the SQLite backend. It implements the same
// persistence ports as the flat-file store; expense identity stays
// positional, derived from insertion order.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bling/internal/core"
	"bling/internal/log"
	"bling/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStore),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AddExpense appends a record. The returned position is its zero-based
// index in insertion order.
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %v", store.ErrStorage, err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&position); err != nil {
		return 0, fmt.Errorf("%w: count expenses: %v", store.ErrStorage, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (date, category, amount_cents, currency_symbol, note) VALUES (?, ?, ?, ?, ?)`,
		e.Date.ISO(), e.Category, e.Amount.Cents, e.Currency, e.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert expense: %v", store.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", store.ErrStorage, err)
	}

	r.logger.InfoContext(ctx, "expense added",
		log.FieldExpenseID, position,
		log.FieldCategory, e.Category,
		log.FieldAmountCents, e.Amount.Cents,
	)
	return position, nil
}

// UpdateExpense replaces the record at the given position.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	rowID, err := r.rowIDAt(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, category = ?, amount_cents = ?, currency_symbol = ?, note = ? WHERE id = ?`,
		e.Date.ISO(), e.Category, e.Amount.Cents, e.Currency, e.Note, rowID,
	)
	if err != nil {
		return fmt.Errorf("%w: update expense: %v", store.ErrStorage, err)
	}

	r.logger.InfoContext(ctx, "expense updated", log.FieldExpenseID, id)
	return nil
}

// DeleteExpense removes the record at the given position. Positions of
// later records shift down by one, matching the flat-file row semantics.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int) error {
	rowID, err := r.rowIDAt(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, rowID); err != nil {
		return fmt.Errorf("%w: delete expense: %v", store.ErrStorage, err)
	}

	r.logger.InfoContext(ctx, "expense deleted", log.FieldExpenseID, id)
	return nil
}

// ListExpenses returns records in insertion order, optionally filtered
// to one month.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, month core.MonthKey) ([]core.Expense, error) {
	query := `SELECT date, category, amount_cents, currency_symbol, note FROM expenses ORDER BY id`
	args := []any{}
	if !month.IsZero() {
		query = `SELECT date, category, amount_cents, currency_symbol, note FROM expenses WHERE substr(date, 1, 7) = ? ORDER BY id`
		args = append(args, month.String())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %v", store.ErrStorage, err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			dateStr string
			e       core.Expense
		)
		if err := rows.Scan(&dateStr, &e.Category, &e.Amount.Cents, &e.Currency, &e.Note); err != nil {
			return nil, fmt.Errorf("%w: scan expense: %v", store.ErrStorage, err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: stored date %q: %v", store.ErrStorage, dateStr, err)
		}
		e.Date = d
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list expenses: %v", store.ErrStorage, err)
	}
	return expenses, nil
}

// rowIDAt resolves a zero-based position to the underlying row id.
func (r *SQLiteRepository) rowIDAt(ctx context.Context, position int) (int64, error) {
	if position < 0 {
		return 0, fmt.Errorf("%w: expense %d", store.ErrNotFound, position)
	}
	var rowID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM expenses ORDER BY id LIMIT 1 OFFSET ?`, position,
	).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: expense %d", store.ErrNotFound, position)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: resolve expense %d: %v", store.ErrStorage, position, err)
	}
	return rowID, nil
}

// SetIncome upserts the income amount for a month.
func (r *SQLiteRepository) SetIncome(ctx context.Context, month core.MonthKey, amount core.Money) error {
	if err := month.Validate(); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income (month, amount_cents) VALUES (?, ?)
		 ON CONFLICT(month) DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = CURRENT_TIMESTAMP`,
		month.String(), amount.Cents,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert income: %v", store.ErrStorage, err)
	}

	r.logger.InfoContext(ctx, "income set",
		log.FieldMonth, month.String(),
		log.FieldAmountCents, amount.Cents,
	)
	return nil
}

// IncomeByMonth returns all recorded income keyed by month.
func (r *SQLiteRepository) IncomeByMonth(ctx context.Context) (map[core.MonthKey]core.Money, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, amount_cents FROM income`)
	if err != nil {
		return nil, fmt.Errorf("%w: list income: %v", store.ErrStorage, err)
	}
	defer rows.Close()

	income := make(map[core.MonthKey]core.Money)
	for rows.Next() {
		var (
			monthStr string
			cents    int64
		)
		if err := rows.Scan(&monthStr, &cents); err != nil {
			return nil, fmt.Errorf("%w: scan income: %v", store.ErrStorage, err)
		}
		month, err := core.ParseMonthKey(monthStr)
		if err != nil {
			return nil, fmt.Errorf("%w: stored month %q: %v", store.ErrStorage, monthStr, err)
		}
		income[month] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list income: %v", store.ErrStorage, err)
	}
	return income, nil
}

// GetPreferences returns the stored preferences, creating defaults on
// first read.
func (r *SQLiteRepository) GetPreferences(ctx context.Context) (core.Preferences, error) {
	var (
		symbol string
		budget int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT currency_symbol, default_budget_cents FROM preferences WHERE id = 1`,
	).Scan(&symbol, &budget)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := core.DefaultPreferences()
		if err := r.SetPreferences(ctx, defaults); err != nil {
			return core.Preferences{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("%w: read preferences: %v", store.ErrStorage, err)
	}

	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}
	return core.Preferences{
		CurrencySymbol:       symbol,
		DefaultMonthlyBudget: core.Money{Cents: budget},
	}, nil
}

// SetPreferences validates and persists the singleton preferences row.
func (r *SQLiteRepository) SetPreferences(ctx context.Context, p core.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (id, currency_symbol, default_budget_cents) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET currency_symbol = excluded.currency_symbol, default_budget_cents = excluded.default_budget_cents`,
		p.CurrencySymbol, p.DefaultMonthlyBudget.Cents,
	)
	if err != nil {
		return fmt.Errorf("%w: write preferences: %v", store.ErrStorage, err)
	}
	return nil
}
