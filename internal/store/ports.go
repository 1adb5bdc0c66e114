// Package store defines the persistence ports for expense, income and
// preferences records, plus the storage error taxonomy shared by every
// backend.
package store

import (
	"context"
	"errors"

	"bling/internal/core"
)

var (
	// ErrNotFound means an operation referenced a record position or
	// month that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStorage means the backing file or database is unreadable,
	// corrupt or unwritable. A missing file on first run is not a
	// storage error; existing data is never silently dropped.
	ErrStorage = errors.New("storage failure")
)

type (
	// ExpenseStore owns the persisted expense records. Records are
	// identified by their insertion position; every mutation durably
	// persists the full record set before returning.
	ExpenseStore interface {
		// Add appends a validated record and returns its position.
		Add(ctx context.Context, e core.Expense) (int, error)
		// Update replaces the record at position id.
		Update(ctx context.Context, id int, e core.Expense) error
		// Delete removes the record at position id.
		Delete(ctx context.Context, id int) error
		// List returns records in insertion order. A zero month
		// returns everything; otherwise only records in that month.
		List(ctx context.Context, month core.MonthKey) ([]core.Expense, error)
	}

	// IncomeStore owns the per-month income table. Months are unique;
	// setting an existing month updates it in place.
	IncomeStore interface {
		Set(ctx context.Context, month core.MonthKey, amount core.Money) error
		List(ctx context.Context) (map[core.MonthKey]core.Money, error)
	}

	// PreferencesStore owns the singleton preferences blob, lazily
	// created with defaults on first read.
	PreferencesStore interface {
		Get(ctx context.Context) (core.Preferences, error)
		Set(ctx context.Context, p core.Preferences) error
	}
)
