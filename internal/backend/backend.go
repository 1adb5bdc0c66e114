// Package backend selects and wires a storage backend from configuration.
// Both backends expose the same store ports; callers never know which one
// they got.
package backend

import (
	"fmt"

	"bling/internal/config"
	"bling/internal/log"
	"bling/internal/store"
	"bling/internal/store/flatfile"
	"bling/internal/storage"
)

// Type identifies a storage backend.
type Type string

const (
	FlatFileBackend Type = "flatfile"
	SQLiteBackend   Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FlatFileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result bundles the opened stores with their cleanup function.
type Result struct {
	Expenses store.ExpenseStore
	Income   store.IncomeStore
	Prefs    store.PreferencesStore
	Cleanup  CleanupFunc
}

// Open creates the backend named by cfg.DataBackend.
func Open(cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	t := Type(cfg.DataBackend)
	switch t {
	case FlatFileBackend:
		expenses, income, prefs := flatfile.Open(cfg.DataDirectory)
		logger.Info("initialized flat-file backend", log.FieldPath, cfg.DataDirectory)
		return &Result{
			Expenses: expenses,
			Income:   income,
			Prefs:    prefs,
			Cleanup:  nil,
		}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", log.FieldPath, cfg.SQLiteDBPath)
		return &Result{
			Expenses: repo.Expenses(),
			Income:   repo.Income(),
			Prefs:    repo.Preferences(),
			Cleanup:  repo.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
