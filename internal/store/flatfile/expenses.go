// Package flatfile implements the store ports over the flat-file
// formats the application has always used: two CSV files and a JSON
// preferences blob. Files are loaded into memory once per store and
// rewritten atomically on every mutation.
package flatfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"bling/internal/core"
	"bling/internal/store"
)

var expenseHeader = []string{"date", "category", "amount", "currency_symbol", "note"}

// ExpenseStore is the CSV-backed expense record store. It is
// single-writer: mutations come from the interactive path while
// background report jobs only read.
type ExpenseStore struct {
	mu     sync.Mutex
	path   string
	rows   []core.Expense
	loaded bool
}

func NewExpenseStore(path string) *ExpenseStore {
	return &ExpenseStore{path: path}
}

// Add appends a validated record, persists the full set and returns
// the new record's position.
func (s *ExpenseStore) Add(ctx context.Context, e core.Expense) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return 0, err
	}
	s.rows = append(s.rows, e)
	if err := s.persist(); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		return 0, err
	}
	id := len(s.rows) - 1
	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"date", e.Date.ISO(),
		"category", e.Category,
		"amount_cents", e.Amount.Cents)
	return id, nil
}

// Update replaces the record at position id.
func (s *ExpenseStore) Update(ctx context.Context, id int, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	if id < 0 || id >= len(s.rows) {
		return fmt.Errorf("%w: expense %d", store.ErrNotFound, id)
	}
	prev := s.rows[id]
	s.rows[id] = e
	if err := s.persist(); err != nil {
		s.rows[id] = prev
		return err
	}
	slog.InfoContext(ctx, "Expense updated", "id", id, "category", e.Category)
	return nil
}

// Delete removes the record at position id.
func (s *ExpenseStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	if id < 0 || id >= len(s.rows) {
		return fmt.Errorf("%w: expense %d", store.ErrNotFound, id)
	}
	prev := s.rows
	s.rows = append(append([]core.Expense(nil), s.rows[:id]...), s.rows[id+1:]...)
	if err := s.persist(); err != nil {
		s.rows = prev
		return err
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// List returns records in insertion order, optionally filtered to the
// given month.
func (s *ExpenseStore) List(_ context.Context, month core.MonthKey) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(s.rows))
	for _, e := range s.rows {
		if !month.IsZero() && core.MonthOf(e.Date) != month {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// load reads the backing file once. A missing file is a first run and
// means an empty store; anything else unreadable is a storage error.
func (s *ExpenseStore) load() error {
	if s.loaded {
		return nil
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", store.ErrStorage, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil { // header
		if errors.Is(err, io.EOF) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("%w: read header of %s: %v", store.ErrStorage, s.path, err)
	}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: read %s line %d: %v", store.ErrStorage, s.path, line, err)
		}
		e, err := parseExpenseRow(rec)
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", store.ErrStorage, s.path, line, err)
		}
		s.rows = append(s.rows, e)
	}
	s.loaded = true
	return nil
}

func parseExpenseRow(rec []string) (core.Expense, error) {
	if len(rec) < len(expenseHeader) {
		return core.Expense{}, fmt.Errorf("expected %d columns, got %d", len(expenseHeader), len(rec))
	}
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := core.ParseMoney(rec[2])
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Date:     date,
		Category: rec[1],
		Amount:   amount,
		Currency: rec[3],
		Note:     rec[4],
	}, nil
}

func (s *ExpenseStore) persist() error {
	err := writeAtomic(s.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(expenseHeader); err != nil {
			return err
		}
		for _, e := range s.rows {
			row := []string{e.Date.ISO(), e.Category, e.Amount.String(), e.Currency, e.Note}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrStorage, s.path, err)
	}
	return nil
}
