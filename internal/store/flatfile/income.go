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

var incomeHeader = []string{"month", "amount"}

type incomeRow struct {
	month  core.MonthKey
	amount core.Money
}

// IncomeStore is the CSV-backed per-month income table. Existing rows
// keep their file position on upsert; new months append.
type IncomeStore struct {
	mu     sync.Mutex
	path   string
	rows   []incomeRow
	loaded bool
}

func NewIncomeStore(path string) *IncomeStore {
	return &IncomeStore{path: path}
}

// Set upserts the income for a month.
func (s *IncomeStore) Set(ctx context.Context, month core.MonthKey, amount core.Money) error {
	if err := month.Validate(); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	prev := append([]incomeRow(nil), s.rows...)
	updated := false
	for i := range s.rows {
		if s.rows[i].month == month {
			s.rows[i].amount = amount
			updated = true
			break
		}
	}
	if !updated {
		s.rows = append(s.rows, incomeRow{month: month, amount: amount})
	}
	if err := s.persist(); err != nil {
		s.rows = prev
		return err
	}
	slog.InfoContext(ctx, "Income saved",
		"month", month.String(),
		"amount_cents", amount.Cents,
		"updated", updated)
	return nil
}

// List returns the month-to-amount mapping.
func (s *IncomeStore) List(_ context.Context) (map[core.MonthKey]core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := make(map[core.MonthKey]core.Money, len(s.rows))
	for _, r := range s.rows {
		out[r.month] = r.amount
	}
	return out, nil
}

func (s *IncomeStore) load() error {
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
		if len(rec) < 2 {
			return fmt.Errorf("%w: %s line %d: expected 2 columns, got %d", store.ErrStorage, s.path, line, len(rec))
		}
		month, err := core.ParseMonthKey(rec[0])
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", store.ErrStorage, s.path, line, err)
		}
		amount, err := core.ParseMoney(rec[1])
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", store.ErrStorage, s.path, line, err)
		}
		s.rows = append(s.rows, incomeRow{month: month, amount: amount})
	}
	s.loaded = true
	return nil
}

func (s *IncomeStore) persist() error {
	err := writeAtomic(s.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(incomeHeader); err != nil {
			return err
		}
		for _, r := range s.rows {
			if err := w.Write([]string{r.month.String(), r.amount.String()}); err != nil {
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
