package flatfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bling/internal/core"
	"bling/internal/store"
)

func expenseFixture(day int, category string, cents int64) core.Expense {
	return core.Expense{
		Date:     core.NewDate(2024, 1, day),
		Category: category,
		Amount:   core.Money{Cents: cents},
		Currency: "₹",
		Note:     "note for " + category,
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ExpenseFileName)

	records := []core.Expense{
		expenseFixture(5, "Food", 50000),
		expenseFixture(10, "Food", 30000),
		expenseFixture(15, "Transport", 20000),
	}
	s := NewExpenseStore(path)
	for _, e := range records {
		if _, err := s.Add(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// A fresh store reading the same file sees identical records in
	// identical order.
	reloaded := NewExpenseStore(path)
	got, err := reloaded.List(ctx, core.MonthKey{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i, e := range records {
		if got[i].Date.ISO() != e.Date.ISO() ||
			got[i].Category != e.Category ||
			got[i].Amount != e.Amount ||
			got[i].Currency != e.Currency ||
			got[i].Note != e.Note {
			t.Fatalf("record %d: expected %+v, got %+v", i, e, got[i])
		}
	}
}

func TestExpenseAddValidates(t *testing.T) {
	s := NewExpenseStore(filepath.Join(t.TempDir(), ExpenseFileName))
	bad := core.Expense{Date: core.NewDate(2024, 1, 1), Category: "", Amount: core.Money{Cents: 100}}
	if _, err := s.Add(context.Background(), bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Nothing was persisted.
	if _, err := os.Stat(s.path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("invalid record must not create the backing file")
	}
}

func TestExpenseUpdateDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ExpenseFileName)
	s := NewExpenseStore(path)

	id, err := s.Add(ctx, expenseFixture(5, "Food", 50000))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(ctx, expenseFixture(6, "Bar", 1500)); err != nil {
		t.Fatalf("add: %v", err)
	}

	changed := expenseFixture(5, "Groceries", 45000)
	if err := s.Update(ctx, id, changed); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Update(ctx, 99, changed); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	got, err := NewExpenseStore(path).List(ctx, core.MonthKey{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Groceries" || got[0].Amount.Cents != 45000 {
		t.Fatalf("unexpected surviving records: %+v", got)
	}
}

func TestExpenseListMonthFilter(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseStore(filepath.Join(t.TempDir(), ExpenseFileName))
	if _, err := s.Add(ctx, expenseFixture(5, "Food", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}
	feb := core.Expense{Date: core.NewDate(2024, 2, 1), Category: "Rent", Amount: core.Money{Cents: 200}}
	if _, err := s.Add(ctx, feb); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.List(ctx, core.MonthKey{Year: 2024, Month: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Rent" {
		t.Fatalf("month filter failed: %+v", got)
	}
}

func TestExpenseFirstRunEmpty(t *testing.T) {
	s := NewExpenseStore(filepath.Join(t.TempDir(), ExpenseFileName))
	got, err := s.List(context.Background(), core.MonthKey{})
	if err != nil {
		t.Fatalf("missing file must read as empty store, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestExpenseCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ExpenseFileName)
	content := strings.Join([]string{
		"date,category,amount,currency_symbol,note",
		"not-a-date,Food,12.00,₹,",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewExpenseStore(path).List(context.Background(), core.MonthKey{})
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("corrupt existing file must be a storage error, got %v", err)
	}
}

func TestIncomeUpsert(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), IncomeFileName)
	s := NewIncomeStore(path)

	jan := core.MonthKey{Year: 2024, Month: 1}
	feb := core.MonthKey{Year: 2024, Month: 2}
	if err := s.Set(ctx, jan, core.Money{Cents: 200000}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, feb, core.Money{Cents: 210000}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Upsert: same month never duplicates.
	if err := s.Set(ctx, jan, core.Money{Cents: 180000}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := NewIncomeStore(path).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d: %v", len(got), got)
	}
	if got[jan].Cents != 180000 || got[feb].Cents != 210000 {
		t.Fatalf("unexpected amounts: %v", got)
	}
}

func TestIncomeRejectsNegative(t *testing.T) {
	s := NewIncomeStore(filepath.Join(t.TempDir(), IncomeFileName))
	err := s.Set(context.Background(), core.MonthKey{Year: 2024, Month: 1}, core.Money{Cents: -1})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount error, got %v", err)
	}
}

func TestPreferencesFirstRunDefaults(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), PreferencesFileName)
	s := NewPreferencesStore(path)

	p, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.CurrencySymbol != core.DefaultCurrencySymbol || p.DefaultMonthlyBudget.Cents != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	// Defaults are persisted on first read.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("preferences file not created: %v", err)
	}
}

func TestPreferencesSetGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), PreferencesFileName)
	s := NewPreferencesStore(path)

	want := core.Preferences{CurrencySymbol: "$", DefaultMonthlyBudget: core.Money{Cents: 150000}}
	if err := s.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := NewPreferencesStore(path).Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	bad := core.Preferences{CurrencySymbol: "$", DefaultMonthlyBudget: core.Money{Cents: -5}}
	if err := s.Set(ctx, bad); !errors.Is(err, core.ErrInvalidBudget) {
		t.Fatalf("expected budget error, got %v", err)
	}
}

func TestPreferencesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPreferencesStore(path).Get(context.Background()); !errors.Is(err, store.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
