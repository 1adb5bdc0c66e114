package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bling/internal/core"
	"bling/internal/log"
	"bling/internal/store"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "bling.db"), log.New(log.Config{}))
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func expense(t *testing.T, date, category string, cents int64) core.Expense {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parsing date %q: %v", date, err)
	}
	return core.Expense{Date: d, Category: category, Amount: core.Money{Cents: cents}, Currency: "₹"}
}

func TestRepository_ExpenseLifecycle(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	records := []core.Expense{
		expense(t, "2024-01-05", "Food", 50000),
		expense(t, "2024-01-10", "Food", 30000),
		expense(t, "2024-02-01", "Transport", 20000),
	}
	for i, e := range records {
		pos, err := repo.AddExpense(ctx, e)
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if pos != i {
			t.Fatalf("expected position %d, got %d", i, pos)
		}
	}

	all, err := repo.ListExpenses(ctx, core.MonthKey{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].Category != "Food" || all[0].Amount.Cents != 50000 || all[0].Date.ISO() != "2024-01-05" {
		t.Fatalf("unexpected first record %+v", all[0])
	}

	jan, err := repo.ListExpenses(ctx, core.MonthKey{Year: 2024, Month: 1})
	if err != nil {
		t.Fatalf("list month: %v", err)
	}
	if len(jan) != 2 {
		t.Fatalf("expected 2 january records, got %d", len(jan))
	}

	updated := expense(t, "2024-01-06", "Groceries", 55000)
	if err := repo.UpdateExpense(ctx, 0, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ = repo.ListExpenses(ctx, core.MonthKey{})
	if all[0].Category != "Groceries" {
		t.Fatalf("expected updated category, got %q", all[0].Category)
	}

	if err := repo.DeleteExpense(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = repo.ListExpenses(ctx, core.MonthKey{})
	if len(all) != 2 {
		t.Fatalf("expected 2 records after delete, got %d", len(all))
	}
	// positions shift: old index 2 is now index 1
	if all[1].Category != "Transport" {
		t.Fatalf("unexpected record at shifted position: %+v", all[1])
	}
}

func TestRepository_NotFound(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.UpdateExpense(ctx, 0, expense(t, "2024-01-01", "Food", 100)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, 5); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, -1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for negative position, got %v", err)
	}
}

func TestRepository_Validation(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	bad := core.Expense{Date: core.Date{}, Category: "", Amount: core.Money{Cents: -1}}
	if _, err := repo.AddExpense(ctx, bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := repo.SetIncome(ctx, core.MonthKey{Year: 2024, Month: 1}, core.Money{Cents: -5}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for negative income, got %v", err)
	}
}

func TestRepository_IncomeUpsert(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	month := core.MonthKey{Year: 2024, Month: 1}

	if err := repo.SetIncome(ctx, month, core.Money{Cents: 100000}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetIncome(ctx, month, core.Money{Cents: 200000}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	income, err := repo.IncomeByMonth(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(income) != 1 {
		t.Fatalf("expected single month, got %d", len(income))
	}
	if income[month].Cents != 200000 {
		t.Fatalf("expected upserted amount, got %d", income[month].Cents)
	}
}

func TestRepository_PreferencesDefaults(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	prefs, err := repo.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.CurrencySymbol != core.DefaultCurrencySymbol {
		t.Fatalf("expected default symbol, got %q", prefs.CurrencySymbol)
	}
	if prefs.DefaultMonthlyBudget.Cents != 0 {
		t.Fatalf("expected zero default budget, got %d", prefs.DefaultMonthlyBudget.Cents)
	}

	want := core.Preferences{CurrencySymbol: "$", DefaultMonthlyBudget: core.Money{Cents: 150000}}
	if err := repo.SetPreferences(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := repo.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRepository_PortViews(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.Expenses().Add(ctx, expense(t, "2024-01-01", "Food", 100)); err != nil {
		t.Fatalf("add via port: %v", err)
	}
	if err := repo.Income().Set(ctx, core.MonthKey{Year: 2024, Month: 1}, core.Money{Cents: 1000}); err != nil {
		t.Fatalf("income via port: %v", err)
	}
	if _, err := repo.Preferences().Get(ctx); err != nil {
		t.Fatalf("preferences via port: %v", err)
	}
}

func TestRepository_ReopenRunsMigrationsAsNoOp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bling.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(dbPath, log.New(log.Config{}))
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := repo.AddExpense(ctx, expense(t, "2024-01-05", "Food", 500)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A second open migrates over the same connection and must leave
	// existing rows intact.
	repo, err = NewSQLiteRepository(dbPath, log.New(log.Config{}))
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo.Close()

	expenses, err := repo.ListExpenses(ctx, core.MonthKey{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Category != "Food" {
		t.Fatalf("expected the seeded expense to survive reopen, got %+v", expenses)
	}
}
