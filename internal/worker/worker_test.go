package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"bling/internal/core"
	"bling/internal/log"
	"bling/internal/store/flatfile"
)

type testStores struct {
	Expenses *flatfile.ExpenseStore
	Income   *flatfile.IncomeStore
	Prefs    *flatfile.PreferencesStore
}

func seededStores(t *testing.T) testStores {
	t.Helper()
	expenses, income, prefs := flatfile.Open(t.TempDir())
	stores := testStores{Expenses: expenses, Income: income, Prefs: prefs}

	ctx := context.Background()
	records := []core.Expense{
		{Date: mustDate(t, "2024-01-05"), Category: "Food", Amount: core.Money{Cents: 50000}, Currency: "₹"},
		{Date: mustDate(t, "2024-01-10"), Category: "Food", Amount: core.Money{Cents: 30000}, Currency: "₹"},
		{Date: mustDate(t, "2024-01-15"), Category: "Transport", Amount: core.Money{Cents: 20000}, Currency: "₹"},
	}
	for _, e := range records {
		if _, err := stores.Expenses.Add(ctx, e); err != nil {
			t.Fatalf("seeding expense: %v", err)
		}
	}
	month := core.MonthKey{Year: 2024, Month: 1}
	if err := stores.Income.Set(ctx, month, core.Money{Cents: 200000}); err != nil {
		t.Fatalf("seeding income: %v", err)
	}
	return stores
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parsing date %q: %v", s, err)
	}
	return d
}

func TestGenerator_Generate(t *testing.T) {
	stores := seededStores(t)
	outDir := t.TempDir()
	logger := log.New(log.Config{})

	gen := NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, logger, outDir)
	path, err := gen.Generate(context.Background(), core.MonthKey{Year: 2024, Month: 1}, uuid.New())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	want := filepath.Join(outDir, "report-2024-01.csv")
	if path != want {
		t.Fatalf("unexpected path %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected summary file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "report-2024-01_categories.csv")); err != nil {
		t.Fatalf("expected breakdown file: %v", err)
	}
}

func TestGenerator_EmptyMonth(t *testing.T) {
	stores := seededStores(t)
	outDir := t.TempDir()

	gen := NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, log.New(log.Config{}), outDir)
	path, err := gen.Generate(context.Background(), core.MonthKey{Year: 2030, Month: 6}, uuid.New())
	if err != nil {
		t.Fatalf("empty month must not fail: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected no-data report written: %v", err)
	}
}

func TestGenerator_InvalidMonth(t *testing.T) {
	stores := seededStores(t)

	gen := NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, log.New(log.Config{}), t.TempDir())
	if _, err := gen.Generate(context.Background(), core.MonthKey{Year: 2024, Month: 13}, uuid.New()); err == nil {
		t.Fatal("expected validation error for month 13")
	}
}

func TestPool_RunsSubmittedJobs(t *testing.T) {
	stores := seededStores(t)
	outDir := t.TempDir()
	logger := log.New(log.Config{})

	gen := NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, logger, outDir)
	pool := NewPool(gen, 2, 5*time.Second, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		pool.Run(ctx)
	}()

	job, err := pool.Submit(core.MonthKey{Year: 2024, Month: 1})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case res := <-pool.Results():
		if res.Job.ID != job.ID {
			t.Fatalf("result for wrong job: %v", res.Job.ID)
		}
		if res.Err != nil {
			t.Fatalf("job failed: %v", res.Err)
		}
		if _, err := os.Stat(res.Path); err != nil {
			t.Fatalf("expected output at %s: %v", res.Path, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not stop after cancel")
	}
}

func TestPool_SubmitValidation(t *testing.T) {
	stores := seededStores(t)
	gen := NewGenerator(stores.Expenses, stores.Income, stores.Prefs, nil, log.New(log.Config{}), t.TempDir())
	pool := NewPool(gen, 1, time.Second, log.New(log.Config{}))

	if _, err := pool.Submit(core.MonthKey{}); err == nil {
		t.Fatal("expected zero month to be rejected")
	}
}
