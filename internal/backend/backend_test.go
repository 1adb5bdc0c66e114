package backend

import (
	"context"
	"path/filepath"
	"testing"

	"bling/internal/config"
	"bling/internal/core"
	"bling/internal/log"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		t     Type
		valid bool
	}{
		{FlatFileBackend, true},
		{SQLiteBackend, true},
		{Type("sheets"), false},
		{Type(""), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.t, got, tt.valid)
		}
	}
}

func TestOpen(t *testing.T) {
	logger := log.New(log.Config{})

	for _, name := range []string{"flatfile", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			tmp := t.TempDir()
			cfg := &config.Config{
				DataBackend:   name,
				DataDirectory: tmp,
				SQLiteDBPath:  filepath.Join(tmp, "bling.db"),
			}

			res, err := Open(cfg, logger)
			if err != nil {
				t.Fatalf("open %s: %v", name, err)
			}
			defer func() {
				if res.Cleanup != nil {
					res.Cleanup()
				}
			}()

			ctx := context.Background()
			d, _ := core.ParseDate("2024-01-05")
			pos, err := res.Expenses.Add(ctx, core.Expense{
				Date: d, Category: "Food", Amount: core.Money{Cents: 100}, Currency: "₹",
			})
			if err != nil {
				t.Fatalf("add via %s backend: %v", name, err)
			}
			if pos != 0 {
				t.Fatalf("expected first position 0, got %d", pos)
			}

			prefs, err := res.Prefs.Get(ctx)
			if err != nil {
				t.Fatalf("preferences via %s backend: %v", name, err)
			}
			if prefs.CurrencySymbol == "" {
				t.Fatal("expected default currency symbol")
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(&config.Config{DataBackend: "sheets"}, log.New(log.Config{}))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
