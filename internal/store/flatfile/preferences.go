package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"bling/internal/core"
	"bling/internal/store"
)

// preferencesDoc is the persisted JSON shape. The budget is a plain
// JSON number in display units for compatibility with the historical
// file format.
type preferencesDoc struct {
	CurrencySymbol       string      `json:"currency_symbol"`
	DefaultMonthlyBudget json.Number `json:"default_monthly_budget"`
}

// PreferencesStore is the JSON-backed preferences blob.
type PreferencesStore struct {
	mu   sync.Mutex
	path string
}

func NewPreferencesStore(path string) *PreferencesStore {
	return &PreferencesStore{path: path}
}

// Get returns the persisted preferences, creating and persisting the
// defaults on first run.
func (s *PreferencesStore) Get(ctx context.Context) (core.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		defaults := core.DefaultPreferences()
		if err := s.persist(defaults); err != nil {
			return core.Preferences{}, err
		}
		slog.InfoContext(ctx, "Preferences created with defaults", "path", s.path)
		return defaults, nil
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("%w: read %s: %v", store.ErrStorage, s.path, err)
	}

	var doc preferencesDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return core.Preferences{}, fmt.Errorf("%w: parse %s: %v", store.ErrStorage, s.path, err)
	}
	budget := core.Money{}
	if strings.TrimSpace(doc.DefaultMonthlyBudget.String()) != "" {
		budget, err = core.ParseMoney(doc.DefaultMonthlyBudget.String())
		if err != nil {
			return core.Preferences{}, fmt.Errorf("%w: parse %s: %v", store.ErrStorage, s.path, err)
		}
	}
	p := core.Preferences{CurrencySymbol: doc.CurrencySymbol, DefaultMonthlyBudget: budget}
	if p.CurrencySymbol == "" {
		p.CurrencySymbol = core.DefaultCurrencySymbol
	}
	return p, nil
}

// Set validates and persists new preferences. An empty currency symbol
// falls back to the default.
func (s *PreferencesStore) Set(ctx context.Context, p core.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.CurrencySymbol) == "" {
		p.CurrencySymbol = core.DefaultCurrencySymbol
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(p); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Preferences saved",
		"currency_symbol", p.CurrencySymbol,
		"budget_cents", p.DefaultMonthlyBudget.Cents)
	return nil
}

func (s *PreferencesStore) persist(p core.Preferences) error {
	doc := preferencesDoc{
		CurrencySymbol:       p.CurrencySymbol,
		DefaultMonthlyBudget: json.Number(p.DefaultMonthlyBudget.String()),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode preferences: %v", store.ErrStorage, err)
	}
	err = writeAtomic(s.path, func(f *os.File) error {
		_, err := f.Write(append(raw, '\n'))
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrStorage, s.path, err)
	}
	return nil
}
