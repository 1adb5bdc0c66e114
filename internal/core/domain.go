package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is the root of every input validation failure. Callers
// classify errors with errors.Is(err, ErrValidation) and surface them
// as user-facing messages instead of failing the process.
var ErrValidation = errors.New("invalid input")

var (
	ErrInvalidAmount = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrEmptyCategory = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidMonth  = fmt.Errorf("%w: invalid month key", ErrValidation)
	ErrInvalidBudget = fmt.Errorf("%w: budget must not be negative", ErrValidation)
)

type (
	// Date is a calendar day. The wire form is ISO YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// MonthKey identifies a year+month pair, the grouping unit for
	// income rows and all aggregation.
	MonthKey struct {
		Year  int
		Month int // 1-12
	}

	// Expense is a single spending record. Currency is a cosmetic
	// display label only, never an exchange-rate input.
	Expense struct {
		Date     Date
		Category string
		Amount   Money
		Currency string
		Note     string
	}

	// Preferences is the process-wide display and threshold
	// configuration, passed explicitly rather than kept as a global.
	Preferences struct {
		CurrencySymbol       string
		DefaultMonthlyBudget Money
	}
)

// DefaultCurrencySymbol is applied when no preferences file exists yet.
const DefaultCurrencySymbol = "₹"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil || len(s) != 10 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the YYYY-MM-DD wire form.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MonthOf returns the month key the date falls in.
func MonthOf(d Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: int(d.Time.Month())}
}

// ParseMonthKey parses a YYYY-MM month key.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	// time.Parse accepts one-digit months, the YYYY-MM shape is required
	t, err := time.Parse("2006-01", s)
	if err != nil || len(s) != 7 {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthKey{Year: t.Year(), Month: int(t.Month())}, nil
}

func (k MonthKey) Validate() error {
	if k.Year < 1 || k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: %04d-%02d", ErrInvalidMonth, k.Year, k.Month)
	}
	return nil
}

func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String returns the YYYY-MM wire form.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultPreferences returns the state created lazily on first run.
func DefaultPreferences() Preferences {
	return Preferences{
		CurrencySymbol:       DefaultCurrencySymbol,
		DefaultMonthlyBudget: Money{},
	}
}

func (p Preferences) Validate() error {
	if p.DefaultMonthlyBudget.Cents < 0 {
		return ErrInvalidBudget
	}
	return nil
}
