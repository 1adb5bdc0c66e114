// Package core provides money parsing and handling utilities.
//
// Monetary amounts are fixed-point cents so that sums over many records
// stay exact; float conversion happens only at presentation boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in whole cents. Zero is a valid amount, negative
// is not.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other. The result may be negative (a deficit).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// String renders the plain decimal form, e.g. "123.45".
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// FormatMoney prefixes the decimal form with a currency symbol for
// display, e.g. "₹123.45".
func FormatMoney(m Money, symbol string) string {
	if m.Cents < 0 {
		return "-" + symbol + Money{Cents: -m.Cents}.String()
	}
	return symbol + m.String()
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// tolerates a leading currency symbol and thousands-separator commas
// ("$1,234.50"), since edited amounts may carry them. A lone comma
// with no dot is the decimal separator. Negative values are rejected;
// zero is accepted.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Strip a leading currency label ("₹12.50", "AED 300").
	s = strings.TrimLeft(s, " ")
	for len(s) > 0 {
		r := []rune(s)[0]
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' || r == '+' {
			break
		}
		s = strings.TrimSpace(s[len(string(r)):])
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}
	switch {
	case strings.Contains(s, "."):
		// Dot is the decimal point, commas group thousands.
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") > 1:
		// Multiple commas without a dot can only group thousands.
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow of iv*100 plus up to 99 fractional cents.
	const maxSafeInt64 = ((1<<63 - 1) - 99) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first two fractional digits, half-up round on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// ParseMoney wraps ParseDecimalToCents into a Money value.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}
