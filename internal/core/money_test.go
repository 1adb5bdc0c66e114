package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0", 0, true}, // zero amounts are legal records
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"₹500.00", 50000, true},
		{"$12.34", 1234, true},
		{"AED 300", 30000, true},
		{"1,234.50", 123450, true}, // comma groups thousands next to a dot
		{"$1,234.50", 123450, true},
		{"1,234,567", 123456700, true},
		{"₹1,234,567.89", 123456789, true},
		{"92233720368547757.99", 9223372036854775799, true},
		{"92233720368547758.99", 0, false}, // would overflow int64 cents
		{"-1", 0, false},
		{"$-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{123, "1.23"},
		{100000, "1000.00"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(Money{Cents: 123456}, "₹"); got != "₹1234.56" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := FormatMoney(Money{Cents: -50}, "$"); got != "-$0.50" {
		t.Fatalf("unexpected negative format: %q", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero should be valid, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
