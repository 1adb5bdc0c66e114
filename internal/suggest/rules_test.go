package suggest

import (
	"reflect"
	"strings"
	"testing"

	"bling/internal/core"
)

func aggregateFor(t *testing.T, expenses []core.Expense, incomeCents int64) core.MonthlyAggregate {
	t.Helper()
	return core.Aggregate(expenses, core.Money{Cents: incomeCents}, core.MonthKey{Year: 2024, Month: 1})
}

func janRecords() []core.Expense {
	return []core.Expense{
		{Date: core.NewDate(2024, 1, 5), Category: "Food", Amount: core.Money{Cents: 50000}},
		{Date: core.NewDate(2024, 1, 10), Category: "Food", Amount: core.Money{Cents: 30000}},
		{Date: core.NewDate(2024, 1, 15), Category: "Transport", Amount: core.Money{Cents: 20000}},
	}
}

func TestSuggestHighSavings(t *testing.T) {
	// Income 2000, expenses 1000: savings rate 0.5.
	rep := Suggest(aggregateFor(t, janRecords(), 200000), core.DefaultPreferences())

	if !rep.RateDefined || rep.SavingsRate != 0.5 {
		t.Fatalf("expected defined rate 0.5, got %v (defined=%v)", rep.SavingsRate, rep.RateDefined)
	}
	var sawHigh, sawOverspend bool
	for _, tip := range rep.Tips {
		if strings.Contains(tip, "Great!") {
			sawHigh = true
		}
		if strings.Contains(tip, "overspending") {
			sawOverspend = true
		}
	}
	if !sawHigh {
		t.Fatalf("expected high-savings tip, got %v", rep.Tips)
	}
	if sawOverspend {
		t.Fatalf("overspending tip must not fire: %v", rep.Tips)
	}
	// Top-3 category share tips follow, in top-category order.
	if len(rep.Tips) != 3 {
		t.Fatalf("expected 3 tips (high savings + 2 categories), got %v", rep.Tips)
	}
	if !strings.Contains(rep.Tips[1], "Food") || !strings.Contains(rep.Tips[1], "80%") {
		t.Fatalf("expected Food 80%% share tip second, got %q", rep.Tips[1])
	}
	if !strings.Contains(rep.Tips[2], "Transport") || !strings.Contains(rep.Tips[2], "20%") {
		t.Fatalf("expected Transport 20%% share tip third, got %q", rep.Tips[2])
	}
}

func TestSuggestOverspendingAndBudget(t *testing.T) {
	// Income 500, expenses 1000, budget 600.
	prefs := core.Preferences{CurrencySymbol: "₹", DefaultMonthlyBudget: core.Money{Cents: 60000}}
	rep := Suggest(aggregateFor(t, janRecords(), 50000), prefs)

	if len(rep.Tips) < 2 {
		t.Fatalf("expected overspending and budget tips, got %v", rep.Tips)
	}
	if !strings.Contains(rep.Tips[0], "overspending") || !strings.Contains(rep.Tips[0], "₹500.00") {
		t.Fatalf("first tip must flag the 500.00 overspend, got %q", rep.Tips[0])
	}
	if !strings.Contains(rep.Tips[1], "budget") || !strings.Contains(rep.Tips[1], "₹400.00") {
		t.Fatalf("second tip must flag the 400.00 budget overrun, got %q", rep.Tips[1])
	}
}

func TestSuggestLowSavings(t *testing.T) {
	// Income 1050, expenses 1000: rate ~4.8%.
	rep := Suggest(aggregateFor(t, janRecords(), 105000), core.DefaultPreferences())
	var sawLow bool
	for _, tip := range rep.Tips {
		if strings.Contains(tip, "set aside at least 10%") {
			sawLow = true
		}
	}
	if !sawLow {
		t.Fatalf("expected low-savings tip, got %v", rep.Tips)
	}
}

func TestSuggestEmptyMonth(t *testing.T) {
	rep := Suggest(aggregateFor(t, nil, 0), core.DefaultPreferences())
	if len(rep.Tips) != 0 {
		t.Fatalf("expected no tips for an empty month, got %v", rep.Tips)
	}
	if rep.RateDefined {
		t.Fatal("savings rate must be undefined without income")
	}
}

func TestSuggestDeterministic(t *testing.T) {
	agg := aggregateFor(t, janRecords(), 50000)
	prefs := core.Preferences{CurrencySymbol: "$", DefaultMonthlyBudget: core.Money{Cents: 10000}}
	first := Suggest(agg, prefs)
	second := Suggest(agg, prefs)
	if !reflect.DeepEqual(first.Tips, second.Tips) {
		t.Fatalf("suggest is not deterministic:\n%v\n%v", first.Tips, second.Tips)
	}
}

func TestSharePercent(t *testing.T) {
	cases := []struct {
		part, total int64
		want        int64
	}{
		{80000, 100000, 80},
		{1, 3, 33},
		{2, 3, 67}, // half-up
		{0, 100, 0},
		{5, 0, 0}, // guarded against empty totals
	}
	for _, tc := range cases {
		got := SharePercent(core.Money{Cents: tc.part}, core.Money{Cents: tc.total})
		if got != tc.want {
			t.Fatalf("%d/%d: expected %d%%, got %d%%", tc.part, tc.total, tc.want, got)
		}
	}
}
