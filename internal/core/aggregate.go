package core

import "sort"

// TopCategoryLimit caps the ordered top-category list on a monthly
// aggregate.
const TopCategoryLimit = 5

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthlyAggregate is a derived summary for a specific month. It is
// recomputed on demand from the current record snapshot and never
// persisted.
type MonthlyAggregate struct {
	Month          MonthKey
	TotalIncome    Money
	TotalExpense   Money
	CategoryTotals map[string]Money
	TopCategories  []CategoryAmount
}

// Balance is income minus expense; negative means a deficit.
func (a MonthlyAggregate) Balance() Money {
	return a.TotalIncome.Sub(a.TotalExpense)
}

// SavingsRate returns balance/income. It is undefined (ok == false)
// when the month has no income.
func (a MonthlyAggregate) SavingsRate() (rate float64, ok bool) {
	if a.TotalIncome.Cents <= 0 {
		return 0, false
	}
	return float64(a.Balance().Cents) / float64(a.TotalIncome.Cents), true
}

// Aggregate summarizes the expenses falling in month together with the
// month's income. Records outside the month are ignored. Zero records
// yield all-zero totals and an empty top-category list.
func Aggregate(expenses []Expense, income Money, month MonthKey) MonthlyAggregate {
	agg := MonthlyAggregate{
		Month:          month,
		TotalIncome:    income,
		CategoryTotals: make(map[string]Money),
	}
	for _, e := range expenses {
		if MonthOf(e.Date) != month {
			continue
		}
		agg.TotalExpense = agg.TotalExpense.Add(e.Amount)
		agg.CategoryTotals[e.Category] = agg.CategoryTotals[e.Category].Add(e.Amount)
	}
	agg.TopCategories = TopCategories(agg.CategoryTotals, TopCategoryLimit)
	return agg
}

// AggregateAll produces one aggregate per distinct month present in
// either the expense records or the income table, in chronological
// order.
func AggregateAll(expenses []Expense, income map[MonthKey]Money) []MonthlyAggregate {
	months := make(map[MonthKey]struct{})
	for _, e := range expenses {
		months[MonthOf(e.Date)] = struct{}{}
	}
	for k := range income {
		months[k] = struct{}{}
	}

	keys := make([]MonthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]MonthlyAggregate, 0, len(keys))
	for _, k := range keys {
		out = append(out, Aggregate(expenses, income[k], k))
	}
	return out
}

// TopCategories orders category totals descending by amount, ties
// broken ascending by name, truncated to limit. A limit <= 0 returns
// the full ordering.
func TopCategories(totals map[string]Money, limit int) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
