package report

import (
	"time"

	"github.com/shopspring/decimal"

	"bling/internal/core"
)

// Build packages a monthly aggregate and preferences into a Payload.
// Empty months produce a zeroed payload with NoData set instead of an error.
func Build(agg core.MonthlyAggregate, prefs core.Preferences) Payload {
	symbol := prefs.CurrencySymbol
	if symbol == "" {
		symbol = core.DefaultCurrencySymbol
	}

	balance := agg.Balance()
	p := Payload{
		Month:    agg.Month.String(),
		Currency: symbol,
		BuiltAt:  time.Now().UTC(),

		TotalIncome:  agg.TotalIncome,
		TotalExpense: agg.TotalExpense,
		Balance:      balance,

		TotalIncomeDisplay:  core.FormatMoney(agg.TotalIncome, symbol),
		TotalExpenseDisplay: core.FormatMoney(agg.TotalExpense, symbol),
		BalanceDisplay:      core.FormatMoney(balance, symbol),
	}

	if agg.TotalIncome.Cents == 0 && agg.TotalExpense.Cents == 0 && len(agg.CategoryTotals) == 0 {
		p.NoData = true
		return p
	}

	if _, ok := agg.SavingsRate(); ok {
		p.SavingsRatePercent = percentOf(balance, agg.TotalIncome)
		p.SavingsRateDefined = true
	}

	for _, ca := range agg.TopCategories {
		p.Categories = append(p.Categories, CategoryShare{
			Category:      ca.Name,
			Amount:        ca.Amount,
			AmountDisplay: core.FormatMoney(ca.Amount, symbol),
			SharePercent:  percentOf(ca.Amount, agg.TotalExpense),
		})
	}

	p.Pie = buildPie(agg.CategoryTotals, agg.TotalExpense)
	return p
}

// buildPie keeps the largest PieSliceLimit categories as named slices and
// folds the rest into Others.
func buildPie(totals map[string]core.Money, totalExpense core.Money) []PieSlice {
	ordered := core.TopCategories(totals, 0)
	if len(ordered) == 0 {
		return nil
	}

	var slices []PieSlice
	var others core.Money
	for i, ca := range ordered {
		if i < PieSliceLimit {
			slices = append(slices, PieSlice{
				Label:        ca.Name,
				Amount:       ca.Amount,
				SharePercent: percentOf(ca.Amount, totalExpense),
			})
			continue
		}
		others = others.Add(ca.Amount)
	}
	if others.Cents > 0 {
		slices = append(slices, PieSlice{
			Label:        OthersLabel,
			Amount:       others,
			SharePercent: percentOf(others, totalExpense),
		})
	}
	return slices
}

// percentOf returns part/total as a whole percentage, rounded half up.
// A zero total yields 0.
func percentOf(part, total core.Money) int64 {
	if total.Cents == 0 {
		return 0
	}
	return decimal.NewFromInt(part.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total.Cents)).
		Round(0).
		IntPart()
}
