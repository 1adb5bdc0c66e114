// Package suggest turns a monthly aggregate into a deterministic,
// ordered list of spending tips.
package suggest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bling/internal/core"
)

const (
	// LowSavingsRate triggers the save-more tip below it.
	LowSavingsRate = 0.10
	// HighSavingsRate triggers the positive-reinforcement tip at or
	// above it.
	HighSavingsRate = 0.30
	// topCategoryTips is how many leading categories get a share tip.
	topCategoryTips = 3
)

// Report is the structured monthly summary returned by Suggest.
type Report struct {
	Aggregate   core.MonthlyAggregate
	Tips        []string
	SavingsRate float64
	RateDefined bool
}

// Rule is a single predicate+template pair. Rules are evaluated in a
// fixed order and every applicable rule contributes its tips.
type Rule struct {
	Name  string
	Apply func(agg core.MonthlyAggregate, prefs core.Preferences) []string
}

// Rules returns the fixed rule list, highest severity first.
func Rules() []Rule {
	return []Rule{
		{Name: "overspending", Apply: overspending},
		{Name: "budget_overrun", Apply: budgetOverrun},
		{Name: "low_savings", Apply: lowSavings},
		{Name: "high_savings", Apply: highSavings},
		{Name: "top_categories", Apply: topCategoryShares},
	}
}

// Suggest evaluates every rule against the aggregate. Identical inputs
// always yield identical tip lists in identical order.
func Suggest(agg core.MonthlyAggregate, prefs core.Preferences) Report {
	rep := Report{Aggregate: agg}
	rep.SavingsRate, rep.RateDefined = agg.SavingsRate()
	for _, rule := range Rules() {
		rep.Tips = append(rep.Tips, rule.Apply(agg, prefs)...)
	}
	return rep
}

func overspending(agg core.MonthlyAggregate, prefs core.Preferences) []string {
	if agg.TotalExpense.Cents <= agg.TotalIncome.Cents {
		return nil
	}
	over := agg.TotalExpense.Sub(agg.TotalIncome)
	return []string{fmt.Sprintf(
		"You are overspending this month: expenses exceed income by %s. Review your top categories and cut back where possible.",
		core.FormatMoney(over, prefs.CurrencySymbol))}
}

func budgetOverrun(agg core.MonthlyAggregate, prefs core.Preferences) []string {
	budget := prefs.DefaultMonthlyBudget
	if budget.Cents <= 0 || agg.TotalExpense.Cents <= budget.Cents {
		return nil
	}
	over := agg.TotalExpense.Sub(budget)
	return []string{fmt.Sprintf(
		"Monthly budget of %s exceeded by %s.",
		core.FormatMoney(budget, prefs.CurrencySymbol),
		core.FormatMoney(over, prefs.CurrencySymbol))}
}

func lowSavings(agg core.MonthlyAggregate, _ core.Preferences) []string {
	rate, ok := agg.SavingsRate()
	if !ok || rate >= LowSavingsRate {
		return nil
	}
	return []string{fmt.Sprintf(
		"You saved %d%% of income this month. Try to set aside at least %d%%.",
		roundPercent(rate), int(LowSavingsRate*100))}
}

func highSavings(agg core.MonthlyAggregate, _ core.Preferences) []string {
	rate, ok := agg.SavingsRate()
	if !ok || rate < HighSavingsRate {
		return nil
	}
	return []string{fmt.Sprintf(
		"Great! You saved %d%% of income this month. Consider automating a SIP with the surplus.",
		roundPercent(rate))}
}

func topCategoryShares(agg core.MonthlyAggregate, _ core.Preferences) []string {
	if agg.TotalExpense.Cents <= 0 {
		return nil
	}
	top := agg.TopCategories
	if len(top) > topCategoryTips {
		top = top[:topCategoryTips]
	}
	tips := make([]string, 0, len(top))
	for _, c := range top {
		tips = append(tips, fmt.Sprintf(
			"%s accounts for %d%% of this month's spending.",
			c.Name, SharePercent(c.Amount, agg.TotalExpense)))
	}
	return tips
}

// SharePercent is part/total as a whole percentage, rounded half-up.
func SharePercent(part, total core.Money) int64 {
	if total.Cents <= 0 {
		return 0
	}
	return decimal.NewFromInt(part.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total.Cents)).
		Round(0).
		IntPart()
}

func roundPercent(rate float64) int64 {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
