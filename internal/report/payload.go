// Package report assembles monthly aggregates into renderer-ready payloads
// and drives the document renderers that consume them. Assembly never fails
// on an empty month; rendering failures stay on their side of the boundary.
package report

import (
	"time"

	"bling/internal/core"
)

// PieSliceLimit caps the number of named slices in the category pie.
// Remaining categories are folded into a single "Others" slice.
const PieSliceLimit = 6

// OthersLabel names the pie slice aggregating categories past the limit.
const OthersLabel = "Others"

// CategoryShare is one category's contribution to the month's spend.
type CategoryShare struct {
	Category      string     `json:"category"`
	Amount        core.Money `json:"amount_cents"`
	AmountDisplay string     `json:"amount"`
	SharePercent  int64      `json:"share_percent"`
}

// PieSlice is a chart-ready slice of the category pie.
type PieSlice struct {
	Label        string     `json:"label"`
	Amount       core.Money `json:"amount_cents"`
	SharePercent int64      `json:"share_percent"`
}

// Payload carries everything a chart or document renderer needs for one
// month. Raw amounts stay in cents; display strings carry the currency
// symbol from preferences.
type Payload struct {
	Month    string    `json:"month"`
	NoData   bool      `json:"no_data"`
	Currency string    `json:"currency_symbol"`
	BuiltAt  time.Time `json:"built_at"`

	TotalIncome  core.Money `json:"total_income_cents"`
	TotalExpense core.Money `json:"total_expense_cents"`
	Balance      core.Money `json:"balance_cents"`

	TotalIncomeDisplay  string `json:"total_income"`
	TotalExpenseDisplay string `json:"total_expense"`
	BalanceDisplay      string `json:"balance"`

	SavingsRatePercent int64 `json:"savings_rate_percent"`
	SavingsRateDefined bool  `json:"savings_rate_defined"`

	Categories []CategoryShare `json:"categories"`
	Pie        []PieSlice      `json:"pie"`
}
