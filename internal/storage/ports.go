package storage

import (
	"context"

	"bling/internal/core"
	"bling/internal/store"
)

// Port adapters exposing the repository through the store interfaces.
// The interfaces overlap on method names, so each gets a narrow view.

type expenseView struct{ r *SQLiteRepository }

func (v expenseView) Add(ctx context.Context, e core.Expense) (int, error) {
	return v.r.AddExpense(ctx, e)
}

func (v expenseView) Update(ctx context.Context, id int, e core.Expense) error {
	return v.r.UpdateExpense(ctx, id, e)
}

func (v expenseView) Delete(ctx context.Context, id int) error {
	return v.r.DeleteExpense(ctx, id)
}

func (v expenseView) List(ctx context.Context, month core.MonthKey) ([]core.Expense, error) {
	return v.r.ListExpenses(ctx, month)
}

type incomeView struct{ r *SQLiteRepository }

func (v incomeView) Set(ctx context.Context, month core.MonthKey, amount core.Money) error {
	return v.r.SetIncome(ctx, month, amount)
}

func (v incomeView) List(ctx context.Context) (map[core.MonthKey]core.Money, error) {
	return v.r.IncomeByMonth(ctx)
}

type preferencesView struct{ r *SQLiteRepository }

func (v preferencesView) Get(ctx context.Context) (core.Preferences, error) {
	return v.r.GetPreferences(ctx)
}

func (v preferencesView) Set(ctx context.Context, p core.Preferences) error {
	return v.r.SetPreferences(ctx, p)
}

// Expenses returns the repository as a store.ExpenseStore.
func (r *SQLiteRepository) Expenses() store.ExpenseStore { return expenseView{r} }

// Income returns the repository as a store.IncomeStore.
func (r *SQLiteRepository) Income() store.IncomeStore { return incomeView{r} }

// Preferences returns the repository as a store.PreferencesStore.
func (r *SQLiteRepository) Preferences() store.PreferencesStore { return preferencesView{r} }
