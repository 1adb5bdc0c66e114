package http

import (
	"net/http"

	"bling/internal/core"
	"bling/internal/report"
	"bling/internal/suggest"
)

type dashboardResponse struct {
	Report report.Payload `json:"report"`
	Tips   []string       `json:"tips"`
}

type overviewEntry struct {
	Month        string `json:"month"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Balance      string `json:"balance"`
}

// handleDashboard returns the month's aggregate, report payload and
// suggestion tips. Responses are cached per month until a mutation.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if cached, ok := s.dashboardCache.Get(month.String()); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	resp, err := s.buildDashboard(r, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.dashboardCache.Set(month.String(), resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(r *http.Request, month core.MonthKey) (dashboardResponse, error) {
	ctx := r.Context()

	expenses, err := s.expenses.List(ctx, month)
	if err != nil {
		return dashboardResponse{}, err
	}
	income, err := s.income.List(ctx)
	if err != nil {
		return dashboardResponse{}, err
	}
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return dashboardResponse{}, err
	}

	agg := core.Aggregate(expenses, income[month], month)
	return dashboardResponse{
		Report: report.Build(agg, prefs),
		Tips:   suggest.Suggest(agg, prefs).Tips,
	}, nil
}

// handleOverview returns one summary line per month with any activity,
// sorted chronologically.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expenses, err := s.expenses.List(ctx, core.MonthKey{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	income, err := s.income.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	aggregates := core.AggregateAll(expenses, income)
	resp := make([]overviewEntry, len(aggregates))
	for i, agg := range aggregates {
		resp[i] = overviewEntry{
			Month:        agg.Month.String(),
			TotalIncome:  core.FormatMoney(agg.TotalIncome, prefs.CurrencySymbol),
			TotalExpense: core.FormatMoney(agg.TotalExpense, prefs.CurrencySymbol),
			Balance:      core.FormatMoney(agg.Balance(), prefs.CurrencySymbol),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
