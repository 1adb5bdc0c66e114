package http

import (
	"net/http"

	"bling/internal/core"
	"bling/internal/log"
)

type scheduleReportRequest struct {
	Month string `json:"month"`
}

type scheduleReportResponse struct {
	JobID string `json:"job_id"`
	Month string `json:"month"`
}

type preferencesDTO struct {
	CurrencySymbol       string `json:"currency_symbol"`
	DefaultMonthlyBudget string `json:"default_monthly_budget"`
}

func (s *Server) handleScheduleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report scheduling not configured")
		return
	}

	var req scheduleReportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	month, err := core.ParseMonthKey(req.Month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	jobID, err := s.reports.Schedule(r.Context(), month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to schedule report",
			log.FieldError, err,
			log.FieldMonth, month.String(),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, scheduleReportResponse{
		JobID: jobID.String(),
		Month: month.String(),
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.prefs.Get(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesDTO{
		CurrencySymbol:       prefs.CurrencySymbol,
		DefaultMonthlyBudget: prefs.DefaultMonthlyBudget.String(),
	})
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := core.ParseMoney(req.DefaultMonthlyBudget)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	prefs := core.Preferences{
		CurrencySymbol:       sanitizeInput(req.CurrencySymbol),
		DefaultMonthlyBudget: budget,
	}
	if prefs.CurrencySymbol == "" {
		prefs.CurrencySymbol = core.DefaultCurrencySymbol
	}

	if err := s.prefs.Set(r.Context(), prefs); err != nil {
		writeDomainError(w, err)
		return
	}

	// budget and symbol feed the dashboard, so drop everything
	s.dashboardCache.InvalidateAll()
	writeJSON(w, http.StatusOK, preferencesDTO{
		CurrencySymbol:       prefs.CurrencySymbol,
		DefaultMonthlyBudget: prefs.DefaultMonthlyBudget.String(),
	})
}
