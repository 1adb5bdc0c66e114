package http

import (
	"net/http"

	"bling/internal/core"
	"bling/internal/log"
)

type incomeEntry struct {
	Month       string `json:"month"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

type setIncomeRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	income, err := s.income.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make(map[string]incomeEntry, len(income))
	for month, amount := range income {
		resp[month.String()] = incomeEntry{
			Month:       month.String(),
			Amount:      amount.String(),
			AmountCents: amount.Cents,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req setIncomeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.income.Set(r.Context(), month, amount); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to set income",
			log.FieldError, err,
			log.FieldMonth, month.String(),
		)
		writeDomainError(w, err)
		return
	}

	s.dashboardCache.Invalidate(month.String())
	writeJSON(w, http.StatusOK, incomeEntry{
		Month:       month.String(),
		Amount:      amount.String(),
		AmountCents: amount.Cents,
	})
}
