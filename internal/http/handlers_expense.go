package http

import (
	"net/http"
	"strconv"

	"bling/internal/core"
	"bling/internal/log"
)

type expenseRequest struct {
	Date           string `json:"date"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	CurrencySymbol string `json:"currency_symbol,omitempty"`
	Note           string `json:"note,omitempty"`
}

type expenseResponse struct {
	ID             int    `json:"id"`
	Date           string `json:"date"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	AmountCents    int64  `json:"amount_cents"`
	CurrencySymbol string `json:"currency_symbol"`
	Note           string `json:"note,omitempty"`
}

// toExpense validates and converts the request DTO, filling the currency
// symbol from preferences when the request leaves it empty.
func (s *Server) toExpense(r *http.Request, req expenseRequest) (core.Expense, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}

	symbol := sanitizeInput(req.CurrencySymbol)
	if symbol == "" {
		prefs, err := s.prefs.Get(r.Context())
		if err != nil {
			return core.Expense{}, err
		}
		symbol = prefs.CurrencySymbol
	}

	e := core.Expense{
		Date:     date,
		Category: sanitizeInput(req.Category),
		Amount:   amount,
		Currency: symbol,
		Note:     sanitizeInput(req.Note),
	}
	return e, e.Validate()
}

func toExpenseResponse(id int, e core.Expense) expenseResponse {
	return expenseResponse{
		ID:             id,
		Date:           e.Date.ISO(),
		Category:       e.Category,
		Amount:         e.Amount.String(),
		AmountCents:    e.Amount.Cents,
		CurrencySymbol: e.Currency,
		Note:           e.Note,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	var month core.MonthKey
	if r.URL.Query().Has("month") {
		parsed, err := core.ParseMonthKey(r.URL.Query().Get("month"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		month = parsed
	}

	expenses, err := s.expenses.List(r.Context(), month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(i, e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.toExpense(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.expenses.Add(r.Context(), e)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save expense",
			log.FieldError, err,
			log.FieldCategory, e.Category,
			log.FieldAmountCents, e.Amount.Cents,
		)
		writeDomainError(w, err)
		return
	}

	s.dashboardCache.InvalidateAll()
	writeJSON(w, http.StatusCreated, toExpenseResponse(id, e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.toExpense(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.expenses.Update(r.Context(), id, e); err != nil {
		writeDomainError(w, err)
		return
	}

	s.dashboardCache.InvalidateAll()
	writeJSON(w, http.StatusOK, toExpenseResponse(id, e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	s.dashboardCache.InvalidateAll()
	w.WriteHeader(http.StatusNoContent)
}
