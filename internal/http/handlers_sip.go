package http

import (
	"net/http"

	"bling/internal/core"
	"bling/internal/sip"
)

type sipRequest struct {
	Mode              string  `json:"mode"` // "forward" or "inverse"
	MonthlyInvestment string  `json:"monthly_investment,omitempty"`
	TargetValue       string  `json:"target_value,omitempty"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Months            int     `json:"months"`
}

type sipResponse struct {
	Mode              string  `json:"mode"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Months            int     `json:"months"`

	MonthlyInvestment string `json:"monthly_investment"`
	FutureValue       string `json:"future_value,omitempty"`
	TargetValue       string `json:"target_value,omitempty"`
}

func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	var req sipRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Mode {
	case "forward":
		monthly, err := core.ParseMoney(req.MonthlyInvestment)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		proj, err := sip.FutureValue(monthly, req.AnnualRatePercent, req.Months)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sipResponse{
			Mode:              req.Mode,
			AnnualRatePercent: proj.AnnualRatePercent,
			Months:            proj.Months,
			MonthlyInvestment: proj.MonthlyInvestment.String(),
			FutureValue:       proj.FutureValue.String(),
		})

	case "inverse":
		target, err := core.ParseMoney(req.TargetValue)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		reqd, err := sip.RequiredInvestment(target, req.AnnualRatePercent, req.Months)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sipResponse{
			Mode:              req.Mode,
			AnnualRatePercent: reqd.AnnualRatePercent,
			Months:            reqd.Months,
			MonthlyInvestment: reqd.MonthlyInvestment.String(),
			TargetValue:       reqd.TargetValue.String(),
		})

	default:
		writeError(w, http.StatusBadRequest, "mode must be \"forward\" or \"inverse\"")
	}
}
