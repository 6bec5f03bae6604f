package api

import (
	"net/http"

	"github.com/soletrack/soletrack-backend/internal/usecase/dashboard"
)

type summaryJSON struct {
	Currency        string `json:"currency"`
	TotalInvested   string `json:"totalInvested"`
	TotalValue      string `json:"totalValue"`
	TotalProfitLoss string `json:"totalProfitLoss"`
	ItemCount       int    `json:"itemCount"`
	PricedCount     int    `json:"pricedCount"`
	FXFallbackCount int    `json:"fxFallbackCount"`
}

func toSummaryJSON(s *dashboard.PortfolioSummary) summaryJSON {
	return summaryJSON{
		Currency:        s.Currency,
		TotalInvested:   s.TotalInvested.StringFixed(2),
		TotalValue:      s.TotalValue.StringFixed(2),
		TotalProfitLoss: s.TotalProfitLoss.StringFixed(2),
		ItemCount:       s.ItemCount,
		PricedCount:     s.PricedCount,
		FXFallbackCount: s.FXFallbackCount,
	}
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	ccy, err := s.displayCurrencyFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.summary.GetSummary(r.Context(), ccy)
	if err != nil {
		s.log.WithError(err).Error("failed to build portfolio summary")
		writeError(w, http.StatusInternalServerError, "failed to build portfolio summary")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}
