package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// valuationJSON is the wire form of an enriched valuation. Amounts are
// rendered with two decimal places here, at the presentation boundary; the
// engine itself never rounds.
type valuationJSON struct {
	ItemID   string `json:"itemId"`
	Currency string `json:"currency"`

	InvestedCost string `json:"investedCost"`
	MarketPrice  string `json:"marketPrice"`
	CurrentValue string `json:"currentValue"`

	ProfitLoss     *string `json:"profitLoss"`
	PerformancePct *string `json:"performancePct"`
	SpreadPct      *string `json:"spreadPct"`

	InstantSellGross *string `json:"instantSellGross"`
	InstantSellNet   *string `json:"instantSellNet"`

	AskProvider string          `json:"askProvider,omitempty"`
	BidProvider string          `json:"bidProvider,omitempty"`
	FXFallback  bool            `json:"fxFallback"`
	Mapped      map[string]bool `json:"mapped"`

	Trend          []float64 `json:"trend"`
	TrendSynthetic bool      `json:"trendSynthetic"`
}

func toValuationJSON(v *domain.EnrichedValuation) valuationJSON {
	mapped := make(map[string]bool, len(v.Mapped))
	for p, ok := range v.Mapped {
		mapped[string(p)] = ok
	}

	trend := v.Trend
	if trend == nil {
		trend = []float64{}
	}

	return valuationJSON{
		ItemID:           v.ItemID.String(),
		Currency:         v.Currency,
		InvestedCost:     v.InvestedCost.StringFixed(2),
		MarketPrice:      v.MarketPrice.StringFixed(2),
		CurrentValue:     v.CurrentValue.StringFixed(2),
		ProfitLoss:       fixed2(v.ProfitLoss),
		PerformancePct:   fixed2(v.PerformancePct),
		SpreadPct:        fixed2(v.SpreadPct),
		InstantSellGross: fixed2(v.InstantSellGross),
		InstantSellNet:   fixed2(v.InstantSellNet),
		AskProvider:      string(v.AskProvider),
		BidProvider:      string(v.BidProvider),
		FXFallback:       v.FXFallback,
		Mapped:           mapped,
		Trend:            trend,
		TrendSynthetic:   v.TrendSynthetic,
	}
}

// fixed2 renders a nullable decimal at two decimal places, preserving null
func fixed2(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func (s *Server) handleValuations(w http.ResponseWriter, r *http.Request) {
	ccy, err := s.displayCurrencyFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	valuations, err := s.valuations.ValuePortfolio(r.Context(), ccy)
	if err != nil {
		s.log.WithError(err).Error("failed to value portfolio")
		writeError(w, http.StatusInternalServerError, "failed to value portfolio")
		return
	}

	out := make([]valuationJSON, len(valuations))
	for i, v := range valuations {
		out[i] = toValuationJSON(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValuationByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	ccy, err := s.displayCurrencyFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	valuation, err := s.valuations.ValueItem(r.Context(), id, ccy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		s.log.WithError(err).WithField("item_id", id).Error("failed to value item")
		writeError(w, http.StatusInternalServerError, "failed to value item")
		return
	}
	writeJSON(w, http.StatusOK, toValuationJSON(valuation))
}
