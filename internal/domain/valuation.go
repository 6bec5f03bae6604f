package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciledPrice is the single authoritative price pair selected across all
// mapped providers for one item, already expressed in the display currency.
// Ask and bid attributions are independent: the provider with the best ask
// is often not the provider with the best bid.
type ReconciledPrice struct {
	Ask *decimal.Decimal
	Bid *decimal.Decimal

	// Currency is always the display currency the caller asked for
	Currency string

	AskProvider   Provider
	BidProvider   Provider
	AskCapturedAt time.Time
	BidCapturedAt time.Time

	// FXFallback is true when any contributing amount was converted with a
	// fallback rate (no FX data for the date), so the value is unverified.
	FXFallback bool

	// Mapped records, per provider, whether the item is linked at all.
	// false means "not linked", distinct from "linked but no data".
	Mapped map[Provider]bool
}

// Empty reports whether no provider contributed any price
func (rp *ReconciledPrice) Empty() bool {
	return rp.Ask == nil && rp.Bid == nil
}

// EnrichedValuation is the final per-item output record, ready for direct
// serialization. Every monetary field is in Currency; nothing downstream
// re-converts.
type EnrichedValuation struct {
	ItemID   uuid.UUID
	Currency string

	InvestedCost decimal.Decimal
	MarketPrice  decimal.Decimal
	CurrentValue decimal.Decimal

	// ProfitLoss is nil (not zero) when current value equals invested cost:
	// a zero difference is indistinguishable from "no market data, fell back
	// to invested cost" and must not be shown as a confirmed break-even.
	ProfitLoss     *decimal.Decimal
	PerformancePct *decimal.Decimal
	SpreadPct      *decimal.Decimal

	InstantSellGross *decimal.Decimal
	InstantSellNet   *decimal.Decimal

	AskProvider Provider
	BidProvider Provider
	FXFallback  bool
	Mapped      map[Provider]bool

	Trend          []float64
	TrendSynthetic bool
}
