package valuation

import (
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Calculate derives the final valuation record for one item from its
// reconciled price and cost basis.
//
// Market price is a three-level fallback chain: the live ask is
// authoritative; the manual override is the user's explicit belief when no
// live price exists; invested cost is the conservative last resort so the
// display never drops below what was actually spent without reason.
//
// Missing market data degrades to nil fields — it is a data-quality fact to
// surface, not an engine error. Only structurally invalid input is an error.
func Calculate(
	item *domain.InventoryItem,
	reconciled domain.ReconciledPrice,
	fees domain.FeeSchedule,
) (*domain.EnrichedValuation, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	investedCost := item.InvestedCost()

	var marketPrice decimal.Decimal
	switch {
	case reconciled.Ask != nil:
		marketPrice = *reconciled.Ask
	case item.ManualValue != nil:
		marketPrice = *item.ManualValue
	default:
		marketPrice = investedCost
	}

	result := &domain.EnrichedValuation{
		ItemID:       item.ID,
		Currency:     reconciled.Currency,
		InvestedCost: investedCost,
		MarketPrice:  marketPrice,
		CurrentValue: marketPrice,
		AskProvider:  reconciled.AskProvider,
		BidProvider:  reconciled.BidProvider,
		FXFallback:   reconciled.FXFallback,
		Mapped:       reconciled.Mapped,
	}

	// P/L is suppressed (nil, not zero) when current value equals invested
	// cost: a zero difference is indistinguishable from the invested-cost
	// fallback and must not read as a confirmed break-even.
	if !result.CurrentValue.Equal(investedCost) {
		profitLoss := result.CurrentValue.Sub(investedCost)
		result.ProfitLoss = &profitLoss

		if investedCost.IsPositive() {
			performancePct := profitLoss.Div(investedCost).Mul(hundred)
			result.PerformancePct = &performancePct
		}
	}

	// Instant-sell is fee-adjusted with the bid winner's fee, never a global
	// constant: marketplaces charge materially different seller rates.
	if reconciled.Bid != nil {
		gross := *reconciled.Bid
		result.InstantSellGross = &gross

		net := gross.Mul(one.Sub(fees.SellerFee(reconciled.BidProvider))).Round(2)
		result.InstantSellNet = &net
	}

	// Spread is defined only when both sides exist
	if reconciled.Ask != nil && reconciled.Bid != nil && reconciled.Bid.IsPositive() {
		spreadPct := reconciled.Ask.Sub(*reconciled.Bid).Div(*reconciled.Bid).Mul(hundred)
		result.SpreadPct = &spreadPct
	}

	return result, nil
}
