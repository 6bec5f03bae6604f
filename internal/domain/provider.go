package domain

import "github.com/shopspring/decimal"

// Provider identifies one of the upstream marketplaces we pull prices from
type Provider string

const (
	// ProviderStockX is a bid/ask exchange: live lowest-ask and highest-bid per variant
	ProviderStockX Provider = "stockx"
	// ProviderGoat is a consignment marketplace: listing prices and offers
	ProviderGoat Provider = "goat"
	// ProviderEbay is an auction aggregator: completed-sale derived pricing
	ProviderEbay Provider = "ebay"
)

// AllProviders returns every marketplace known to the system, in a fixed order
func AllProviders() []Provider {
	return []Provider{ProviderStockX, ProviderGoat, ProviderEbay}
}

// FeeSchedule maps each provider to its seller fee, expressed as a fraction (0.10 = 10%)
// Fee rates differ materially between marketplaces, so the instant-sell net
// must always be computed with the fee of the provider that won the bid.
type FeeSchedule map[Provider]decimal.Decimal

// DefaultFeeSchedule returns the current published seller fee rates
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		ProviderStockX: decimal.NewFromFloat(0.10),
		ProviderGoat:   decimal.NewFromFloat(0.095),
		ProviderEbay:   decimal.NewFromFloat(0.08),
	}
}

// SellerFee returns the seller fee fraction for a provider
// Unknown providers pay no fee rather than failing the valuation.
func (fs FeeSchedule) SellerFee(p Provider) decimal.Decimal {
	if fee, ok := fs[p]; ok {
		return fee
	}
	return decimal.Zero
}
