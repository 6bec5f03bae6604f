package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// PortfolioSummary represents the aggregated worth of the whole inventory
type PortfolioSummary struct {
	Currency string

	TotalInvested decimal.Decimal
	TotalValue    decimal.Decimal

	// TotalProfitLoss sums only items with a confirmed profit or loss; items
	// priced at invested-cost fallback contribute nothing rather than a fake
	// zero.
	TotalProfitLoss decimal.Decimal

	ItemCount int

	// PricedCount is how many items carry a live market price (an ask from
	// at least one provider) rather than a manual or cost fallback
	PricedCount int

	// FXFallbackCount is how many valuations relied on a fallback FX rate
	FXFallbackCount int
}

// ValuationSource produces the per-item valuations the summary aggregates
type ValuationSource interface {
	ValuePortfolio(ctx context.Context, displayCurrency string) ([]*domain.EnrichedValuation, error)
}

// DashboardService handles portfolio-level aggregation
type DashboardService struct {
	Valuations ValuationSource
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(valuations ValuationSource) *DashboardService {
	return &DashboardService{
		Valuations: valuations,
	}
}

// GetSummary values the whole portfolio in the display currency and rolls the
// per-item results up into portfolio totals
func (s *DashboardService) GetSummary(ctx context.Context, displayCurrency string) (*PortfolioSummary, error) {
	valuations, err := s.Valuations.ValuePortfolio(ctx, displayCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to value portfolio: %w", err)
	}

	summary := &PortfolioSummary{
		Currency:  displayCurrency,
		ItemCount: len(valuations),
	}

	for _, v := range valuations {
		summary.TotalInvested = summary.TotalInvested.Add(v.InvestedCost)
		summary.TotalValue = summary.TotalValue.Add(v.CurrentValue)

		if v.ProfitLoss != nil {
			summary.TotalProfitLoss = summary.TotalProfitLoss.Add(*v.ProfitLoss)
		}
		if v.AskProvider != "" {
			summary.PricedCount++
		}
		if v.FXFallback {
			summary.FXFallbackCount++
		}
	}

	return summary, nil
}
