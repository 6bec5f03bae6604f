package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValuationSource struct {
	valuations []*domain.EnrichedValuation
	err        error
}

func (s *stubValuationSource) ValuePortfolio(ctx context.Context, displayCurrency string) ([]*domain.EnrichedValuation, error) {
	return s.valuations, s.err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func valuation(invested, current string, profitLoss *string, askProvider domain.Provider, fxFallback bool) *domain.EnrichedValuation {
	v := &domain.EnrichedValuation{
		ItemID:       uuid.New(),
		Currency:     "GBP",
		InvestedCost: dec(invested),
		CurrentValue: dec(current),
		AskProvider:  askProvider,
		FXFallback:   fxFallback,
	}
	if profitLoss != nil {
		pl := dec(*profitLoss)
		v.ProfitLoss = &pl
	}
	return v
}

func strPtr(s string) *string { return &s }

func TestGetSummary_AggregatesPortfolioTotals(t *testing.T) {
	// Setup
	source := &stubValuationSource{valuations: []*domain.EnrichedValuation{
		valuation("150", "170", strPtr("20"), domain.ProviderGoat, false),
		valuation("200", "180", strPtr("-20"), domain.ProviderStockX, true),
	}}
	service := NewDashboardService(source)

	// Execute
	summary, err := service.GetSummary(context.Background(), "GBP")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "GBP", summary.Currency)
	assert.True(t, summary.TotalInvested.Equal(dec("350")))
	assert.True(t, summary.TotalValue.Equal(dec("350")))
	assert.True(t, summary.TotalProfitLoss.Equal(dec("0")))
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 2, summary.PricedCount)
	assert.Equal(t, 1, summary.FXFallbackCount)
}

func TestGetSummary_CostFallbackItemsDoNotCountAsPriced(t *testing.T) {
	// Setup: item valued at invested cost has no ask provider and nil P/L
	source := &stubValuationSource{valuations: []*domain.EnrichedValuation{
		valuation("150", "150", nil, "", false),
	}}
	service := NewDashboardService(source)

	// Execute
	summary, err := service.GetSummary(context.Background(), "GBP")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemCount)
	assert.Equal(t, 0, summary.PricedCount)
	assert.True(t, summary.TotalProfitLoss.IsZero())
}

func TestGetSummary_EmptyPortfolio(t *testing.T) {
	service := NewDashboardService(&stubValuationSource{valuations: []*domain.EnrichedValuation{}})

	summary, err := service.GetSummary(context.Background(), "GBP")

	require.NoError(t, err)
	assert.Equal(t, 0, summary.ItemCount)
	assert.True(t, summary.TotalInvested.IsZero())
}

func TestGetSummary_PropagatesValuationError(t *testing.T) {
	service := NewDashboardService(&stubValuationSource{err: errors.New("db down")})

	_, err := service.GetSummary(context.Background(), "GBP")

	assert.Error(t, err)
}
