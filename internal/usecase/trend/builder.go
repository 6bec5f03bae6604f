package trend

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// maxJitterFraction bounds the synthetic-series jitter at ±0.7% of the price
const maxJitterFraction = 0.007

// Build assembles a bounded historical price series for sparkline display.
//
// With at least windowSize real points the most recent windowSize are
// returned oldest to newest, marked real. With fewer points but a known
// current price, a flat series of windowSize points with small bounded
// jitter is synthesized purely for visual continuity — the isSynthetic flag
// MUST reach every consumer so decorative data is never mistaken for real
// history. With no price at all the series is empty.
func Build(history []domain.PriceSnapshot, windowSize int, currentPrice *decimal.Decimal) ([]float64, bool) {
	if windowSize <= 0 {
		return nil, false
	}

	points := realPoints(history)
	if len(points) >= windowSize {
		return points[len(points)-windowSize:], false
	}

	if currentPrice != nil {
		return syntheticSeries(currentPrice.InexactFloat64(), windowSize), true
	}

	return nil, false
}

// realPoints extracts one price per snapshot, oldest to newest.
// The ask is the display price; last sale then bid stand in for providers
// that do not quote asks.
func realPoints(history []domain.PriceSnapshot) []float64 {
	ordered := make([]domain.PriceSnapshot, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CapturedAt.Before(ordered[j].CapturedAt)
	})

	points := make([]float64, 0, len(ordered))
	for _, snap := range ordered {
		switch {
		case snap.LowestAsk != nil:
			points = append(points, snap.LowestAsk.InexactFloat64())
		case snap.LastSale != nil:
			points = append(points, snap.LastSale.InexactFloat64())
		case snap.HighestBid != nil:
			points = append(points, snap.HighestBid.InexactFloat64())
		}
	}
	return points
}

// syntheticSeries produces a flat placeholder line around price with jitter
// bounded to ±0.7%. Jitter is the one place non-determinism is allowed.
func syntheticSeries(price float64, windowSize int) []float64 {
	series := make([]float64, windowSize)
	for i := range series {
		jitter := (rand.Float64()*2 - 1) * maxJitterFraction
		series[i] = price * (1 + jitter)
	}
	return series
}
