package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is one provider's observation of price for a
// (catalog key, size, currency) tuple at a point in time.
// Fetchers normalize everything at the boundary: amounts are always major
// currency units and sizes are always canonical UK, so the engine never
// branches on which provider produced a snapshot.
type PriceSnapshot struct {
	Provider   Provider
	CatalogKey string
	SizeUK     float64
	Currency   string

	// Absent sides are nil: an exchange always has ask/bid, an auction
	// aggregator may only have a last sale.
	LowestAsk  *decimal.Decimal
	HighestBid *decimal.Decimal
	LastSale   *decimal.Decimal

	CapturedAt time.Time
}

// FxRate is one date-stamped conversion factor against the USD pivot:
// Rate is how many units of Currency one USD buys on Date.
// Routing every conversion through the pivot avoids an O(n²) rate matrix.
// Immutable once recorded for a date.
type FxRate struct {
	Date     time.Time
	Currency string
	Rate     decimal.Decimal
}
