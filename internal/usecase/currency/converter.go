package currency

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// Pivot is the reference currency every cross rate is routed through
const Pivot = "USD"

var one = decimal.NewFromInt(1)

// Converter converts monetary amounts between currencies using a
// date-stamped rate table. It is an immutable lookup structure built once
// per reconciliation batch and threaded through arguments; no ambient state.
type Converter struct {
	// byDate maps a date key to per-currency units-per-USD rates
	byDate map[string]map[string]decimal.Decimal
	// dates holds every known rate date, sorted ascending
	dates []time.Time
}

// NewConverter builds a converter from a set of FX rate records
func NewConverter(rates []domain.FxRate) *Converter {
	c := &Converter{byDate: make(map[string]map[string]decimal.Decimal)}

	for _, r := range rates {
		key := dateKey(r.Date)
		table, ok := c.byDate[key]
		if !ok {
			table = make(map[string]decimal.Decimal)
			c.byDate[key] = table
			c.dates = append(c.dates, r.Date.UTC().Truncate(24*time.Hour))
		}
		table[r.Currency] = r.Rate
	}

	sort.Slice(c.dates, func(i, j int) bool { return c.dates[i].Before(c.dates[j]) })

	return c
}

// Convert converts amount from one currency to another as of a date.
// Returns the converted amount, the effective cross rate used, and an
// isFallback flag that is true when no usable FX data existed and the rate
// degraded to 1.0 — callers must surface such values as unverified rather
// than fail the whole valuation over a missing FX day.
// Malformed currency codes are a hard error: they indicate an upstream bug,
// not an expected data gap.
// No intermediate rounding happens here; rounding to 2 decimals belongs to
// the presentation boundary only.
func (c *Converter) Convert(amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, decimal.Decimal, bool, error) {
	if !domain.ValidCurrencyCode(from) || !domain.ValidCurrencyCode(to) {
		return decimal.Zero, decimal.Zero, false, errors.New("malformed currency code")
	}

	if from == to {
		return amount, one, false, nil
	}

	table := c.tableFor(asOf)
	if table == nil {
		return amount, one, true, nil
	}

	fromRate, okFrom := pivotRate(table, from)
	toRate, okTo := pivotRate(table, to)
	if !okFrom || !okTo {
		return amount, one, true, nil
	}

	// Cross rate via the pivot: amount -> USD -> target
	rateUsed := toRate.Div(fromRate)
	return amount.Mul(rateUsed), rateUsed, false, nil
}

// tableFor finds the rate table for a date: exact match first, else the
// nearest past date, else the nearest future date. Returns nil when no FX
// data exists at all.
func (c *Converter) tableFor(asOf time.Time) map[string]decimal.Decimal {
	if len(c.dates) == 0 {
		return nil
	}

	want := asOf.UTC().Truncate(24 * time.Hour)
	if table, ok := c.byDate[dateKey(want)]; ok {
		return table
	}

	// Nearest past preferred
	for i := len(c.dates) - 1; i >= 0; i-- {
		if !c.dates[i].After(want) {
			return c.byDate[dateKey(c.dates[i])]
		}
	}

	// All known dates are in the future: take the earliest
	return c.byDate[dateKey(c.dates[0])]
}

// pivotRate returns the units-per-USD rate for a currency
func pivotRate(table map[string]decimal.Decimal, ccy string) (decimal.Decimal, bool) {
	if ccy == Pivot {
		return one, true
	}
	rate, ok := table[ccy]
	return rate, ok
}

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
