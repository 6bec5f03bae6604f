package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/usecase/currency"
)

// fallbackCurrencyOrder is the fixed order in which non-display currencies
// are tried when a provider has no snapshot in the display currency
var fallbackCurrencyOrder = []string{"USD", "EUR", "GBP"}

// candidate is one provider's price observation, already expressed in the
// display currency
type candidate struct {
	provider   domain.Provider
	ask        *decimal.Decimal
	bid        *decimal.Decimal
	capturedAt time.Time
	fxFallback bool
}

// Reconciler selects the authoritative ask/bid across all mapped providers
// for one item
type Reconciler struct {
	converter *currency.Converter
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(converter *currency.Converter) *Reconciler {
	return &Reconciler{converter: converter}
}

// Reconcile produces a single normalized price pair for one item.
//
// Selection policy: lowest non-null ask wins (the true floor price for a
// buyer), highest non-null bid wins (the best immediate liquidation for a
// seller) — evaluated independently, so the ask winner and bid winner may be
// different providers. A min/max selection self-corrects for per-marketplace
// liquidity differences in a way a fixed provider-priority rule cannot.
//
// An empty result (no provider yielded data) is a normal outcome for
// unmapped or manual items, not an error.
func (r *Reconciler) Reconcile(
	item *domain.InventoryItem,
	mappings []domain.ProviderMapping,
	index *Index,
	displayCurrency string,
) (domain.ReconciledPrice, error) {
	if !domain.ValidCurrencyCode(displayCurrency) {
		return domain.ReconciledPrice{}, errors.New("malformed display currency code")
	}

	result := domain.ReconciledPrice{
		Currency: displayCurrency,
		Mapped:   make(map[domain.Provider]bool, len(domain.AllProviders())),
	}
	for _, p := range domain.AllProviders() {
		result.Mapped[p] = false
	}

	var candidates []candidate
	for _, mapping := range mappings {
		result.Mapped[mapping.Provider] = true

		// Unhealthy mappings are silently skipped; the matcher owns fixing them
		if mapping.Health != domain.MappingHealthOK {
			continue
		}

		cand, found, err := r.lookupCandidate(mapping, item.SizeUK, index, displayCurrency)
		if err != nil {
			return domain.ReconciledPrice{}, err
		}
		if found {
			candidates = append(candidates, cand)
		}
	}

	askWinner := selectAsk(candidates)
	if askWinner != nil {
		ask := *askWinner.ask
		result.Ask = &ask
		result.AskProvider = askWinner.provider
		result.AskCapturedAt = askWinner.capturedAt
	}

	bidWinner := selectBid(candidates)
	if bidWinner != nil {
		bid := *bidWinner.bid
		result.Bid = &bid
		result.BidProvider = bidWinner.provider
		result.BidCapturedAt = bidWinner.capturedAt
	}

	// Provenance follows the selected values only
	result.FXFallback = (askWinner != nil && askWinner.fxFallback) ||
		(bidWinner != nil && bidWinner.fxFallback)

	return result, nil
}

// lookupCandidate finds a snapshot for one mapping: display-currency exact
// first, then each fallback currency in fixed order with conversion into the
// display currency.
func (r *Reconciler) lookupCandidate(
	mapping domain.ProviderMapping,
	sizeUK float64,
	index *Index,
	displayCurrency string,
) (candidate, bool, error) {
	catalogKey := mapping.CatalogKey()

	if snap, ok := index.Lookup(catalogKey, sizeUK, displayCurrency); ok {
		return candidate{
			provider:   mapping.Provider,
			ask:        snap.LowestAsk,
			bid:        snap.HighestBid,
			capturedAt: snap.CapturedAt,
		}, true, nil
	}

	for _, ccy := range fallbackCurrencyOrder {
		if ccy == displayCurrency {
			continue
		}
		snap, ok := index.Lookup(catalogKey, sizeUK, ccy)
		if !ok {
			continue
		}

		cand := candidate{provider: mapping.Provider, capturedAt: snap.CapturedAt}

		ask, fxFallback, err := r.convertSide(snap.LowestAsk, ccy, displayCurrency, snap.CapturedAt)
		if err != nil {
			return candidate{}, false, err
		}
		cand.ask = ask
		cand.fxFallback = cand.fxFallback || fxFallback

		bid, fxFallback, err := r.convertSide(snap.HighestBid, ccy, displayCurrency, snap.CapturedAt)
		if err != nil {
			return candidate{}, false, err
		}
		cand.bid = bid
		cand.fxFallback = cand.fxFallback || fxFallback

		return cand, true, nil
	}

	return candidate{}, false, nil
}

// convertSide converts one optional amount into the display currency
func (r *Reconciler) convertSide(amount *decimal.Decimal, from, to string, asOf time.Time) (*decimal.Decimal, bool, error) {
	if amount == nil {
		return nil, false, nil
	}
	converted, _, isFallback, err := r.converter.Convert(*amount, from, to, asOf)
	if err != nil {
		return nil, false, err
	}
	return &converted, isFallback, nil
}

// selectAsk picks the candidate with the lowest non-null ask.
// Ties are broken by the most recent snapshot timestamp.
func selectAsk(candidates []candidate) *candidate {
	var winner *candidate
	for i := range candidates {
		cand := &candidates[i]
		if cand.ask == nil {
			continue
		}
		if winner == nil ||
			cand.ask.LessThan(*winner.ask) ||
			(cand.ask.Equal(*winner.ask) && cand.capturedAt.After(winner.capturedAt)) {
			winner = cand
		}
	}
	return winner
}

// selectBid picks the candidate with the highest non-null bid, independently
// of the ask winner
func selectBid(candidates []candidate) *candidate {
	var winner *candidate
	for i := range candidates {
		cand := &candidates[i]
		if cand.bid == nil {
			continue
		}
		if winner == nil ||
			cand.bid.GreaterThan(*winner.bid) ||
			(cand.bid.Equal(*winner.bid) && cand.capturedAt.After(winner.capturedAt)) {
			winner = cand
		}
	}
	return winner
}
