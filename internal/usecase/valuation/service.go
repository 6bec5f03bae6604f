package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/usecase/currency"
	"github.com/soletrack/soletrack-backend/internal/usecase/pricing"
	"github.com/soletrack/soletrack-backend/internal/usecase/trend"
)

// DefaultTrendWindow is the number of sparkline samples produced per item
const DefaultTrendWindow = 30

// fxLookbackDays bounds how far back FX rates are loaded for a batch.
// Snapshots older than this would be too stale to price anyway.
const fxLookbackDays = 90

// Service produces enriched valuations for inventory items.
// The engine itself is pure; this service is the seam that loads inputs from
// the stores, builds the per-batch lookup structures, and threads them
// through the reconciliation pipeline.
type Service struct {
	ItemRepo     domain.ItemRepository
	MappingRepo  domain.MappingRepository
	SnapshotRepo domain.SnapshotRepository
	FxRateRepo   domain.FxRateRepository

	Fees        domain.FeeSchedule
	TrendWindow int
}

// NewService creates a new valuation Service instance
func NewService(
	itemRepo domain.ItemRepository,
	mappingRepo domain.MappingRepository,
	snapshotRepo domain.SnapshotRepository,
	fxRateRepo domain.FxRateRepository,
	fees domain.FeeSchedule,
) *Service {
	return &Service{
		ItemRepo:     itemRepo,
		MappingRepo:  mappingRepo,
		SnapshotRepo: snapshotRepo,
		FxRateRepo:   fxRateRepo,
		Fees:         fees,
		TrendWindow:  DefaultTrendWindow,
	}
}

// batchContext holds the immutable lookup structures built once per
// reconciliation batch and threaded through arguments
type batchContext struct {
	index      *pricing.Index
	reconciler *pricing.Reconciler
}

// newBatchContext loads the freshest snapshots and recent FX rates and
// builds the batch lookup structures
func (s *Service) newBatchContext(ctx context.Context) (*batchContext, error) {
	snapshots, err := s.SnapshotRepo.ListLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshots: %w", err)
	}

	now := time.Now()
	rates, err := s.FxRateRepo.ListBetween(ctx, now.AddDate(0, 0, -fxLookbackDays), now)
	if err != nil {
		return nil, fmt.Errorf("failed to load FX rates: %w", err)
	}

	return &batchContext{
		index:      pricing.BuildIndex(snapshots),
		reconciler: pricing.NewReconciler(currency.NewConverter(rates)),
	}, nil
}

// ValueItem produces the enriched valuation for a single item in the
// requested display currency
func (s *Service) ValueItem(ctx context.Context, itemID uuid.UUID, displayCurrency string) (*domain.EnrichedValuation, error) {
	item, err := s.ItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	mappings, err := s.MappingRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings for item %s: %w", itemID, err)
	}

	batch, err := s.newBatchContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.valueOne(ctx, item, mappings, batch, displayCurrency)
}

// ValuePortfolio produces enriched valuations for every item, reusing one
// batch context so the whole portfolio prices against a consistent snapshot
// set and rate table
func (s *Service) ValuePortfolio(ctx context.Context, displayCurrency string) ([]*domain.EnrichedValuation, error) {
	items, err := s.ItemRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	allMappings, err := s.MappingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	mappingsByItem := make(map[uuid.UUID][]domain.ProviderMapping)
	for _, m := range allMappings {
		mappingsByItem[m.ItemID] = append(mappingsByItem[m.ItemID], m)
	}

	batch, err := s.newBatchContext(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.EnrichedValuation, 0, len(items))
	for _, item := range items {
		enriched, err := s.valueOne(ctx, item, mappingsByItem[item.ID], batch, displayCurrency)
		if err != nil {
			return nil, err
		}
		results = append(results, enriched)
	}

	return results, nil
}

// valueOne runs the full pipeline for one item: reconcile, calculate, trend
func (s *Service) valueOne(
	ctx context.Context,
	item *domain.InventoryItem,
	mappings []domain.ProviderMapping,
	batch *batchContext,
	displayCurrency string,
) (*domain.EnrichedValuation, error) {
	reconciled, err := batch.reconciler.Reconcile(item, mappings, batch.index, displayCurrency)
	if err != nil {
		return nil, err
	}

	enriched, err := Calculate(item, reconciled, s.Fees)
	if err != nil {
		return nil, err
	}

	series, synthetic, err := s.buildTrend(ctx, item, mappings, reconciled, displayCurrency)
	if err != nil {
		return nil, err
	}
	enriched.Trend = series
	enriched.TrendSynthetic = synthetic

	return enriched, nil
}

// buildTrend loads history for the ask-winning provider and builds the
// display series. The synthetic path only engages when a real market price
// exists (live ask or manual override); the invested-cost fallback is not a
// market observation and must not fabricate a trend line.
func (s *Service) buildTrend(
	ctx context.Context,
	item *domain.InventoryItem,
	mappings []domain.ProviderMapping,
	reconciled domain.ReconciledPrice,
	displayCurrency string,
) ([]float64, bool, error) {
	window := s.TrendWindow
	if window <= 0 {
		window = DefaultTrendWindow
	}

	var history []domain.PriceSnapshot
	if reconciled.Ask != nil {
		for _, m := range mappings {
			if m.Provider != reconciled.AskProvider {
				continue
			}
			var err error
			history, err = s.SnapshotRepo.History(ctx, m.CatalogKey(), item.SizeUK, displayCurrency, window)
			if err != nil {
				return nil, false, fmt.Errorf("failed to load price history: %w", err)
			}
			break
		}
	}

	var current *decimal.Decimal
	switch {
	case reconciled.Ask != nil:
		current = reconciled.Ask
	case item.ManualValue != nil:
		current = item.ManualValue
	}

	series, synthetic := trend.Build(history, window, current)
	return series, synthetic, nil
}
