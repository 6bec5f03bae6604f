package refresher

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// Fetcher is one marketplace's snapshot source. Implementations return
// observations already normalized at the boundary: major currency units,
// canonical UK sizes. Everything past this interface is provider-agnostic.
type Fetcher interface {
	// Provider identifies which marketplace this fetcher serves
	Provider() domain.Provider

	// FetchSnapshots fetches fresh price observations for a set of
	// provider catalog keys
	FetchSnapshots(ctx context.Context, catalogKeys []string) ([]domain.PriceSnapshot, error)
}

// DefaultProviderTimeout bounds one provider's fetch; a slow marketplace must
// not hold up the others
const DefaultProviderTimeout = 30 * time.Second

// Service refreshes price snapshots from every configured marketplace.
// Providers are fetched in parallel and independently: one provider failing
// or timing out never discards another provider's results.
type Service struct {
	MappingRepo  domain.MappingRepository
	SnapshotRepo domain.SnapshotRepository
	Fetchers     []Fetcher

	ProviderTimeout time.Duration
	log             *logrus.Logger
}

// NewService creates a new refresher Service instance
func NewService(
	mappingRepo domain.MappingRepository,
	snapshotRepo domain.SnapshotRepository,
	fetchers []Fetcher,
	log *logrus.Logger,
) *Service {
	return &Service{
		MappingRepo:     mappingRepo,
		SnapshotRepo:    snapshotRepo,
		Fetchers:        fetchers,
		ProviderTimeout: DefaultProviderTimeout,
		log:             log,
	}
}

// Result summarizes one refresh run
type Result struct {
	Stored int                        `json:"stored"`
	Errors map[domain.Provider]string `json:"errors,omitempty"`
}

// providerOutcome is the per-goroutine result funneled back to the collector
type providerOutcome struct {
	provider  domain.Provider
	snapshots []domain.PriceSnapshot
	err       error
}

// RefreshAll fetches fresh snapshots for every catalog key with a healthy
// mapping and persists them. Only provider-level outcomes are reported;
// a run where some providers fail still stores what the others returned.
func (s *Service) RefreshAll(ctx context.Context) (*Result, error) {
	mappings, err := s.MappingRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	keysByProvider := collectCatalogKeys(mappings)

	outcomes := make(chan providerOutcome, len(s.Fetchers))
	var wg sync.WaitGroup
	for _, f := range s.Fetchers {
		keys := keysByProvider[f.Provider()]
		if len(keys) == 0 {
			continue
		}
		wg.Add(1)
		go func(f Fetcher, keys []string) {
			defer wg.Done()
			outcomes <- s.fetchOne(ctx, f, keys)
		}(f, keys)
	}
	wg.Wait()
	close(outcomes)

	result := &Result{Errors: make(map[domain.Provider]string)}
	for outcome := range outcomes {
		if outcome.err != nil {
			s.log.WithFields(logrus.Fields{
				"provider": outcome.provider,
				"error":    outcome.err,
			}).Warn("provider refresh failed")
			result.Errors[outcome.provider] = outcome.err.Error()
			continue
		}
		if len(outcome.snapshots) == 0 {
			continue
		}
		if err := s.SnapshotRepo.AddBatch(ctx, outcome.snapshots); err != nil {
			s.log.WithFields(logrus.Fields{
				"provider": outcome.provider,
				"error":    err,
			}).Error("failed to store snapshots")
			result.Errors[outcome.provider] = err.Error()
			continue
		}
		result.Stored += len(outcome.snapshots)
	}

	s.log.WithFields(logrus.Fields{
		"stored": result.Stored,
		"failed": len(result.Errors),
	}).Info("snapshot refresh complete")

	return result, nil
}

// fetchOne runs a single provider fetch under its own timeout
func (s *Service) fetchOne(ctx context.Context, f Fetcher, keys []string) providerOutcome {
	timeout := s.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snapshots, err := f.FetchSnapshots(fetchCtx, keys)
	return providerOutcome{provider: f.Provider(), snapshots: snapshots, err: err}
}

// collectCatalogKeys groups the distinct catalog keys of healthy mappings by
// provider. Broken and pending mappings are excluded: refreshing a product we
// cannot trust the identity of just poisons the snapshot store.
func collectCatalogKeys(mappings []domain.ProviderMapping) map[domain.Provider][]string {
	seen := make(map[domain.Provider]map[string]bool)
	for _, m := range mappings {
		if m.Health != domain.MappingHealthOK {
			continue
		}
		if seen[m.Provider] == nil {
			seen[m.Provider] = make(map[string]bool)
		}
		seen[m.Provider][m.CatalogKey()] = true
	}

	keys := make(map[domain.Provider][]string, len(seen))
	for p, set := range seen {
		list := make([]string, 0, len(set))
		for k := range set {
			list = append(list, k)
		}
		sort.Strings(list)
		keys[p] = list
	}
	return keys
}
