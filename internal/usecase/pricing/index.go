package pricing

import (
	"math"

	"github.com/soletrack/soletrack-backend/internal/domain"
)

// snapshotKey is the composite lookup key for one price observation.
// Sizes are keyed in half-size steps so 9.5 and 9.50 collide as intended
// and float equality never decides a lookup.
type snapshotKey struct {
	catalogKey string
	halfSizes  int
	currency   string
}

func makeKey(catalogKey string, sizeUK float64, currency string) snapshotKey {
	return snapshotKey{
		catalogKey: catalogKey,
		halfSizes:  int(math.Round(sizeUK * 2)),
		currency:   currency,
	}
}

// Index provides O(1) lookups of the freshest snapshot per
// (catalog key, size, currency) tuple.
type Index struct {
	latest map[snapshotKey]domain.PriceSnapshot
}

// BuildIndex builds an index over raw snapshots. When multiple snapshots
// share a key, the one with the latest capture timestamp wins — recency, not
// insertion order. Build is pure: it never modifies its input.
func BuildIndex(snapshots []domain.PriceSnapshot) *Index {
	ix := &Index{latest: make(map[snapshotKey]domain.PriceSnapshot, len(snapshots))}

	for _, snap := range snapshots {
		key := makeKey(snap.CatalogKey, snap.SizeUK, snap.Currency)
		if current, ok := ix.latest[key]; ok && !snap.CapturedAt.After(current.CapturedAt) {
			continue
		}
		ix.latest[key] = snap
	}

	return ix
}

// Lookup returns the freshest snapshot for a tuple. Absence is the expected
// common case — most provider/size/currency combinations have no fresh data —
// so a miss is reported through the bool, never an error.
func (ix *Index) Lookup(catalogKey string, sizeUK float64, currency string) (*domain.PriceSnapshot, bool) {
	snap, ok := ix.latest[makeKey(catalogKey, sizeUK, currency)]
	if !ok {
		return nil, false
	}
	return &snap, true
}

// Len returns the number of distinct tuples in the index
func (ix *Index) Len() int {
	return len(ix.latest)
}
