package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for inventory item persistence operations
type ItemRepository interface {
	// GetByID retrieves an item by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// Create creates a new inventory item
	Create(ctx context.Context, item *InventoryItem) error

	// List retrieves items, optionally filtered by status
	// If statusFilter is empty, returns all items
	List(ctx context.Context, statusFilter ItemStatus) ([]*InventoryItem, error)
}

// MappingRepository defines the interface for provider mapping persistence operations
type MappingRepository interface {
	// ListByItem retrieves all provider mappings for one item
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]ProviderMapping, error)

	// ListAll retrieves every mapping in the store
	ListAll(ctx context.Context) ([]ProviderMapping, error)

	// Create creates a new provider mapping
	Create(ctx context.Context, mapping *ProviderMapping) error
}

// SnapshotRepository defines the interface for price snapshot persistence operations
type SnapshotRepository interface {
	// AddBatch records a batch of freshly fetched snapshots
	AddBatch(ctx context.Context, snapshots []PriceSnapshot) error

	// ListLatest retrieves the most recent snapshot per
	// (provider, catalog key, size, currency) tuple
	ListLatest(ctx context.Context) ([]PriceSnapshot, error)

	// History retrieves the most recent limit snapshots for one tuple.
	// No ordering is guaranteed; callers sort by capture time as needed.
	History(ctx context.Context, catalogKey string, sizeUK float64, currency string, limit int) ([]PriceSnapshot, error)
}

// FxRateRepository defines the interface for FX rate persistence operations
type FxRateRepository interface {
	// Add records a rate for a date; rates are immutable once recorded
	Add(ctx context.Context, rate *FxRate) error

	// ListBetween retrieves all rates dated within [from, to]
	ListBetween(ctx context.Context, from, to time.Time) ([]FxRate, error)
}
