package domain

import (
	"errors"

	"github.com/google/uuid"
)

// MappingHealth represents the health of an item-to-provider catalog link
type MappingHealth string

const (
	MappingHealthOK      MappingHealth = "OK"
	MappingHealthError   MappingHealth = "ERROR"
	MappingHealthPending MappingHealth = "PENDING"
)

// ProviderMapping links one InventoryItem to one provider's catalog identity.
// At most one mapping exists per (item, provider) pair. Mappings are created
// by the matching collaborator and consumed read-only by the engine.
type ProviderMapping struct {
	ID       uuid.UUID
	ItemID   uuid.UUID
	Provider Provider

	// Provider catalog identity. ProductID is the provider's product-level
	// id; VariantID the size-level id where the provider has one.
	ProductID string
	VariantID string

	// Confidence is the match-confidence score from the matcher (0..1)
	Confidence float64

	Health MappingHealth
}

// Validate ensures the mapping adheres to domain rules
func (m *ProviderMapping) Validate() error {
	if m.ItemID == uuid.Nil {
		return errors.New("mapping must reference an item")
	}

	if m.ProductID == "" && m.VariantID == "" {
		return errors.New("mapping must carry a product or variant id")
	}

	switch m.Provider {
	case ProviderStockX, ProviderGoat, ProviderEbay:
	default:
		return errors.New("mapping provider is not a known marketplace")
	}

	switch m.Health {
	case MappingHealthOK, MappingHealthError, MappingHealthPending:
	default:
		return errors.New("mapping health must be OK, ERROR, or PENDING")
	}

	return nil
}

// CatalogKey returns the key the snapshot index is built on.
// The size-level variant id is preferred because snapshots are captured per
// variant; product id is the fallback for providers without variant ids.
func (m *ProviderMapping) CatalogKey() string {
	if m.VariantID != "" {
		return m.VariantID
	}
	return m.ProductID
}
