package domain

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle status of an inventory item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "ACTIVE"
	ItemStatusListed   ItemStatus = "LISTED"
	ItemStatusSold     ItemStatus = "SOLD"
	ItemStatusArchived ItemStatus = "ARCHIVED"
)

// currencyCodeRegexp matches a well-formed ISO 4217 alphabetic code
var currencyCodeRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrencyCode reports whether code is a well-formed 3-letter currency code
func ValidCurrencyCode(code string) bool {
	return currencyCodeRegexp.MatchString(code)
}

// InventoryItem represents one owned resale item (sneaker, collectible)
// The valuation engine reads items; it never mutates them. Status changes
// (e.g., marked sold) happen through the inventory store, not here.
type InventoryItem struct {
	ID       uuid.UUID
	SKU      string
	Brand    string
	Model    string
	Colorway string

	// SizeUK is the canonical size. All provider sizes are normalized to UK
	// before they ever reach the engine.
	SizeUK float64

	// Cost components, all in PurchaseCurrency (a record of what the owner
	// paid; never converted)
	PurchaseCurrency string
	PurchasePrice    decimal.Decimal
	Tax              decimal.Decimal
	Shipping         decimal.Decimal

	Status ItemStatus

	// ManualValue is the user's explicit belief of worth, used when no live
	// market price exists. NULL unless the user set one.
	ManualValue *decimal.Decimal
}

// Validate ensures the item adheres to domain rules
// Structurally invalid cost data is a hard error (it indicates an upstream
// data-integrity bug), unlike missing market data which the engine tolerates.
func (i *InventoryItem) Validate() error {
	if i.SKU == "" {
		return errors.New("item SKU cannot be empty")
	}

	if !ValidCurrencyCode(i.PurchaseCurrency) {
		return errors.New("item purchase currency must be a 3-letter currency code")
	}

	if i.PurchasePrice.IsNegative() || i.Tax.IsNegative() || i.Shipping.IsNegative() {
		return errors.New("item cost components cannot be negative")
	}

	switch i.Status {
	case ItemStatusActive, ItemStatusListed, ItemStatusSold, ItemStatusArchived:
	default:
		return errors.New("item status must be ACTIVE, LISTED, SOLD, or ARCHIVED")
	}

	return nil
}

// InvestedCost returns purchase price + tax + shipping in the purchase currency
func (i *InventoryItem) InvestedCost() decimal.Decimal {
	return i.PurchasePrice.Add(i.Tax).Add(i.Shipping)
}
