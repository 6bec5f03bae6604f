package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// itemRepository implements domain.ItemRepository
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new inventory item repository
func NewItemRepository(db *DB) domain.ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new inventory item
func (r *itemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, sku, brand, model, colorway, size_uk, purchase_currency, purchase_price, tax, shipping, status, manual_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var manualValue *string
	if item.ManualValue != nil {
		s := item.ManualValue.String()
		manualValue = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.SKU,
		item.Brand,
		item.Model,
		item.Colorway,
		item.SizeUK,
		item.PurchaseCurrency,
		item.PurchasePrice.String(),
		item.Tax.String(),
		item.Shipping.String(),
		string(item.Status),
		manualValue,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}

	return nil
}

// GetByID retrieves an inventory item by its ID
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `
		SELECT id, sku, brand, model, colorway, size_uk, purchase_currency, purchase_price, tax, shipping, status, manual_value
		FROM inventory_items
		WHERE id = $1
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("inventory item %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return item, nil
}

// List retrieves inventory items, optionally filtered by status
func (r *itemRepository) List(ctx context.Context, statusFilter domain.ItemStatus) ([]*domain.InventoryItem, error) {
	query := `
		SELECT id, sku, brand, model, colorway, size_uk, purchase_currency, purchase_price, tax, shipping, status, manual_value
		FROM inventory_items
	`
	args := []interface{}{}
	if statusFilter != "" {
		query += ` WHERE status = $1`
		args = append(args, string(statusFilter))
	}
	query += ` ORDER BY brand, model, size_uk`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []*domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}

	return items, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan logic
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var priceStr, taxStr, shippingStr string
	var manualValueStr sql.NullString

	err := row.Scan(
		&item.ID,
		&item.SKU,
		&item.Brand,
		&item.Model,
		&item.Colorway,
		&item.SizeUK,
		&item.PurchaseCurrency,
		&priceStr,
		&taxStr,
		&shippingStr,
		&item.Status,
		&manualValueStr,
	)
	if err != nil {
		return nil, err
	}

	// Parse cost components (DECIMAL)
	if item.PurchasePrice, err = decimal.NewFromString(priceStr); err != nil {
		return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
	}
	if item.Tax, err = decimal.NewFromString(taxStr); err != nil {
		return nil, fmt.Errorf("failed to parse tax: %w", err)
	}
	if item.Shipping, err = decimal.NewFromString(shippingStr); err != nil {
		return nil, fmt.Errorf("failed to parse shipping: %w", err)
	}

	if manualValueStr.Valid {
		manualValue, err := decimal.NewFromString(manualValueStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse manual_value: %w", err)
		}
		item.ManualValue = &manualValue
	}

	return &item, nil
}
