package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// mappingRepository implements domain.MappingRepository
type mappingRepository struct {
	db *DB
}

// NewMappingRepository creates a new provider mapping repository
func NewMappingRepository(db *DB) domain.MappingRepository {
	return &mappingRepository{db: db}
}

// Create creates a new provider mapping
func (r *mappingRepository) Create(ctx context.Context, mapping *domain.ProviderMapping) error {
	query := `
		INSERT INTO provider_mappings (id, item_id, provider, product_id, variant_id, confidence, health)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.ItemID,
		string(mapping.Provider),
		mapping.ProductID,
		mapping.VariantID,
		mapping.Confidence,
		string(mapping.Health),
	)
	if err != nil {
		return fmt.Errorf("failed to insert provider mapping: %w", err)
	}

	return nil
}

// ListByItem retrieves all provider mappings for a given item
func (r *mappingRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.ProviderMapping, error) {
	query := `
		SELECT id, item_id, provider, product_id, variant_id, confidence, health
		FROM provider_mappings
		WHERE item_id = $1
		ORDER BY provider
	`

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings for item %s: %w", itemID, err)
	}
	defer rows.Close()

	return collectMappings(rows)
}

// ListAll retrieves every provider mapping
func (r *mappingRepository) ListAll(ctx context.Context) ([]domain.ProviderMapping, error) {
	query := `
		SELECT id, item_id, provider, product_id, variant_id, confidence, health
		FROM provider_mappings
		ORDER BY item_id, provider
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider mappings: %w", err)
	}
	defer rows.Close()

	return collectMappings(rows)
}

func collectMappings(rows *sql.Rows) ([]domain.ProviderMapping, error) {
	var mappings []domain.ProviderMapping
	for rows.Next() {
		var m domain.ProviderMapping
		err := rows.Scan(
			&m.ID,
			&m.ItemID,
			&m.Provider,
			&m.ProductID,
			&m.VariantID,
			&m.Confidence,
			&m.Health,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider mappings: %w", err)
	}

	return mappings, nil
}
