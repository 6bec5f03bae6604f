package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new price snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// AddBatch stores a batch of price snapshots in a single database transaction
func (r *snapshotRepository) AddBatch(ctx context.Context, snapshots []domain.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO price_snapshots (provider, catalog_key, size_uk, currency, lowest_ask, highest_bid, last_sale, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, snap := range snapshots {
		_, err = dbTx.ExecContext(ctx, query,
			string(snap.Provider),
			snap.CatalogKey,
			snap.SizeUK,
			snap.Currency,
			decimalString(snap.LowestAsk),
			decimalString(snap.HighestBid),
			decimalString(snap.LastSale),
			snap.CapturedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert price snapshot: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot batch: %w", err)
	}

	return nil
}

// ListLatest retrieves the most recent snapshot per (provider, catalog_key, size, currency) tuple
func (r *snapshotRepository) ListLatest(ctx context.Context) ([]domain.PriceSnapshot, error) {
	query := `
		SELECT DISTINCT ON (provider, catalog_key, size_uk, currency)
			provider, catalog_key, size_uk, currency, lowest_ask, highest_bid, last_sale, captured_at
		FROM price_snapshots
		ORDER BY provider, catalog_key, size_uk, currency, captured_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest snapshots: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// History retrieves the most recent snapshots for one catalog key, size and
// currency, newest first, up to limit rows
func (r *snapshotRepository) History(ctx context.Context, catalogKey string, sizeUK float64, currency string, limit int) ([]domain.PriceSnapshot, error) {
	query := `
		SELECT provider, catalog_key, size_uk, currency, lowest_ask, highest_bid, last_sale, captured_at
		FROM price_snapshots
		WHERE catalog_key = $1 AND size_uk = $2 AND currency = $3
		ORDER BY captured_at DESC
		LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, catalogKey, sizeUK, currency, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

func collectSnapshots(rows *sql.Rows) ([]domain.PriceSnapshot, error) {
	var snapshots []domain.PriceSnapshot
	for rows.Next() {
		var snap domain.PriceSnapshot
		var askStr, bidStr, saleStr sql.NullString

		err := rows.Scan(
			&snap.Provider,
			&snap.CatalogKey,
			&snap.SizeUK,
			&snap.Currency,
			&askStr,
			&bidStr,
			&saleStr,
			&snap.CapturedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price snapshot: %w", err)
		}

		if snap.LowestAsk, err = nullableDecimal(askStr); err != nil {
			return nil, fmt.Errorf("failed to parse lowest_ask: %w", err)
		}
		if snap.HighestBid, err = nullableDecimal(bidStr); err != nil {
			return nil, fmt.Errorf("failed to parse highest_bid: %w", err)
		}
		if snap.LastSale, err = nullableDecimal(saleStr); err != nil {
			return nil, fmt.Errorf("failed to parse last_sale: %w", err)
		}

		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price snapshots: %w", err)
	}

	return snapshots, nil
}

// decimalString renders a nullable decimal for insertion
func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// nullableDecimal parses a nullable DECIMAL column
func nullableDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
