package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

type locationMappingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLocationMappingRepository creates a new location mapping repository
func NewLocationMappingRepository(db *sql.DB, logger *zap.Logger) *locationMappingRepository {
	return &locationMappingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *locationMappingRepository) ListByShop(ctx context.Context, shop string) ([]*domain.LocationMapping, error) {
	query := `
		SELECT id, shop, location_code, location_gid, created_at
		FROM location_mappings
		WHERE shop = $1
		ORDER BY location_code ASC
	`

	rows, err := r.db.QueryContext(ctx, query, shop)
	if err != nil {
		r.logger.Error("Failed to list location mappings", zap.String("shop", shop), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var mappings []*domain.LocationMapping
	for rows.Next() {
		var mapping domain.LocationMapping
		err := rows.Scan(
			&mapping.ID,
			&mapping.Shop,
			&mapping.LocationCode,
			&mapping.LocationGID,
			&mapping.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		mappings = append(mappings, &mapping)
	}

	return mappings, rows.Err()
}

func (r *locationMappingRepository) Create(ctx context.Context, mapping *domain.LocationMapping) error {
	query := `
		INSERT INTO location_mappings (id, shop, location_code, location_gid, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shop, location_code) DO UPDATE SET
			location_gid = EXCLUDED.location_gid
	`

	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.Shop,
		mapping.LocationCode,
		mapping.LocationGID,
		mapping.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create location mapping", zap.String("location_code", mapping.LocationCode), zap.Error(err))
		return err
	}

	return nil
}

func (r *locationMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM location_mappings
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete location mapping", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "location_mapping", ID: id.String()}
	}

	return nil
}
