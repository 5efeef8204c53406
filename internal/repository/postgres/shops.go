package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

type shopRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *sql.DB, logger *zap.Logger) *shopRepository {
	return &shopRepository{
		db:     db,
		logger: logger,
	}
}

func (r *shopRepository) GetByDomain(ctx context.Context, shop string) (*domain.Shop, error) {
	query := `
		SELECT shop, access_token, installed_at
		FROM shops
		WHERE shop = $1
	`

	var s domain.Shop

	err := r.db.QueryRowContext(ctx, query, shop).Scan(
		&s.Domain,
		&s.AccessToken,
		&s.InstalledAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "shop", ID: shop}
	}
	if err != nil {
		r.logger.Error("Failed to get shop", zap.String("shop", shop), zap.Error(err))
		return nil, err
	}

	return &s, nil
}

func (r *shopRepository) Upsert(ctx context.Context, s *domain.Shop) error {
	query := `
		INSERT INTO shops (shop, access_token, installed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (shop) DO UPDATE SET
			access_token = EXCLUDED.access_token
	`

	if s.InstalledAt.IsZero() {
		s.InstalledAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, s.Domain, s.AccessToken, s.InstalledAt)
	if err != nil {
		r.logger.Error("Failed to upsert shop", zap.String("shop", s.Domain), zap.Error(err))
		return err
	}

	return nil
}
