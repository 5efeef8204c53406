package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
)

type appSettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAppSettingsRepository creates a new app settings repository
func NewAppSettingsRepository(db *sql.DB, logger *zap.Logger) *appSettingsRepository {
	return &appSettingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *appSettingsRepository) GetByShop(ctx context.Context, shop string) (*domain.AppSettings, error) {
	query := `
		SELECT shop, splitting_enabled, updated_at
		FROM app_settings
		WHERE shop = $1
	`

	var settings domain.AppSettings

	err := r.db.QueryRowContext(ctx, query, shop).Scan(
		&settings.Shop,
		&settings.SplittingEnabled,
		&settings.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		// No row: caller applies defaults (splitting enabled)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get app settings", zap.String("shop", shop), zap.Error(err))
		return nil, err
	}

	return &settings, nil
}

func (r *appSettingsRepository) Upsert(ctx context.Context, settings *domain.AppSettings) error {
	query := `
		INSERT INTO app_settings (shop, splitting_enabled, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (shop) DO UPDATE SET
			splitting_enabled = EXCLUDED.splitting_enabled,
			updated_at = EXCLUDED.updated_at
	`

	settings.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		settings.Shop,
		settings.SplittingEnabled,
		settings.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert app settings", zap.String("shop", settings.Shop), zap.Error(err))
		return err
	}

	return nil
}
