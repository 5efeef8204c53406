package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Shop:            NewShopRepository(db, logger),
		AppSettings:     NewAppSettingsRepository(db, logger),
		LocationMapping: NewLocationMappingRepository(db, logger),
		SplitLog:        NewSplitLogRepository(db, logger),
		WebhookEvent:    NewWebhookEventRepository(db, logger),
	}
}
