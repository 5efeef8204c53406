package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
)

// ShopRepository defines shop/token data access methods
type ShopRepository interface {
	GetByDomain(ctx context.Context, shop string) (*domain.Shop, error)
	Upsert(ctx context.Context, s *domain.Shop) error
}

// AppSettingsRepository defines per-shop settings data access methods
type AppSettingsRepository interface {
	// GetByShop returns nil (no error) when no row exists; callers apply defaults.
	GetByShop(ctx context.Context, shop string) (*domain.AppSettings, error)
	Upsert(ctx context.Context, settings *domain.AppSettings) error
}

// LocationMappingRepository defines location mapping data access methods
type LocationMappingRepository interface {
	ListByShop(ctx context.Context, shop string) ([]*domain.LocationMapping, error)
	Create(ctx context.Context, mapping *domain.LocationMapping) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SplitLogRepository defines audit log data access. Append-only: no update
// or delete methods by design.
type SplitLogRepository interface {
	Create(ctx context.Context, log *domain.SplitLog) error
	ListByShop(ctx context.Context, shop string, limit, offset int) ([]*domain.SplitLog, error)
}

// WebhookEventRepository defines inbound event queue data access methods
type WebhookEventRepository interface {
	Create(ctx context.Context, event *domain.WebhookEvent) error
	ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Shop            ShopRepository
	AppSettings     AppSettingsRepository
	LocationMapping LocationMappingRepository
	SplitLog        SplitLogRepository
	WebhookEvent    WebhookEventRepository
}
