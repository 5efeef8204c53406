package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shop stores the Admin API access token for an installed shop.
// Written by the OAuth install flow (external); read-only here.
type Shop struct {
	Domain      string
	AccessToken string
	InstalledAt time.Time
}

// AppSettings holds per-shop processing flags. Absent row means defaults.
type AppSettings struct {
	Shop             string
	SplittingEnabled bool
	UpdatedAt        time.Time
}

// LocationMapping maps a merchant-defined location code (variant metafield
// custom.location_code) to a Shopify Location GID, scoped per shop.
type LocationMapping struct {
	ID           uuid.UUID
	Shop         string
	LocationCode string
	LocationGID  string
	CreatedAt    time.Time
}

// SplitLog is an append-only audit row recording one terminal processing
// outcome. SplitOrderIDs is a comma-joined list of created order GIDs.
type SplitLog struct {
	ID              uuid.UUID
	Shop            string
	OriginalOrderID *string
	SplitOrderIDs   *string
	Retained        bool
	Message         string
	CreatedAt       time.Time
}

// WebhookEvent is a persisted inbound webhook delivery awaiting processing.
// ProcessedAt is stamped on terminal outcomes; failed events keep
// ProcessedAt null and carry LastError so the next poll retries them.
type WebhookEvent struct {
	ID          uuid.UUID
	Shop        string
	Topic       string
	OrderID     string
	Body        string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	LastError   *string
}
