package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
)

type webhookEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *sql.DB, logger *zap.Logger) *webhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, shop, topic, order_id, body, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Shop,
		event.Topic,
		event.OrderID,
		event.Body,
		event.ReceivedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create webhook event", zap.String("shop", event.Shop), zap.Error(err))
		return err
	}

	return nil
}

func (r *webhookEventRepository) ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	query := `
		SELECT id, shop, topic, order_id, body, received_at, processed_at, last_error
		FROM webhook_events
		WHERE processed_at IS NULL
		ORDER BY received_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list unprocessed webhook events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.WebhookEvent
	for rows.Next() {
		var event domain.WebhookEvent
		err := rows.Scan(
			&event.ID,
			&event.Shop,
			&event.Topic,
			&event.OrderID,
			&event.Body,
			&event.ReceivedAt,
			&event.ProcessedAt,
			&event.LastError,
		)

		if err != nil {
			return nil, err
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE webhook_events
		SET processed_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error("Failed to mark webhook event processed", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	return nil
}

func (r *webhookEventRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE webhook_events
		SET last_error = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, lastError)
	if err != nil {
		r.logger.Error("Failed to mark webhook event failed", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	return nil
}
