package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
)

type splitLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSplitLogRepository creates a new split log repository
func NewSplitLogRepository(db *sql.DB, logger *zap.Logger) *splitLogRepository {
	return &splitLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *splitLogRepository) Create(ctx context.Context, log *domain.SplitLog) error {
	query := `
		INSERT INTO split_logs (id, shop, original_order_id, split_order_ids, retained, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.Shop,
		log.OriginalOrderID,
		log.SplitOrderIDs,
		log.Retained,
		log.Message,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create split log", zap.String("shop", log.Shop), zap.Error(err))
		return err
	}

	return nil
}

func (r *splitLogRepository) ListByShop(ctx context.Context, shop string, limit, offset int) ([]*domain.SplitLog, error) {
	query := `
		SELECT id, shop, original_order_id, split_order_ids, retained, message, created_at
		FROM split_logs
		WHERE shop = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, shop, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list split logs", zap.String("shop", shop), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.SplitLog
	for rows.Next() {
		var log domain.SplitLog
		err := rows.Scan(
			&log.ID,
			&log.Shop,
			&log.OriginalOrderID,
			&log.SplitOrderIDs,
			&log.Retained,
			&log.Message,
			&log.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
