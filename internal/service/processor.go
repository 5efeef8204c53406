package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
)

var processorMu sync.Mutex

// RunWebhookProcessorLoop drains the webhook event queue once at startup,
// then on every poll tick until the context is cancelled. The mutex keeps
// overlapping drains from double-processing a slow batch.
func RunWebhookProcessorLoop(ctx context.Context, cfg *config.Config, svc *SplitService, logger *zap.Logger) {
	interval := time.Duration(cfg.Processor.PollIntervalSeconds) * time.Second

	processorMu.Lock()
	svc.ProcessPendingEvents(ctx, cfg.Processor.BatchSize)
	processorMu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processorMu.Lock()
			svc.ProcessPendingEvents(ctx, cfg.Processor.BatchSize)
			processorMu.Unlock()
		}
	}
}

// ProcessPendingEvents handles one batch of queued webhook deliveries.
// Terminal outcomes (including business short-circuits and unsupported
// topics) stamp processed_at; errors record last_error and leave the event
// queued so the next poll retries it. One bad event never blocks the batch.
func (s *SplitService) ProcessPendingEvents(ctx context.Context, batchSize int) {
	events, err := s.repos.WebhookEvent.ListUnprocessed(ctx, batchSize)
	if err != nil {
		s.logger.Error("failed to fetch webhook events", zap.Error(err))
		return
	}

	for _, event := range events {
		s.processEvent(ctx, event)
	}
}

func (s *SplitService) processEvent(ctx context.Context, event *domain.WebhookEvent) {
	if event.Topic != "orders/create" {
		s.logger.Warn("skipping unsupported webhook topic",
			zap.String("shop", event.Shop),
			zap.String("topic", event.Topic))
		s.markProcessed(ctx, event)
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(event.Body), &payload); err != nil {
		// a body that never parsed will never parse; don't requeue it
		s.logger.Error("failed to parse webhook body",
			zap.String("shop", event.Shop),
			zap.String("eventId", event.ID.String()),
			zap.Error(err))
		s.markProcessed(ctx, event)
		return
	}

	outcome, err := s.ProcessOrderCreate(ctx, event.Shop, payload)
	if err != nil {
		s.logger.Error("failed to process webhook event",
			zap.String("shop", event.Shop),
			zap.String("eventId", event.ID.String()),
			zap.Error(err))
		if markErr := s.repos.WebhookEvent.MarkFailed(ctx, event.ID, Clamp(err.Error(), 1000)); markErr != nil {
			s.logger.Error("failed to record webhook event failure",
				zap.String("eventId", event.ID.String()),
				zap.Error(markErr))
		}
		return
	}

	s.logger.Info("processed webhook event",
		zap.String("shop", event.Shop),
		zap.String("eventId", event.ID.String()),
		zap.Bool("success", outcome.Success),
		zap.Bool("retained", outcome.Retained),
		zap.String("reason", outcome.Reason),
		zap.Int("splitOrders", len(outcome.SplitOrderIDs)))
	s.markProcessed(ctx, event)
}

func (s *SplitService) markProcessed(ctx context.Context, event *domain.WebhookEvent) {
	if err := s.repos.WebhookEvent.MarkProcessed(ctx, event.ID); err != nil {
		s.logger.Error("failed to mark webhook event processed",
			zap.String("eventId", event.ID.String()),
			zap.Error(err))
	}
}
