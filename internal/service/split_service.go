package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

// Sentinel tags written to orders so redelivered webhooks become no-ops.
const (
	TagSplitProcessed  = "split-processed"
	TagPresaleRetained = "pre-sale-retained"
	TagNoPresaleItems  = "no-presale-items"
	TagOrderNotPaid    = "order-not-paid"
	TagSplitChild      = "split-child"
)

const (
	metafieldNamespace = "custom"
	metafieldSplitID   = "split_id"
	metafieldTextType  = "single_line_text_field"
)

// GraphQLExecutor issues one Admin API operation with retry/backoff.
// Implemented by shopify.Client; mocked in tests.
type GraphQLExecutor interface {
	ExecuteWithRetry(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// SplitService owns the order-created workflow: classify the order, create
// child orders per pre-sale location group, edit the original, and record
// the outcome.
type SplitService struct {
	gql    GraphQLExecutor
	repos  *repository.Repositories
	logger *zap.Logger

	// injectable for tests
	now func() time.Time
}

// NewSplitService creates a new split service
func NewSplitService(gql GraphQLExecutor, repos *repository.Repositories, logger *zap.Logger) *SplitService {
	return &SplitService{
		gql:    gql,
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
}

// ProcessOrderCreate handles one order-created event for a shop. The payload
// is the raw webhook body. Business short-circuits (disabled, duplicate,
// unpaid) return a terminal outcome with a nil error; only pre-mutation
// failures return an error so the delivery layer can retry the whole event.
//
// No lock is held on the order id: concurrent redelivery of the same event
// races on the remote sentinel tag/metafield read, so duplicate suppression
// is only as strong as Shopify's read consistency.
func (s *SplitService) ProcessOrderCreate(ctx context.Context, shop string, payload map[string]interface{}) (*domain.ProcessOutcome, error) {
	settings, err := s.repos.AppSettings.GetByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load app settings: %w", err)
	}
	// no settings row means splitting is on
	if settings != nil && !settings.SplittingEnabled {
		return &domain.ProcessOutcome{Success: false, Reason: domain.ReasonSplittingDisabled}, nil
	}

	shopRow, err := s.repos.Shop.GetByDomain(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop credentials: %w", err)
	}
	token := shopRow.AccessToken

	orderID, err := SanitizeOrderID(orderIDFromPayload(payload))
	if err != nil {
		return nil, err
	}
	orderGID := "gid://shopify/Order/" + orderID

	order, err := s.getOrderDetails(ctx, shop, token, orderGID)
	if err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		return nil, err
	}

	if order.HasTag(TagSplitProcessed) || order.HasTag(TagPresaleRetained) || order.HasMetafield(metafieldNamespace, metafieldSplitID) {
		return &domain.ProcessOutcome{Success: false, Reason: domain.ReasonAlreadyProcessed}, nil
	}

	if order.DisplayFinancialStatus != "PAID" {
		if err := s.addOrderTags(ctx, shop, token, orderGID, []string{TagOrderNotPaid}); err != nil {
			s.noteRemoteFailure(ctx, shop, err)
			s.logger.Warn("failed to tag unpaid order",
				zap.String("shop", shop),
				zap.String("order", order.Name),
				zap.Error(err))
		}
		s.writeSplitLog(ctx, shop, order.Name, nil, true, "Order not paid.")
		return &domain.ProcessOutcome{Success: false, Reason: domain.ReasonNotPaid}, nil
	}

	lineItems := order.LineItems.Nodes
	var presaleItems []shopify.LineItem
	for _, item := range lineItems {
		if item.Presale() {
			presaleItems = append(presaleItems, item)
		}
	}

	if len(presaleItems) == 0 || len(presaleItems) == len(lineItems) {
		return s.retainOrder(ctx, shop, token, orderGID, order, len(presaleItems)), nil
	}

	mappings, err := s.repos.LocationMapping.ListByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load location mappings: %w", err)
	}
	mappingDict := make(map[string]string, len(mappings))
	for _, m := range mappings {
		mappingDict[m.LocationCode] = m.LocationGID
	}

	splitOrderIDs, splitCreationErrors, missingMappings := s.createSplitOrders(
		ctx, shop, token, order, presaleItems, mappingDict, payload)

	if err := s.runOrderEdit(ctx, shop, token, orderGID, presaleItems); err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Error("order edit failed for original order",
			zap.String("shop", shop),
			zap.String("order", order.Name),
			zap.Error(err))
	}

	if err := s.addOrderTags(ctx, shop, token, orderGID, []string{TagSplitProcessed}); err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Warn("failed to tag original order as split-processed",
			zap.String("shop", shop),
			zap.String("order", order.Name),
			zap.Error(err))
	}

	if err := s.upsertSplitID(ctx, shop, token, orderGID); err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Warn("failed to upsert split_id metafield",
			zap.String("shop", shop),
			zap.String("order", order.Name),
			zap.Error(err))
	}

	joined := Clamp(strings.Join(splitOrderIDs, ","), 1000)
	s.writeSplitLog(ctx, shop, order.Name, &joined, false,
		fmt.Sprintf("Order split into %d new orders.", len(splitOrderIDs)))

	return &domain.ProcessOutcome{
		Success:             true,
		SplitOrderIDs:       splitOrderIDs,
		SplitCreationErrors: splitCreationErrors,
		MissingMappings:     missingMappings,
	}, nil
}

// retainOrder handles the zero-presale and all-presale branches: tag with
// the reason, write the split_id sentinel, log, done. Every remote step is
// best-effort.
func (s *SplitService) retainOrder(ctx context.Context, shop, token, orderGID string, order *shopify.Order, presaleCount int) *domain.ProcessOutcome {
	tag := TagNoPresaleItems
	reason := domain.ReasonNoPresaleItems
	message := "No pre-sale items in order."
	if presaleCount > 0 {
		tag = TagPresaleRetained
		reason = domain.ReasonAllPresale
		message = "All items are pre-sale; order retained."
	}

	if err := s.addOrderTags(ctx, shop, token, orderGID, []string{tag}); err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Warn("failed to add tag on retained order",
			zap.String("shop", shop),
			zap.String("order", order.Name),
			zap.String("tag", tag),
			zap.Error(err))
	}

	if err := s.upsertSplitID(ctx, shop, token, orderGID); err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Warn("failed to upsert split_id on retained order",
			zap.String("shop", shop),
			zap.String("order", order.Name),
			zap.Error(err))
	}

	s.writeSplitLog(ctx, shop, order.Name, nil, true, message)

	return &domain.ProcessOutcome{Success: true, Retained: true, Reason: reason}
}

// upsertSplitID stamps the custom.split_id sentinel metafield with a
// timestamp-derived value.
func (s *SplitService) upsertSplitID(ctx context.Context, shop, token, orderGID string) error {
	splitID := fmt.Sprintf("split_%d", s.now().UnixMilli())
	return s.upsertOrderMetafield(ctx, shop, token, orderGID,
		metafieldNamespace, metafieldSplitID, splitID, metafieldTextType)
}

// writeSplitLog appends an audit row. Failures are logged and swallowed:
// losing an audit row must not fail processing that already mutated remote
// state.
func (s *SplitService) writeSplitLog(ctx context.Context, shop, orderName string, splitOrderIDs *string, retained bool, message string) {
	originalOrderID := Clamp(orderName, 255)
	row := &domain.SplitLog{
		Shop:            shop,
		OriginalOrderID: &originalOrderID,
		SplitOrderIDs:   splitOrderIDs,
		Retained:        retained,
		Message:         Clamp(message, 1000),
	}
	if err := s.repos.SplitLog.Create(ctx, row); err != nil {
		s.logger.Warn("failed to write split log",
			zap.String("shop", shop),
			zap.String("order", orderName),
			zap.Error(err))
	}
}

// noteRemoteFailure writes an alert row when a remote call burned through
// all its retries. Other error kinds are the call site's business.
func (s *SplitService) noteRemoteFailure(ctx context.Context, shop string, err error) {
	var exhausted *errors.ErrRemoteCallExhausted
	if !stderrors.As(err, &exhausted) {
		return
	}
	message := Clamp(fmt.Sprintf("GraphQL retry failure: %v", exhausted.Last), 1000)
	row := &domain.SplitLog{
		Shop:     shop,
		Retained: false,
		Message:  message,
	}
	if err := s.repos.SplitLog.Create(ctx, row); err != nil {
		s.logger.Warn("failed to write retry failure alert",
			zap.String("shop", shop),
			zap.Error(err))
	}
}

// orderIDFromPayload pulls the numeric order id from the webhook body. Some
// delivery shapes nest it under order.id.
func orderIDFromPayload(payload map[string]interface{}) interface{} {
	if id, ok := payload["id"]; ok && id != nil {
		return id
	}
	if nested, ok := payload["order"].(map[string]interface{}); ok {
		return nested["id"]
	}
	return nil
}
