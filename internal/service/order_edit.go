package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
)

// runOrderEdit removes the split-away pre-sale quantities from the original
// order through a begin/adjust/commit edit session. Begin and commit
// failures fail the whole edit; a failed adjustment on one line is logged
// and the remaining lines still get adjusted. The caller treats any
// returned error as logged-and-done: child orders are never rolled back.
func (s *SplitService) runOrderEdit(ctx context.Context, shop, token, orderGID string, presaleItems []shopify.LineItem) error {
	calculated, err := s.orderEditBegin(ctx, shop, token, orderGID)
	if err != nil {
		return fmt.Errorf("order edit begin: %w", err)
	}

	calculatedByLine := make(map[string]*shopify.CalculatedLineItem, len(calculated.CalculatedLineItems.Nodes))
	for i := range calculated.CalculatedLineItems.Nodes {
		node := &calculated.CalculatedLineItems.Nodes[i]
		calculatedByLine[node.LineItem.ID] = node
	}

	for _, presaleItem := range presaleItems {
		line, found := calculatedByLine[presaleItem.ID]
		if !found {
			s.logger.Warn("no calculated line for original line item",
				zap.String("shop", shop),
				zap.String("lineItemId", presaleItem.ID))
			continue
		}

		var adjustErr error
		if line.Quantity <= presaleItem.Quantity {
			adjustErr = s.orderEditRemoveLineItem(ctx, shop, token, calculated.ID, line.ID)
		} else {
			newQty := line.Quantity - presaleItem.Quantity
			adjustErr = s.orderEditSetQuantity(ctx, shop, token, calculated.ID, line.ID, newQty)
		}
		if adjustErr != nil {
			s.noteRemoteFailure(ctx, shop, adjustErr)
			s.logger.Error("error adjusting calculated line",
				zap.String("shop", shop),
				zap.String("lineItemId", presaleItem.ID),
				zap.Error(adjustErr))
		}
	}

	if err := s.orderEditCommit(ctx, shop, token, calculated.ID, "Order split: pre-sale items removed"); err != nil {
		return fmt.Errorf("order edit commit: %w", err)
	}
	return nil
}
