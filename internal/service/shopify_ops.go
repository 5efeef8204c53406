package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

// Typed wrappers around the raw GraphQL executor. Each parses the mutation
// payload and surfaces userErrors the way its call site needs them: fatal
// for draft creation and edit begin/commit, advisory elsewhere.

func (s *SplitService) getOrderDetails(ctx context.Context, shop, token, orderGID string) (*shopify.Order, error) {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.GetOrderDetailsQuery, map[string]interface{}{
		"id": orderGID,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Order *shopify.Order `json:"order"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}
	if result.Order == nil {
		return nil, &errors.ErrOrderNotFound{OrderGID: orderGID}
	}

	return result.Order, nil
}

func (s *SplitService) addOrderTags(ctx context.Context, shop, token, orderGID string, tags []string) error {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.TagsAddMutation, map[string]interface{}{
		"id":   orderGID,
		"tags": tags,
	})
	if err != nil {
		return err
	}

	var result struct {
		TagsAdd struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"tagsAdd"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse tagsAdd response: %w", err)
	}
	if len(result.TagsAdd.UserErrors) > 0 {
		return fmt.Errorf("tagsAdd userErrors: %s", shopify.FormatUserErrors(result.TagsAdd.UserErrors))
	}

	return nil
}

func (s *SplitService) upsertOrderMetafield(ctx context.Context, shop, token, orderGID, namespace, key, value, fieldType string) error {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.MetafieldUpsertMutation, map[string]interface{}{
		"ownerId":   orderGID,
		"namespace": namespace,
		"key":       key,
		"value":     value,
		"type":      fieldType,
	})
	if err != nil {
		return err
	}

	var result struct {
		MetafieldUpsert struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldUpsert"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse metafieldUpsert response: %w", err)
	}
	if len(result.MetafieldUpsert.UserErrors) > 0 {
		return fmt.Errorf("metafieldUpsert userErrors: %s", shopify.FormatUserErrors(result.MetafieldUpsert.UserErrors))
	}

	return nil
}

func (s *SplitService) createDraftOrder(ctx context.Context, shop, token string, input shopify.DraftOrderInput) (*shopify.DraftOrder, []shopify.UserError, error) {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.DraftOrderCreateMutation, map[string]interface{}{
		"input": input,
	})
	if err != nil {
		return nil, nil, err
	}

	var result struct {
		DraftOrderCreate struct {
			DraftOrder *shopify.DraftOrder `json:"draftOrder"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse draftOrderCreate response: %w", err)
	}

	return result.DraftOrderCreate.DraftOrder, result.DraftOrderCreate.UserErrors, nil
}

func (s *SplitService) completeDraftOrder(ctx context.Context, shop, token, draftGID string) (*shopify.DraftOrder, []shopify.UserError, error) {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.DraftOrderCompleteMutation, map[string]interface{}{
		"id": draftGID,
	})
	if err != nil {
		return nil, nil, err
	}

	var result struct {
		DraftOrderComplete struct {
			DraftOrder *shopify.DraftOrder `json:"draftOrder"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"draftOrderComplete"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse draftOrderComplete response: %w", err)
	}

	return result.DraftOrderComplete.DraftOrder, result.DraftOrderComplete.UserErrors, nil
}

func (s *SplitService) orderEditBegin(ctx context.Context, shop, token, orderGID string) (*shopify.CalculatedOrder, error) {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.OrderEditBeginMutation, map[string]interface{}{
		"id": orderGID,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		OrderEditBegin struct {
			CalculatedOrder *shopify.CalculatedOrder `json:"calculatedOrder"`
			UserErrors      []shopify.UserError      `json:"userErrors"`
		} `json:"orderEditBegin"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse orderEditBegin response: %w", err)
	}
	if len(result.OrderEditBegin.UserErrors) > 0 {
		return nil, fmt.Errorf("orderEditBegin userErrors: %s", shopify.FormatUserErrors(result.OrderEditBegin.UserErrors))
	}
	if result.OrderEditBegin.CalculatedOrder == nil || result.OrderEditBegin.CalculatedOrder.ID == "" {
		return nil, fmt.Errorf("no calculatedOrder id returned from orderEditBegin")
	}

	return result.OrderEditBegin.CalculatedOrder, nil
}

func (s *SplitService) orderEditSetQuantity(ctx context.Context, shop, token, calculatedOrderID, lineItemID string, quantity int) error {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.OrderEditSetQuantityMutation, map[string]interface{}{
		"id":         calculatedOrderID,
		"lineItemId": lineItemID,
		"quantity":   quantity,
	})
	if err != nil {
		return err
	}

	var result struct {
		OrderEditSetQuantity struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"orderEditSetQuantity"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse orderEditSetQuantity response: %w", err)
	}
	if len(result.OrderEditSetQuantity.UserErrors) > 0 {
		return fmt.Errorf("orderEditSetQuantity userErrors: %s", shopify.FormatUserErrors(result.OrderEditSetQuantity.UserErrors))
	}

	return nil
}

func (s *SplitService) orderEditRemoveLineItem(ctx context.Context, shop, token, calculatedOrderID, lineItemID string) error {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.OrderEditRemoveLineItemMutation, map[string]interface{}{
		"id":         calculatedOrderID,
		"lineItemId": lineItemID,
	})
	if err != nil {
		return err
	}

	var result struct {
		OrderEditRemoveLineItem struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"orderEditRemoveLineItem"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse orderEditRemoveLineItem response: %w", err)
	}
	if len(result.OrderEditRemoveLineItem.UserErrors) > 0 {
		return fmt.Errorf("orderEditRemoveLineItem userErrors: %s", shopify.FormatUserErrors(result.OrderEditRemoveLineItem.UserErrors))
	}

	return nil
}

func (s *SplitService) orderEditCommit(ctx context.Context, shop, token, calculatedOrderID, staffNote string) error {
	resp, err := s.gql.ExecuteWithRetry(ctx, shop, token, shopify.OrderEditCommitMutation, map[string]interface{}{
		"id":             calculatedOrderID,
		"notifyCustomer": false,
		"staffNote":      staffNote,
	})
	if err != nil {
		return err
	}

	var result struct {
		OrderEditCommit struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"orderEditCommit"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse orderEditCommit response: %w", err)
	}
	if len(result.OrderEditCommit.UserErrors) > 0 {
		return fmt.Errorf("orderEditCommit userErrors: %s", shopify.FormatUserErrors(result.OrderEditCommit.UserErrors))
	}

	return nil
}
