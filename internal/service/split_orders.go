package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/domain"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
)

// createSplitOrders creates one child order per pre-sale location group.
// A failure in one group never aborts the remaining groups; every skip or
// failure is recorded in the returned error/missing lists so the terminal
// audit log can surface it.
func (s *SplitService) createSplitOrders(
	ctx context.Context,
	shop, token string,
	order *shopify.Order,
	presaleItems []shopify.LineItem,
	mappingDict map[string]string,
	payload map[string]interface{},
) (splitOrderIDs []string, splitCreationErrors []domain.SplitCreationError, missingMappings []string) {
	// group by the variant's location code, preserving first-seen order so
	// draft creation is deterministic
	groups := make(map[string][]shopify.LineItem)
	var groupOrder []string
	for _, item := range presaleItems {
		code := item.LocationCode()
		if code == "" {
			code = "DEFAULT"
		}
		if _, seen := groups[code]; !seen {
			groupOrder = append(groupOrder, code)
		}
		groups[code] = append(groups[code], item)
	}

	shippingAddress := SanitizeShippingAddress(payload["shipping_address"])
	var customer *shopify.DraftOrderCustomerInput
	if customerPayload, ok := payload["customer"].(map[string]interface{}); ok {
		if id := SanitizeCustomerID(customerPayload["id"]); id != "" {
			customer = &shopify.DraftOrderCustomerInput{ID: "gid://shopify/Customer/" + id}
		}
	}

	for _, locationCode := range groupOrder {
		items := groups[locationCode]
		if _, mapped := mappingDict[locationCode]; !mapped {
			missingMappings = append(missingMappings, locationCode)
			s.logger.Warn("no location mapping for pre-sale group",
				zap.String("shop", shop),
				zap.String("locationCode", locationCode))
			continue
		}

		orderID, groupErr := s.createGroupOrder(ctx, shop, token, order, locationCode, items, shippingAddress, customer)
		if groupErr != nil {
			splitCreationErrors = append(splitCreationErrors, *groupErr)
		}
		// complete-step user errors still yield an order id
		if orderID != "" {
			splitOrderIDs = append(splitOrderIDs, orderID)
		}
	}

	return splitOrderIDs, splitCreationErrors, missingMappings
}

// createGroupOrder drives one group through draft create and complete.
// Complete-step user errors come back in the returned error record alongside
// whatever order id the mutation produced; the child order exists at that
// point, so both are reported.
func (s *SplitService) createGroupOrder(
	ctx context.Context,
	shop, token string,
	order *shopify.Order,
	locationCode string,
	items []shopify.LineItem,
	shippingAddress *shopify.DraftOrderAddressInput,
	customer *shopify.DraftOrderCustomerInput,
) (string, *domain.SplitCreationError) {
	lineItems := make([]shopify.DraftOrderLineItemInput, 0, len(items))
	for _, item := range items {
		if item.Variant == nil {
			continue
		}
		lineItems = append(lineItems, shopify.DraftOrderLineItemInput{
			VariantID: item.Variant.ID,
			Quantity:  item.Quantity,
		})
	}

	note := Clamp(fmt.Sprintf("Split from %s for location %s", Clamp(order.Name, 200), locationCode), 500)
	input := shopify.DraftOrderInput{
		LineItems:       lineItems,
		ShippingAddress: shippingAddress,
		Customer:        customer,
		Tags:            []string{TagSplitChild},
		Note:            &note,
	}

	draft, userErrors, err := s.createDraftOrder(ctx, shop, token, input)
	if err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Error("error creating split order",
			zap.String("shop", shop),
			zap.String("locationCode", locationCode),
			zap.Error(err))
		return "", &domain.SplitCreationError{LocationCode: locationCode, Errors: []string{err.Error()}}
	}
	if len(userErrors) > 0 {
		return "", &domain.SplitCreationError{LocationCode: locationCode, Errors: userErrorMessages(userErrors)}
	}
	if draft == nil || draft.ID == "" {
		return "", &domain.SplitCreationError{LocationCode: locationCode, Reason: "no_draft_id"}
	}

	completed, completeErrors, err := s.completeDraftOrder(ctx, shop, token, draft.ID)
	if err != nil {
		s.noteRemoteFailure(ctx, shop, err)
		s.logger.Error("error completing split order",
			zap.String("shop", shop),
			zap.String("locationCode", locationCode),
			zap.Error(err))
		return "", &domain.SplitCreationError{LocationCode: locationCode, Errors: []string{err.Error()}}
	}
	var groupErr *domain.SplitCreationError
	if len(completeErrors) > 0 {
		s.logger.Warn("draft order complete reported user errors",
			zap.String("shop", shop),
			zap.String("locationCode", locationCode),
			zap.String("userErrors", shopify.FormatUserErrors(completeErrors)))
		groupErr = &domain.SplitCreationError{LocationCode: locationCode, Errors: userErrorMessages(completeErrors)}
	}

	// prefer the materialized order id, falling back to whatever the draft
	// carries
	switch {
	case completed != nil && completed.Order != nil && completed.Order.ID != "":
		return completed.Order.ID, groupErr
	case draft.Order != nil && draft.Order.ID != "":
		return draft.Order.ID, groupErr
	default:
		return draft.ID, groupErr
	}
}

func userErrorMessages(userErrors []shopify.UserError) []string {
	messages := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		messages = append(messages, ue.Message)
	}
	return messages
}
