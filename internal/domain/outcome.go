package domain

// Terminal reasons reported in ProcessOutcome.Reason.
const (
	ReasonSplittingDisabled = "splitting_disabled"
	ReasonAlreadyProcessed  = "already_processed"
	ReasonNotPaid           = "not_paid"
	ReasonNoPresaleItems    = "no-presale-items"
	ReasonAllPresale        = "pre-sale-retained"
)

// SplitCreationError records why one location group failed to produce a
// child order. Either Errors (Shopify user errors) or Reason is set.
type SplitCreationError struct {
	LocationCode string   `json:"locationCode"`
	Errors       []string `json:"errors,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// ProcessOutcome is the structured result of processing one order-created
// event. Success is false for business short-circuits (disabled, duplicate,
// unpaid); those are terminal outcomes, not errors.
type ProcessOutcome struct {
	Success             bool                 `json:"success"`
	Retained            bool                 `json:"retained,omitempty"`
	Reason              string               `json:"reason,omitempty"`
	SplitOrderIDs       []string             `json:"splitOrderIds,omitempty"`
	SplitCreationErrors []SplitCreationError `json:"splitCreationErrors,omitempty"`
	MissingMappings     []string             `json:"missingMappings,omitempty"`
}
