package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when an untrusted webhook payload field fails validation
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrOrderNotFound is returned when the order cannot be read back from Shopify.
// The delivery layer treats this as retryable: a freshly created order may not
// be queryable yet due to replication lag.
type ErrOrderNotFound struct {
	OrderGID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %s", e.OrderGID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrRemoteCallExhausted is returned after the GraphQL retry budget is spent.
// Last carries the final transport or throttle error.
type ErrRemoteCallExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrRemoteCallExhausted) Error() string {
	return fmt.Sprintf("graphql call exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrRemoteCallExhausted) Unwrap() error {
	return e.Last
}
