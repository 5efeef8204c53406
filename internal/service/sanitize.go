package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/shopify"
	"github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Clamp truncates a string to max characters. Every value persisted to the
// split log or sent as a note passes through here so oversized payloads
// cannot grow storage unbounded. Truncation counts runes, never splitting a
// multi-byte character.
func Clamp(value string, max int) string {
	if len(value) <= max {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

// stringify renders a webhook JSON value as a plain string. Numbers come out
// of encoding/json as float64; format without an exponent so large ids
// survive.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SanitizeOrderID validates the order id from an untrusted webhook payload.
// The id must be a non-empty digit string after trimming.
func SanitizeOrderID(value interface{}) (string, error) {
	if value == nil {
		return "", &errors.ErrValidation{Field: "order_id", Message: "missing order id in webhook payload"}
	}
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return "", &errors.ErrValidation{Field: "order_id", Message: "missing order id in webhook payload"}
	}
	if !digitsOnly.MatchString(s) {
		return "", &errors.ErrValidation{Field: "order_id", Message: "invalid order id"}
	}
	return s, nil
}

// SanitizeCustomerID applies the same digit check as SanitizeOrderID but
// never fails: customer linkage is optional, so invalid or missing input
// yields an empty id.
func SanitizeCustomerID(value interface{}) string {
	if value == nil {
		return ""
	}
	s := strings.TrimSpace(stringify(value))
	if !digitsOnly.MatchString(s) {
		return ""
	}
	return s
}

// addressFieldLimits pairs the accepted payload key aliases with the
// per-field length cap
var addressFields = []struct {
	aliases []string
	max     int
	assign  func(addr *shopify.DraftOrderAddressInput, v string)
}{
	{[]string{"first_name", "firstName"}, 100, func(a *shopify.DraftOrderAddressInput, v string) { a.FirstName = v }},
	{[]string{"last_name", "lastName"}, 100, func(a *shopify.DraftOrderAddressInput, v string) { a.LastName = v }},
	{[]string{"address1"}, 250, func(a *shopify.DraftOrderAddressInput, v string) { a.Address1 = v }},
	{[]string{"address2"}, 250, func(a *shopify.DraftOrderAddressInput, v string) { a.Address2 = v }},
	{[]string{"city"}, 100, func(a *shopify.DraftOrderAddressInput, v string) { a.City = v }},
	{[]string{"province"}, 100, func(a *shopify.DraftOrderAddressInput, v string) { a.Province = v }},
	{[]string{"country"}, 100, func(a *shopify.DraftOrderAddressInput, v string) { a.Country = v }},
	{[]string{"zip", "postal_code"}, 50, func(a *shopify.DraftOrderAddressInput, v string) { a.Zip = v }},
	{[]string{"phone"}, 50, func(a *shopify.DraftOrderAddressInput, v string) { a.Phone = v }},
}

// SanitizeShippingAddress builds a bounded address from an untrusted payload
// object. For each logical field the first present alias wins and the value
// is clamped to the field's cap. Non-object input yields nil.
func SanitizeShippingAddress(value interface{}) *shopify.DraftOrderAddressInput {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}

	addr := &shopify.DraftOrderAddressInput{}
	for _, field := range addressFields {
		for _, alias := range field.aliases {
			v, present := raw[alias]
			if !present || v == nil {
				continue
			}
			s := stringify(v)
			if s == "" {
				continue
			}
			field.assign(addr, Clamp(s, field.max))
			break
		}
	}
	return addr
}
