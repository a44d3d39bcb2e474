// Package validation provides input and flag validation utilities.
package validation

import (
	"fmt"

	"payopt/internal/optimizer"
	"payopt/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the
// supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatReport, constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatReport, constants.OutputFormatPretty, constants.OutputFormatCSV, format)
}

// ValidatePaymentMethods rejects structurally invalid method sets and
// returns warnings for suspicious but workable ones.
func ValidatePaymentMethods(methods []optimizer.PaymentMethod) ([]string, error) {
	var warnings []string
	seen := make(map[string]bool, len(methods))

	for _, m := range methods {
		if m.ID == "" {
			return warnings, fmt.Errorf("payment method with empty id")
		}
		if seen[m.ID] {
			return warnings, fmt.Errorf("duplicate payment method id %q", m.ID)
		}
		seen[m.ID] = true

		if m.Discount < 0 || m.Discount > 100 {
			return warnings, fmt.Errorf("payment method %q has discount %d outside 0-100", m.ID, m.Discount)
		}
		if m.Limit < 0 {
			return warnings, fmt.Errorf("payment method %q has negative limit %s", m.ID, m.Limit)
		}
		if m.Limit == 0 {
			warnings = append(warnings, fmt.Sprintf("payment method %q has zero limit and can never be charged", m.ID))
		}
	}

	return warnings, nil
}

// ValidateOrders returns warnings for order definitions that the engine
// will tolerate but that usually indicate bad input: duplicate ids,
// non-positive values, and promotions naming unknown methods. Unknown
// promotion ids are ignored by the engine, never rejected.
func ValidateOrders(orders []optimizer.Order, methods []optimizer.PaymentMethod) []string {
	known := make(map[string]bool, len(methods))
	for _, m := range methods {
		known[m.ID] = true
	}

	var warnings []string
	seen := make(map[string]bool, len(orders))

	for _, o := range orders {
		if o.ID == "" {
			warnings = append(warnings, "order with empty id")
		}
		if seen[o.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate order id %q", o.ID))
		}
		seen[o.ID] = true

		if o.Value <= 0 {
			warnings = append(warnings, fmt.Sprintf("order %q has non-positive value %s and will be skipped", o.ID, o.Value))
		}
		for _, promo := range o.Promotions {
			if !known[promo] {
				warnings = append(warnings, fmt.Sprintf("order %q lists unknown promotion %q", o.ID, promo))
			}
		}
	}

	return warnings
}
