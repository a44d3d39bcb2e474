// Package testutil provides common fixtures for testing.
package testutil

import (
	"payopt/internal/optimizer"
	"payopt/pkg/money"
)

// StandardMethods returns the three-method set used by most tests: the
// points method plus two cards with distinct discounts and capacities.
func StandardMethods() []optimizer.PaymentMethod {
	return []optimizer.PaymentMethod{
		{ID: "PUNKTY", Discount: 15, Limit: money.MustParse("100.00")},
		{ID: "mZysk", Discount: 10, Limit: money.MustParse("180.00")},
		{ID: "BosBankrut", Discount: 5, Limit: money.MustParse("200.00")},
	}
}

// Order builds an order from a 2-decimal value literal.
func Order(id, value string, promotions ...string) optimizer.Order {
	return optimizer.Order{
		ID:         id,
		Value:      money.MustParse(value),
		Promotions: promotions,
	}
}
