// Package optimizer implements the payment allocation engine: it assigns
// each order in a batch to the combination of capacity-limited,
// discount-bearing payment methods that minimizes the order's charge,
// while keeping every method's aggregate usage within its capacity.
package optimizer

import (
	"payopt/pkg/money"
)

// Order is a single purchase order to be funded. Orders are read-only
// inputs; the engine never mutates them.
type Order struct {
	ID         string       `json:"id"`
	Value      money.Amount `json:"value"`
	Promotions []string     `json:"promotions,omitempty"`
}

// PaymentMethod is a payment method with a percentage discount and a
// total capacity. The used amount is owned by the engine: it changes only
// through commits and the points reallocation sweep.
type PaymentMethod struct {
	ID       string       `json:"id"`
	Discount int          `json:"discount"`
	Limit    money.Amount `json:"limit"`

	used money.Amount
}

// Used reports the total amount charged to the method so far.
func (m *PaymentMethod) Used() money.Amount {
	return m.used
}

// Available reports the remaining capacity of the method.
func (m *PaymentMethod) Available() money.Amount {
	return m.Limit - m.used
}

func (m *PaymentMethod) use(amount money.Amount) {
	m.used += amount
}

func (m *PaymentMethod) resetUsed() {
	m.used = 0
}

// Plan maps method ids to the amount charged to each method for one
// order. The sum of a plan's amounts is what the order was actually
// charged after discounts.
type Plan map[string]money.Amount

// Total returns the sum of the plan's amounts.
func (p Plan) Total() money.Amount {
	var total money.Amount
	for _, amount := range p {
		total += amount
	}
	return total
}

func (p Plan) clone() Plan {
	out := make(Plan, len(p))
	for id, amount := range p {
		out[id] = amount
	}
	return out
}
