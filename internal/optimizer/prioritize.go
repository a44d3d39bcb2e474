package optimizer

import (
	"sort"

	"payopt/pkg/constants"
	"payopt/pkg/money"
)

// prioritize reorders the batch by each order's best-case discount ratio,
// descending. Orders with the richest discount opportunity are processed
// first, while the shared capacity pool is least depleted. The sort is
// stable: equal ratios keep their original relative order.
func (e *Engine) prioritize() {
	ratios := make([]int64, len(e.orders))
	for i := range e.orders {
		ratios[i] = money.Ratio4(e.bestCaseDiscount(&e.orders[i]), e.orders[i].Value)
	}

	indexes := make([]int, len(e.orders))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return ratios[indexes[a]] > ratios[indexes[b]]
	})

	reordered := make([]Order, len(e.orders))
	for i, idx := range indexes {
		reordered[i] = e.orders[idx]
	}
	e.orders = reordered
}

// bestCaseDiscount computes the largest discount the order could earn
// from any single strategy, judged against current available capacity.
// Capacity has not been consumed yet at prioritization time, so this is
// an optimistic upper bound, not a commitment.
func (e *Engine) bestCaseDiscount(o *Order) money.Amount {
	v := o.Value
	if v <= 0 {
		return 0
	}

	var best money.Amount

	// Full payment with points.
	if points := e.pointsMethod(); points != nil {
		if points.Available() >= money.ApplyDiscount(v, points.Discount) {
			best = money.PercentOf(v, points.Discount)
		}
	}

	// Full payment with an eligible card.
	for _, id := range o.Promotions {
		if id == e.pointsID {
			continue
		}
		m, known := e.methods[id]
		if !known {
			continue
		}
		if m.Available() >= money.ApplyDiscount(v, m.Discount) {
			if d := money.PercentOf(v, m.Discount); d > best {
				best = d
			}
		}
	}

	// Partial payment with points at the flat partial discount.
	if points := e.pointsMethod(); points != nil {
		if points.Available() >= money.PercentOf(v, constants.MinPointsSharePercent) {
			if d := money.PercentOf(v, constants.PartialPointsDiscountPercent); d > best {
				best = d
			}
		}
	}

	return best
}
