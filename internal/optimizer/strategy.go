package optimizer

import (
	"sort"

	"payopt/pkg/constants"
	"payopt/pkg/money"
)

// evaluate searches the four payment strategies for one order with a
// positive value and returns the cheapest plan found, together with
// whether the order ended up only partially funded. Evaluation performs
// no capacity mutation; commit applies the winning plan afterwards.
//
// The baseline cost to beat is the undiscounted face value. Strategies
// are tried in a fixed order and a later strategy replaces the current
// best only with a strictly lower cost, so ties go to the earliest
// strategy.
func (e *Engine) evaluate(o *Order) (Plan, bool) {
	lowest := o.Value
	var best Plan

	if plan, ok := e.fullPointsPlan(o); ok && plan.Total() < lowest {
		best = plan
		lowest = plan.Total()
	}

	if plan, ok := e.fullCardPlan(o); ok && plan.Total() < lowest {
		best = plan
		lowest = plan.Total()
	}

	if plan, ok := e.partialPointsPlan(o); ok && plan.Total() < lowest {
		best = plan
	}

	if len(best) == 0 {
		return e.blendPlan(o)
	}
	return best, false
}

// fullPointsPlan pays the whole order with points at the points method's
// own discount, if the discounted amount fits in the remaining points
// capacity.
func (e *Engine) fullPointsPlan(o *Order) (Plan, bool) {
	points := e.pointsMethod()
	if points == nil {
		return nil, false
	}
	discounted := money.ApplyDiscount(o.Value, points.Discount)
	if points.Available() < discounted {
		return nil, false
	}
	return Plan{e.pointsID: discounted}, true
}

// fullCardPlan pays the whole order with a single promotion-eligible
// card. Candidates are tried in the order the promotions are listed on
// the order; the cheapest affordable one wins, earlier listing winning
// ties.
func (e *Engine) fullCardPlan(o *Order) (Plan, bool) {
	var best Plan
	var lowest money.Amount

	for _, id := range o.Promotions {
		if id == e.pointsID {
			continue
		}
		card, known := e.methods[id]
		if !known || card.Available() <= 0 {
			continue
		}
		discounted := money.ApplyDiscount(o.Value, card.Discount)
		if card.Available() < discounted {
			continue
		}
		if best == nil || discounted < lowest {
			best = Plan{id: discounted}
			lowest = discounted
		}
	}

	return best, best != nil
}

// partialPointsPlan pays at least the minimum points share with points
// and the rest with one card, granting the flat partial discount on the
// whole order. The points contribution is swept from the minimum upward
// in minimum-sized increments; the remainder receives no further
// discount regardless of which card absorbs it.
func (e *Engine) partialPointsPlan(o *Order) (Plan, bool) {
	points := e.pointsMethod()
	if points == nil || points.Available() <= 0 {
		return nil, false
	}

	v := o.Value
	discounted := money.ApplyDiscount(v, constants.PartialPointsDiscountPercent)
	minPoints := money.PercentOf(v, constants.MinPointsSharePercent)
	step := money.Max(minPoints, 1)
	maxPoints := money.Min(points.Available(), v)

	cards := e.partialCardCandidates(o)

	var best Plan
	var lowest money.Amount

	for p := minPoints; p <= maxPoints; p += step {
		remainder := money.Max(0, discounted-p)
		for _, card := range cards {
			if card.Available() < remainder {
				continue
			}
			cost := p + remainder
			if best == nil || cost < lowest {
				best = Plan{e.pointsID: p, card.ID: remainder}
				lowest = cost
			}
			break
		}
	}

	return best, best != nil
}

// partialCardCandidates returns the cards eligible to absorb the
// non-points remainder: the order's promoted cards first, in listed
// order, then every other card by descending discount.
func (e *Engine) partialCardCandidates(o *Order) []*PaymentMethod {
	seen := make(map[string]bool, len(e.methods))
	cards := make([]*PaymentMethod, 0, len(e.methods))

	for _, id := range o.Promotions {
		if id == e.pointsID || seen[id] {
			continue
		}
		if card, known := e.methods[id]; known {
			cards = append(cards, card)
			seen[id] = true
		}
	}
	for _, card := range e.cardsByDiscount() {
		if !seen[card.ID] {
			cards = append(cards, card)
			seen[card.ID] = true
		}
	}

	return cards
}

// blendPlan is the fallback when no single- or two-method plan funds the
// order: it spreads the charge across as many methods as needed. If the
// minimum points share is affordable it is committed up front, which
// grants the flat partial discount on the whole order. The first card
// charged may additionally earn its own promotion discount on the
// remaining balance; every later method pays face value.
//
// If capacity runs out before the balance does, the partial plan is
// returned as-is and the order is reported underfunded.
func (e *Engine) blendPlan(o *Order) (Plan, bool) {
	v := o.Value
	plan := Plan{}
	remaining := v

	points := e.pointsMethod()
	minPoints := money.PercentOf(v, constants.MinPointsSharePercent)

	pointsCommitted := points != nil && points.Available() >= minPoints
	if pointsCommitted {
		plan[e.pointsID] = minPoints
		remaining = money.ApplyDiscount(v, constants.PartialPointsDiscountPercent) - minPoints
	}

	candidates := e.blendCandidates(o, pointsCommitted)
	promoted := e.promotedSet(o)

	hasCardEntry := false
	for _, m := range candidates {
		if remaining <= 0 {
			break
		}

		available := m.Available()
		if m.ID == e.pointsID {
			available -= plan[e.pointsID]
		}
		if available <= 0 {
			continue
		}

		discount := 0
		switch {
		case m.ID != e.pointsID && !hasCardEntry && promoted[m.ID]:
			discount = m.Discount
		case m.ID == e.pointsID && !pointsCommitted:
			discount = m.Discount
		}

		charge := remaining
		if discount > 0 {
			charge = money.ApplyDiscount(remaining, discount)
		}
		capped := charge > available
		if capped {
			charge = available
		}

		plan[m.ID] += charge
		if m.ID != e.pointsID {
			hasCardEntry = true
		}

		// Keep "remaining" on the un-discounted scale: a discounted
		// charge settles more balance than its own magnitude.
		switch {
		case discount > 0 && !capped:
			remaining = 0
		case discount > 0:
			remaining -= money.GrossFromNet(charge, discount)
		default:
			remaining -= charge
		}
	}

	return plan, remaining > 0
}

// blendCandidates assembles the method list for the blend walk: the
// points method when its minimum share was unaffordable, then the
// order's promoted cards in listed order, then every other card. The
// list is sorted by discount percentage descending, preserving insertion
// order within equal discounts.
func (e *Engine) blendCandidates(o *Order, pointsCommitted bool) []*PaymentMethod {
	seen := make(map[string]bool, len(e.methods))
	candidates := make([]*PaymentMethod, 0, len(e.methods))

	if points := e.pointsMethod(); points != nil && !pointsCommitted {
		candidates = append(candidates, points)
		seen[points.ID] = true
	}
	for _, id := range o.Promotions {
		if id == e.pointsID || seen[id] {
			continue
		}
		if card, known := e.methods[id]; known {
			candidates = append(candidates, card)
			seen[id] = true
		}
	}
	for _, card := range e.cardsByDiscount() {
		if !seen[card.ID] {
			candidates = append(candidates, card)
			seen[card.ID] = true
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Discount > candidates[j].Discount
	})
	return candidates
}
