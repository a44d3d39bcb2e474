package optimizer

import (
	"sort"

	"go.uber.org/zap"
	"payopt/pkg/money"
)

// reallocateUnusedPoints runs once after every order has been committed.
// It walks the committed orders in reverse processing order and shifts
// card-paid amounts into leftover points capacity. Shifts are strictly
// amount-for-amount: an order's total charge never changes, only which
// method absorbed it, so points utilization is maximized after cost has
// already been minimized. The minimum points share only gates discounts
// at commit time; a shift may leave a plan's points entry below it.
func (e *Engine) reallocateUnusedPoints() {
	points := e.pointsMethod()
	if points == nil {
		return
	}
	unused := points.Available()
	if unused <= 0 {
		return
	}

	shifted := money.Zero
	defer func() {
		if shifted > 0 {
			e.logger.Debug("shifted card payments into unused points",
				zap.String("op", "optimizer.reallocateUnusedPoints"),
				zap.String("amount", shifted.String()),
			)
		}
	}()

	for i := len(e.processed) - 1; i >= 0; i-- {
		plan := e.plans[e.processed[i]]
		if len(plan) == 0 {
			continue
		}
		if len(plan) == 1 {
			if _, pointsOnly := plan[e.pointsID]; pointsOnly {
				continue
			}
		}

		for _, id := range e.cardIDsOf(plan) {
			shift := money.Min(plan[id], unused)
			if shift <= 0 {
				continue
			}

			plan[id] -= shift
			plan[e.pointsID] += shift
			if plan[id] == 0 {
				delete(plan, id)
			}

			unused -= shift
			shifted += shift
			e.recalculate()

			if unused <= 0 {
				return
			}
		}
	}
}

// cardIDsOf lists a plan's non-points method ids in ascending order.
func (e *Engine) cardIDsOf(plan Plan) []string {
	ids := make([]string, 0, len(plan))
	for id := range plan {
		if id != e.pointsID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
