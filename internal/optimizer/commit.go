package optimizer

// commit applies a chosen plan to the ledger: every positive entry
// increases its method's used amount and the batch summary. The plan is
// recorded against the order id so the points reallocation sweep can
// revise it later. Called exactly once per order that was not skipped.
func (e *Engine) commit(o *Order, plan Plan) {
	e.plans[o.ID] = plan
	e.processed = append(e.processed, o.ID)

	for id, amount := range plan {
		if amount <= 0 {
			continue
		}
		m, known := e.methods[id]
		if !known {
			continue
		}
		m.use(amount)
		e.summary[id] += amount
	}
}

// recalculate rebuilds every method's used amount and the batch summary
// from scratch over all committed plans. The points reallocation sweep
// calls this after each shift instead of patching incrementally.
func (e *Engine) recalculate() {
	for _, m := range e.methods {
		m.resetUsed()
	}
	for id := range e.summary {
		e.summary[id] = 0
	}

	for _, orderID := range e.processed {
		for id, amount := range e.plans[orderID] {
			m, known := e.methods[id]
			if !known {
				continue
			}
			m.use(amount)
			e.summary[id] += amount
		}
	}
}
