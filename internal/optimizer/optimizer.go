package optimizer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"payopt/pkg/constants"
	"payopt/pkg/money"
)

// Engine allocates payment methods to a batch of orders. An Engine owns
// its ledger state exclusively for the duration of one Optimize call and
// performs no internal locking; callers embedding it in a concurrent
// system must not share one instance across goroutines.
type Engine struct {
	logger   *zap.Logger
	pointsID string

	orders  []Order
	methods map[string]*PaymentMethod

	summary     map[string]money.Amount
	plans       map[string]Plan
	processed   []string
	underfunded []string
	ran         bool
}

// Option customizes engine construction.
type Option func(*Engine)

// WithPointsMethodID overrides the id of the loyalty-points method.
func WithPointsMethodID(id string) Option {
	return func(e *Engine) {
		e.pointsID = id
	}
}

// New constructs an Engine from a batch of orders and the available
// payment methods. The method definitions are copied; the caller's
// values are never mutated.
func New(logger *zap.Logger, orders []Order, methods []PaymentMethod, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		logger:   logger,
		pointsID: constants.PointsMethodID,
		orders:   append([]Order(nil), orders...),
		methods:  make(map[string]*PaymentMethod, len(methods)),
		summary:  make(map[string]money.Amount, len(methods)),
		plans:    make(map[string]Plan),
	}

	for _, opt := range opts {
		opt(e)
	}

	for _, m := range methods {
		if _, exists := e.methods[m.ID]; exists {
			return nil, fmt.Errorf("duplicate payment method id %q", m.ID)
		}
		copied := m
		copied.resetUsed()
		e.methods[m.ID] = &copied
		e.summary[m.ID] = 0
	}

	return e, nil
}

// Optimize prioritizes the batch, allocates every order, runs the points
// reallocation sweep, and returns the total amount charged to each known
// method. The mapping is exhaustive over the input method set; methods
// never used map to zero.
func (e *Engine) Optimize() map[string]money.Amount {
	if !e.ran {
		e.ran = true

		e.prioritize()

		for i := range e.orders {
			e.processOrder(&e.orders[i])
		}

		e.reallocateUnusedPoints()

		e.logger.Debug("optimization finished",
			zap.String("op", "optimizer.Optimize"),
			zap.Int("orders", len(e.orders)),
			zap.Int("committed", len(e.processed)),
			zap.Int("underfunded", len(e.underfunded)),
		)
	}

	out := make(map[string]money.Amount, len(e.summary))
	for id, amount := range e.summary {
		out[id] = amount
	}
	return out
}

// UnderfundedOrders returns the ids of orders whose committed plan does
// not cover their full charge, in processing order. Underfunding is a
// normal outcome, not an error: the order keeps whatever partial plan
// the multi-method fallback accumulated.
func (e *Engine) UnderfundedOrders() []string {
	return append([]string(nil), e.underfunded...)
}

// Plans returns a copy of the committed plans keyed by order id,
// reflecting any post-processing shifts.
func (e *Engine) Plans() map[string]Plan {
	out := make(map[string]Plan, len(e.plans))
	for id, plan := range e.plans {
		out[id] = plan.clone()
	}
	return out
}

func (e *Engine) processOrder(o *Order) {
	if o.Value <= 0 {
		e.logger.Debug("skipping order with non-positive value",
			zap.String("op", "optimizer.processOrder"),
			zap.String("order", o.ID),
		)
		return
	}

	plan, underfunded := e.evaluate(o)
	e.commit(o, plan)

	if underfunded {
		e.underfunded = append(e.underfunded, o.ID)
		e.logger.Warn("order committed with partial funding",
			zap.String("op", "optimizer.processOrder"),
			zap.String("order", o.ID),
			zap.String("charged", plan.Total().String()),
			zap.String("value", o.Value.String()),
		)
	}
}

// pointsMethod returns the loyalty-points method, or nil when the input
// method set does not define one.
func (e *Engine) pointsMethod() *PaymentMethod {
	return e.methods[e.pointsID]
}

// cardsByDiscount returns every non-points method ordered by discount
// percentage descending, ties broken by id. Candidate walks that the
// data files impose no order on all use this ordering so runs are
// deterministic.
func (e *Engine) cardsByDiscount() []*PaymentMethod {
	cards := make([]*PaymentMethod, 0, len(e.methods))
	for id, m := range e.methods {
		if id == e.pointsID {
			continue
		}
		cards = append(cards, m)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Discount != cards[j].Discount {
			return cards[i].Discount > cards[j].Discount
		}
		return cards[i].ID < cards[j].ID
	})
	return cards
}

func (e *Engine) promotedSet(o *Order) map[string]bool {
	promoted := make(map[string]bool, len(o.Promotions))
	for _, id := range o.Promotions {
		promoted[id] = true
	}
	return promoted
}
