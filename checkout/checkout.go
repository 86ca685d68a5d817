// Package checkout turns a non-empty cart plus a completed delivery draft
// into a confirmed order, exactly once.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/TechNas12/samruddhi-organic/cart"
	"github.com/TechNas12/samruddhi-organic/guard"
	"github.com/TechNas12/samruddhi-organic/orders"
	"github.com/TechNas12/samruddhi-organic/session"
)

// ErrEmptyCart rejects a submission against an empty cart.
var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// OrderPlacer is the slice of the orders client the orchestrator needs.
type OrderPlacer interface {
	Create(ctx context.Context, req orders.CreateRequest, idempotencyKey string) (*orders.Order, error)
}

// Routes are the navigation targets around checkout.
type Routes struct {
	Login    string
	Cart     string
	Checkout string
	Success  string
}

func DefaultRoutes() Routes {
	return Routes{
		Login:    "/login",
		Cart:     "/cart",
		Checkout: "/checkout",
		Success:  "/dashboard",
	}
}

// Confirmation is a successful submission: the created order and where to
// navigate next.
type Confirmation struct {
	Order *orders.Order
	Route string
}

// Orchestrator gates and submits checkouts. The cart is cleared only after
// the backend confirms creation, never optimistically; a failed submission
// leaves cart and draft untouched so the user can resubmit manually.
type Orchestrator struct {
	cart   *cart.Store
	sess   *session.Store
	placer OrderPlacer
	routes Routes
	log    *slog.Logger

	mu         sync.Mutex
	pendingKey string
}

type Option func(*Orchestrator)

func WithRoutes(r Routes) Option {
	return func(o *Orchestrator) { o.routes = r }
}

func WithOrchestratorLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func NewOrchestrator(cartStore *cart.Store, sess *session.Store, placer OrderPlacer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:   cartStore,
		sess:   sess,
		placer: placer,
		routes: DefaultRoutes(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Routes() Routes { return o.routes }

// Gate decides whether the checkout page may render. Order matters: an
// unauthenticated shopper goes to login with checkout preserved as the
// return destination; an authenticated shopper with an empty cart goes
// back to the cart page.
func (o *Orchestrator) Gate() guard.Decision {
	d := guard.Check(o.sess, o.routes.Checkout, o.routes.Login)
	if d.Action != guard.Allow {
		return d
	}
	if o.cart.IsEmpty() {
		return guard.Decision{Action: guard.Redirect, Target: o.routes.Cart}
	}
	return d
}

// Draft returns a delivery draft seeded from the authenticated user's
// stored profile, or a blank draft when anonymous.
func (o *Orchestrator) Draft() Draft {
	if p, ok := o.sess.Principal(); ok {
		return DraftFromProfile(p)
	}
	return Draft{}
}

// Submit validates the draft, snapshots the cart and issues a single
// order-creation call. The idempotency key is minted on the first attempt
// for a draft and reused on manual retries, so a lost success response
// cannot create a duplicate order; it is discarded once a submission
// succeeds.
func (o *Orchestrator) Submit(ctx context.Context, d Draft) (*Confirmation, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	items := o.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	req := orders.CreateRequest{
		Items:        make([]orders.RequestItem, 0, len(items)),
		CustomerName: d.CustomerName,
		Phone:        d.Phone,
		Address:      d.Address,
		City:         d.City,
		State:        d.State,
		Pincode:      d.Pincode,
		Notes:        d.Notes,
	}
	for _, li := range items {
		req.Items = append(req.Items, orders.RequestItem{ProductID: li.ProductID, Quantity: li.Quantity})
	}

	o.mu.Lock()
	if o.pendingKey == "" {
		o.pendingKey = uuid.NewString()
	}
	key := o.pendingKey
	o.mu.Unlock()

	ord, err := o.placer.Create(ctx, req, key)
	if err != nil {
		// Cart and key stay put; the user may resubmit manually.
		return nil, err
	}

	o.mu.Lock()
	o.pendingKey = ""
	o.mu.Unlock()
	o.cart.Clear()
	o.log.Info("order placed", "order_number", ord.OrderNumber, "items", len(items))

	return &Confirmation{Order: ord, Route: o.routes.Success}, nil
}
