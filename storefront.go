// Package storefront wires the storefront client stack: two independent
// auth sessions (shopper and admin), a persisted local cart, catalog and
// order clients, the address typeahead resolver and the checkout
// orchestrator, all over one configured backend.
package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/TechNas12/samruddhi-organic/admin"
	"github.com/TechNas12/samruddhi-organic/cart"
	"github.com/TechNas12/samruddhi-organic/catalog"
	"github.com/TechNas12/samruddhi-organic/checkout"
	"github.com/TechNas12/samruddhi-organic/locations"
	"github.com/TechNas12/samruddhi-organic/orders"
	"github.com/TechNas12/samruddhi-organic/rest"
	"github.com/TechNas12/samruddhi-organic/session"
)

// App is the assembled client. The shopper and admin sessions ride
// separate rest clients so their credentials never mix; everything
// shopper-facing shares the user client.
type App struct {
	UserAPI  *rest.Client
	AdminAPI *rest.Client

	UserSession  *session.Store
	AdminSession *session.Store

	Cart      *cart.Store
	Catalog   *catalog.Client
	Orders    *orders.Client
	Admin     *admin.Client
	Locations *locations.Resolver
	Checkout  *checkout.Orchestrator

	profile *session.ProfileClient
	log     *slog.Logger
	rdb     *redis.Client
}

func New(cfg Config, log *slog.Logger) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	userAPI, err := rest.NewClient(cfg.BaseURL, rest.WithTimeout(cfg.RequestTimeout), rest.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("user api client: %w", err)
	}
	adminAPI, err := rest.NewClient(cfg.BaseURL, rest.WithTimeout(cfg.RequestTimeout), rest.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("admin api client: %w", err)
	}

	var userT, adminT session.Transport
	if cfg.AuthTransport == "bearer" {
		userT = session.NewUserBearerTransport(userAPI)
		adminT = session.NewAdminBearerTransport(adminAPI)
	} else {
		userT = session.NewUserCookieTransport(userAPI)
		adminT = session.NewAdminCookieTransport(adminAPI)
	}

	app := &App{
		UserAPI:      userAPI,
		AdminAPI:     adminAPI,
		UserSession:  session.NewStore(userT, session.WithLogger(log)),
		AdminSession: session.NewStore(adminT, session.WithLogger(log)),
		profile:      session.NewProfileClient(userAPI),
		log:          log,
	}

	// Any 401/403 on a domain's client logs that domain out; the other
	// domain is untouched.
	userAPI.SetAuthFailureHook(app.UserSession.Invalidate)
	adminAPI.SetAuthFailureHook(app.AdminSession.Invalidate)

	var storage cart.Storage
	switch {
	case cfg.Redis.Addr != "":
		app.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		key := cfg.Redis.Key
		if key == "" {
			key = "storefront:cart"
		}
		storage = cart.NewRedisStore(app.rdb, key, cfg.Redis.TTL)
	case cfg.CartPath != "":
		storage = cart.NewFileStore(cfg.CartPath)
	default:
		storage = cart.NewMemoryStore()
	}
	app.Cart = cart.NewStore(storage, log)

	app.Catalog = catalog.NewClient(userAPI)
	app.Orders = orders.NewClient(userAPI)
	app.Admin = admin.NewClient(adminAPI)

	resolverOpts := []locations.ResolverOption{locations.WithResolverLogger(log)}
	if cfg.Debounce > 0 {
		resolverOpts = append(resolverOpts, locations.WithDebounce(cfg.Debounce))
	}
	if cfg.CityLimit > 0 {
		resolverOpts = append(resolverOpts, locations.WithCityLimit(cfg.CityLimit))
	}
	app.Locations = locations.NewResolver(locations.NewClient(userAPI), resolverOpts...)

	app.Checkout = checkout.NewOrchestrator(app.Cart, app.UserSession, app.Orders,
		checkout.WithOrchestratorLogger(log),
		checkout.WithRoutes(checkout.Routes{
			Login:    cfg.LoginRoute,
			Cart:     cfg.CartRoute,
			Checkout: cfg.CheckoutRoute,
			Success:  cfg.SuccessRoute,
		}))

	return app, nil
}

// Bootstrap resolves both sessions. It never fails; unreachable or rejected
// probes settle as anonymous. Call it before any route guard decision.
func (a *App) Bootstrap(ctx context.Context) {
	a.UserSession.Bootstrap(ctx)
	a.AdminSession.Bootstrap(ctx)
}

// UpdateProfile pushes the changes and swaps the refreshed principal into
// the shopper session.
func (a *App) UpdateProfile(ctx context.Context, upd session.ProfileUpdate) (*session.Principal, error) {
	p, err := a.profile.Update(ctx, upd)
	if err != nil {
		return nil, err
	}
	a.UserSession.Replace(*p)
	return p, nil
}

func (a *App) Close() error {
	a.Locations.Close()
	if a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
