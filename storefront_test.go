package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechNas12/samruddhi-organic/catalog"
	"github.com/TechNas12/samruddhi-organic/guard"
	"github.com/TechNas12/samruddhi-organic/internal/stubserver"
	"github.com/TechNas12/samruddhi-organic/locations"
	"github.com/TechNas12/samruddhi-organic/orders"
	"github.com/TechNas12/samruddhi-organic/rest"
	"github.com/TechNas12/samruddhi-organic/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newApp(t *testing.T, transport string) *App {
	t.Helper()
	log := quietLogger()
	ts := httptest.NewServer(stubserver.New(log).Router())
	t.Cleanup(ts.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL + "/api"
	cfg.AuthTransport = transport
	cfg.RequestTimeout = 5 * time.Second
	cfg.Debounce = 10 * time.Millisecond

	app, err := New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	app.Bootstrap(context.Background())
	return app
}

func signup(t *testing.T, app *App, name, email string) {
	t.Helper()
	err := app.UserSession.Signup(context.Background(), session.Signup{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Phone:    "9999999999",
	})
	require.NoError(t, err)
	require.True(t, app.UserSession.IsAuthenticated())
}

func adminLogin(t *testing.T, app *App) {
	t.Helper()
	err := app.AdminSession.Login(context.Background(), session.Credentials{
		Username: "admin",
		Password: "admin123",
	})
	require.NoError(t, err)
}

func TestFullShoppingFlow(t *testing.T) {
	for _, transport := range []string{"cookie", "bearer"} {
		t.Run(transport, func(t *testing.T) {
			app := newApp(t, transport)
			ctx := context.Background()

			// Fresh visitor: anonymous after bootstrap, empty cart.
			assert.Equal(t, session.Anonymous, app.UserSession.State())
			assert.True(t, app.Cart.IsEmpty())

			// Browse and fill the cart while anonymous.
			products, err := app.Catalog.Products(ctx, catalog.ListOptions{})
			require.NoError(t, err)
			require.NotEmpty(t, products)

			tulsi, err := app.Catalog.Product(ctx, 1)
			require.NoError(t, err)
			app.Cart.Add(tulsi.LineItem(2))

			// Checkout gate sends the anonymous shopper to login.
			d := app.Checkout.Gate()
			assert.Equal(t, guard.Redirect, d.Action)
			assert.Equal(t, "/login", d.Target)
			assert.Equal(t, "/checkout", d.ReturnTo)

			signup(t, app, "Asha", "asha-"+transport+"@example.com")

			// The cart survived the auth change.
			assert.Equal(t, 2, app.Cart.TotalItems())
			assert.Equal(t, guard.Allow, app.Checkout.Gate().Action)

			draft := app.Checkout.Draft()
			draft.Phone = "9999999999"
			draft.Address = "12 MG Road"
			draft.City = "Pune"
			draft.State = "Maharashtra"
			draft.Pincode = "411001"

			conf, err := app.Checkout.Submit(ctx, draft)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(conf.Order.OrderNumber, "ORD-"))
			assert.Len(t, conf.Order.OrderNumber, 12)
			assert.Equal(t, "/dashboard", conf.Route)
			assert.Equal(t, "398", conf.Order.TotalAmount.String())

			// Cart cleared only now, after backend confirmation.
			assert.True(t, app.Cart.IsEmpty())

			history, err := app.Orders.My(ctx)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, conf.Order.OrderNumber, history[0].OrderNumber)
		})
	}
}

func TestInsufficientStockSurfacesDetailAndKeepsCart(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()
	signup(t, app, "Ravi", "ravi@example.com")

	// Snake Plant is seeded with stock 3.
	snake, err := app.Catalog.Product(ctx, 5)
	require.NoError(t, err)
	app.Cart.Add(snake.LineItem(10))

	draft := app.Checkout.Draft()
	draft.Phone = "9999999999"
	draft.Address = "12 MG Road"
	draft.City = "Pune"
	draft.State = "Maharashtra"
	draft.Pincode = "411001"

	_, err = app.Checkout.Submit(ctx, draft)
	require.Error(t, err)
	assert.True(t, rest.IsValidation(err))
	assert.Equal(t, "Insufficient stock for Snake Plant", rest.Detail(err, ""))
	assert.Equal(t, 10, app.Cart.TotalItems())

	// Reduce the quantity and resubmit manually; now it goes through.
	app.Cart.UpdateQuantity(5, 2)
	conf, err := app.Checkout.Submit(ctx, draft)
	require.NoError(t, err)
	assert.True(t, app.Cart.IsEmpty())
	assert.Equal(t, "698", conf.Order.TotalAmount.String())
}

func TestDuplicateSignupRejected(t *testing.T) {
	app := newApp(t, "bearer")
	signup(t, app, "Asha", "dup@example.com")
	app.UserSession.Logout(context.Background())

	err := app.UserSession.Signup(context.Background(), session.Signup{
		Name:     "Imposter",
		Email:    "dup@example.com",
		Password: "other",
	})
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Email already registered", authErr.Detail)
}

func TestSessionsAreIndependent(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()

	signup(t, app, "Asha", "asha2@example.com")
	adminLogin(t, app)
	require.True(t, app.AdminSession.IsAuthenticated())

	// Logging the shopper out leaves the admin session alone.
	app.UserSession.Logout(ctx)
	assert.Equal(t, session.Anonymous, app.UserSession.State())
	assert.True(t, app.AdminSession.IsAuthenticated())

	// And vice versa.
	err := app.UserSession.Login(ctx, session.Credentials{Email: "asha2@example.com", Password: "secret123"})
	require.NoError(t, err)
	app.AdminSession.Logout(ctx)
	assert.True(t, app.UserSession.IsAuthenticated())
}

func TestDeactivatedAccountRefusedAtLogin(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()

	signup(t, app, "Asha", "asha3@example.com")
	app.UserSession.Logout(ctx)

	adminLogin(t, app)
	users, err := app.Admin.Users(ctx)
	require.NoError(t, err)
	var target int64
	for _, u := range users {
		if u.Email == "asha3@example.com" {
			target = u.ID
		}
	}
	require.NotZero(t, target)
	require.NoError(t, app.Admin.SetUserActive(ctx, target, false))

	err = app.UserSession.Login(ctx, session.Credentials{Email: "asha3@example.com", Password: "secret123"})
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Account is deactivated", authErr.Detail)
}

func TestWrongCredentialsDetail(t *testing.T) {
	app := newApp(t, "cookie")
	err := app.UserSession.Login(context.Background(), session.Credentials{
		Email:    "nobody@example.com",
		Password: "nope",
	})
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Detail)
}

func TestProfileUpdateRefreshesSession(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()
	signup(t, app, "Asha", "asha4@example.com")

	p, err := app.UpdateProfile(ctx, session.ProfileUpdate{
		Address: session.String("12 MG Road"),
		City:    session.String("Pune"),
		State:   session.String("Maharashtra"),
		Pincode: session.String("411001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pune", p.City)

	// The checkout draft now pre-fills from the refreshed principal.
	draft := app.Checkout.Draft()
	assert.Equal(t, "Pune", draft.City)
	assert.Equal(t, "411001", draft.Pincode)
	// Name untouched: nil pointer means leave unchanged.
	assert.Equal(t, "Asha", draft.CustomerName)
}

func TestLocationTypeahead(t *testing.T) {
	app := newApp(t, "cookie")
	ctx := context.Background()

	states, err := app.Locations.States(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 4)

	filtered := app.Locations.FilterStates("maha")
	require.Len(t, filtered, 1)
	app.Locations.SelectState(filtered[0])
	assert.Equal(t, "MH", app.Locations.Selection().StateCode)

	cities, err := locations.NewClient(app.UserAPI).Cities(ctx, "MH", "pun", 20)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Pune", cities[0].Name)
}

func TestAdminCatalogManagement(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()
	adminLogin(t, app)

	stats, err := app.Admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockProducts)

	// Moderation: the seeded unapproved review is invisible publicly.
	public, err := app.Catalog.Reviews(ctx, 0)
	require.NoError(t, err)
	all, err := app.Admin.Reviews(ctx)
	require.NoError(t, err)
	assert.Greater(t, len(all), len(public))

	require.NoError(t, app.Admin.ApproveReview(ctx, 2))
	public, err = app.Catalog.Reviews(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, public, len(all))
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	app := newApp(t, "bearer")
	ctx := context.Background()

	signup(t, app, "Asha", "asha5@example.com")
	tulsi, err := app.Catalog.Product(ctx, 1)
	require.NoError(t, err)
	app.Cart.Add(tulsi.LineItem(1))

	draft := app.Checkout.Draft()
	draft.Phone = "9999999999"
	draft.Address = "12 MG Road"
	draft.City = "Pune"
	draft.State = "Maharashtra"
	draft.Pincode = "411001"
	conf, err := app.Checkout.Submit(ctx, draft)
	require.NoError(t, err)

	adminLogin(t, app)
	list, err := app.Admin.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, orders.StatusPending, list[0].Status)

	require.NoError(t, app.Admin.SetOrderStatus(ctx, list[0].ID, orders.StatusShipped))

	err = app.Admin.SetOrderStatus(ctx, list[0].ID, orders.Status("teleported"))
	require.Error(t, err)

	history, err := app.Orders.My(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, conf.Order.OrderNumber, history[0].OrderNumber)
	assert.Equal(t, orders.StatusShipped, history[0].Status)
}
