package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechNas12/samruddhi-organic/cart"
	"github.com/TechNas12/samruddhi-organic/guard"
	"github.com/TechNas12/samruddhi-organic/orders"
	"github.com/TechNas12/samruddhi-organic/rest"
	"github.com/TechNas12/samruddhi-organic/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedTransport resolves every probe to the same principal (or rejection).
type fixedTransport struct {
	principal *session.Principal
}

func (f *fixedTransport) Probe(ctx context.Context) (*session.Principal, error) {
	if f.principal == nil {
		return nil, &rest.APIError{StatusCode: 401, Detail: "Not authenticated"}
	}
	return f.principal, nil
}

func (f *fixedTransport) Login(ctx context.Context, creds session.Credentials) (*session.Principal, error) {
	return f.Probe(ctx)
}

func (f *fixedTransport) Logout(ctx context.Context) error { return nil }

func authedSession(t *testing.T, p session.Principal) *session.Store {
	t.Helper()
	s := session.NewStore(&fixedTransport{principal: &p}, session.WithLogger(quietLogger()))
	s.Bootstrap(context.Background())
	require.True(t, s.IsAuthenticated())
	return s
}

func anonSession(t *testing.T) *session.Store {
	t.Helper()
	s := session.NewStore(&fixedTransport{}, session.WithLogger(quietLogger()))
	s.Bootstrap(context.Background())
	return s
}

// mockPlacer records create calls and can be scripted to fail.
type mockPlacer struct {
	mu    sync.Mutex
	calls []struct {
		req orders.CreateRequest
		key string
	}
	err   error
	order *orders.Order
}

func (m *mockPlacer) Create(ctx context.Context, req orders.CreateRequest, idempotencyKey string) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, struct {
		req orders.CreateRequest
		key string
	}{req, idempotencyKey})
	if m.err != nil {
		return nil, m.err
	}
	if m.order != nil {
		return m.order, nil
	}
	return &orders.Order{OrderNumber: "ORD-AB12CD34", TotalAmount: decimal.NewFromInt(398)}, nil
}

func (m *mockPlacer) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.key
	}
	return out
}

func filledCart() *cart.Store {
	c := cart.NewStore(nil, quietLogger())
	c.Add(cart.LineItem{ProductID: 1, Name: "Tulsi Plant", UnitPrice: decimal.NewFromInt(199), Quantity: 2})
	return c
}

func validDraft() Draft {
	return Draft{
		CustomerName: "Asha",
		Phone:        "9999999999",
		Address:      "12 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		Pincode:      "411001",
	}
}

func TestGateAnonymousRedirectsToLoginWithReturn(t *testing.T) {
	o := NewOrchestrator(filledCart(), anonSession(t), &mockPlacer{}, WithOrchestratorLogger(quietLogger()))

	d := o.Gate()
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/login", d.Target)
	assert.Equal(t, "/checkout", d.ReturnTo)
}

func TestGateUnresolvedWaits(t *testing.T) {
	s := session.NewStore(&fixedTransport{}, session.WithLogger(quietLogger()))
	o := NewOrchestrator(filledCart(), s, &mockPlacer{}, WithOrchestratorLogger(quietLogger()))

	assert.Equal(t, guard.Wait, o.Gate().Action)
}

func TestGateEmptyCartRedirectsToCart(t *testing.T) {
	empty := cart.NewStore(nil, quietLogger())
	o := NewOrchestrator(empty, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), &mockPlacer{},
		WithOrchestratorLogger(quietLogger()))

	d := o.Gate()
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/cart", d.Target)
	assert.Empty(t, d.ReturnTo)
}

func TestGateAuthOutranksEmptyCart(t *testing.T) {
	// Anonymous with an empty cart goes to login, not to the cart page.
	empty := cart.NewStore(nil, quietLogger())
	o := NewOrchestrator(empty, anonSession(t), &mockPlacer{}, WithOrchestratorLogger(quietLogger()))

	d := o.Gate()
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/login", d.Target)
}

func TestGateAllowsAuthedNonEmpty(t *testing.T) {
	o := NewOrchestrator(filledCart(), authedSession(t, session.Principal{ID: 1, Name: "Asha"}), &mockPlacer{},
		WithOrchestratorLogger(quietLogger()))
	assert.Equal(t, guard.Allow, o.Gate().Action)
}

func TestDraftSeededFromProfile(t *testing.T) {
	p := session.Principal{
		ID: 1, Name: "Asha", Phone: "9999999999",
		Address: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001",
	}
	o := NewOrchestrator(filledCart(), authedSession(t, p), &mockPlacer{}, WithOrchestratorLogger(quietLogger()))

	d := o.Draft()
	assert.Equal(t, "Asha", d.CustomerName)
	assert.Equal(t, "Pune", d.City)
	assert.Equal(t, "411001", d.Pincode)
	assert.Empty(t, d.Notes)
}

func TestDraftBlankWhenAnonymous(t *testing.T) {
	o := NewOrchestrator(filledCart(), anonSession(t), &mockPlacer{}, WithOrchestratorLogger(quietLogger()))
	assert.Equal(t, Draft{}, o.Draft())
}

func TestDraftValidation(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.Validate())

	d.Phone = "  "
	d.Pincode = ""
	err := d.Validate()

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"phone", "pincode"}, missing.Fields)
}

func TestSubmitSuccessClearsCartOnce(t *testing.T) {
	c := filledCart()
	placer := &mockPlacer{}
	o := NewOrchestrator(c, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	conf, err := o.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "ORD-AB12CD34", conf.Order.OrderNumber)
	assert.Equal(t, "/dashboard", conf.Route)
	assert.True(t, c.IsEmpty())

	require.Len(t, placer.calls, 1)
	req := placer.calls[0].req
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(1), req.Items[0].ProductID)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "Pune", req.City)
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	c := filledCart()
	placer := &mockPlacer{err: &rest.APIError{StatusCode: 400, Detail: "Insufficient stock for Tulsi Plant"}}
	o := NewOrchestrator(c, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	_, err := o.Submit(context.Background(), validDraft())
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Tulsi Plant", rest.Detail(err, ""))
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 2, c.TotalItems())
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	empty := cart.NewStore(nil, quietLogger())
	placer := &mockPlacer{}
	o := NewOrchestrator(empty, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	_, err := o.Submit(context.Background(), validDraft())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, placer.keys())
}

func TestSubmitInvalidDraftNeverCallsBackend(t *testing.T) {
	placer := &mockPlacer{}
	o := NewOrchestrator(filledCart(), authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	_, err := o.Submit(context.Background(), Draft{CustomerName: "Asha"})
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, placer.keys())
}

func TestIdempotencyKeyStableAcrossRetries(t *testing.T) {
	c := filledCart()
	placer := &mockPlacer{err: errors.New("connection reset")}
	o := NewOrchestrator(c, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	_, err := o.Submit(context.Background(), validDraft())
	require.Error(t, err)
	_, err = o.Submit(context.Background(), validDraft())
	require.Error(t, err)

	placer.mu.Lock()
	placer.err = nil
	placer.mu.Unlock()
	_, err = o.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	keys := placer.keys()
	require.Len(t, keys, 3)
	assert.NotEmpty(t, keys[0])
	// Same draft, same key, until the backend confirms.
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, keys[0], keys[2])
}

func TestIdempotencyKeyRotatesAfterSuccess(t *testing.T) {
	c := filledCart()
	placer := &mockPlacer{}
	o := NewOrchestrator(c, authedSession(t, session.Principal{ID: 1, Name: "Asha"}), placer,
		WithOrchestratorLogger(quietLogger()))

	_, err := o.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	c.Add(cart.LineItem{ProductID: 2, Name: "Areca Palm", UnitPrice: decimal.NewFromInt(499), Quantity: 1})
	_, err = o.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	keys := placer.keys()
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCustomRoutes(t *testing.T) {
	routes := Routes{Login: "/signin", Cart: "/basket", Checkout: "/pay", Success: "/thanks"}
	o := NewOrchestrator(filledCart(), anonSession(t), &mockPlacer{},
		WithRoutes(routes), WithOrchestratorLogger(quietLogger()))

	d := o.Gate()
	assert.Equal(t, "/signin", d.Target)
	assert.Equal(t, "/pay", d.ReturnTo)
}
