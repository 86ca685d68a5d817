package session

import (
	"context"
	"errors"

	"github.com/TechNas12/samruddhi-organic/rest"
)

// Credentials is a login request. The user domain authenticates by email,
// the admin domain by username; the unused field stays empty.
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type Signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// Transport is the credential-exchange capability behind a Store. Cookie
// and bearer implementations exist; page logic never sees the difference.
type Transport interface {
	// Probe resolves the current identity ("who am I"). A rejected or
	// absent credential yields an error classified by rest.IsAuth.
	Probe(ctx context.Context) (*Principal, error)
	Login(ctx context.Context, creds Credentials) (*Principal, error)
	Logout(ctx context.Context) error
}

// SignupTransport is implemented by transports whose domain allows
// self-registration.
type SignupTransport interface {
	Signup(ctx context.Context, data Signup) error
}

// Endpoints are the backend paths for one auth domain.
type Endpoints struct {
	Me      string
	Login   string
	Logout  string
	Signup  string
	Profile string
}

func UserEndpoints() Endpoints {
	return Endpoints{
		Me:      "/auth/me",
		Login:   "/auth/login",
		Logout:  "/auth/logout",
		Signup:  "/auth/signup",
		Profile: "/auth/profile",
	}
}

func AdminEndpoints() Endpoints {
	return Endpoints{
		Me:     "/admin/me",
		Login:  "/admin/login",
		Logout: "/auth/logout",
	}
}

// adminPayload is how the backend wraps the admin identity.
type adminPayload struct {
	Admin *adminPrincipal `json:"admin"`
}

type adminPrincipal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (a *adminPrincipal) principal() *Principal {
	return &Principal{ID: a.ID, Name: a.Username, Role: "admin"}
}

var errEmptyIdentity = errors.New("backend returned no identity")

// CookieTransport authenticates via an httpOnly session cookie held in the
// rest client's jar. Login does not return the full profile, so a
// successful credential exchange is followed by a fresh probe.
type CookieTransport struct {
	c     *rest.Client
	ep    Endpoints
	admin bool
}

func NewUserCookieTransport(c *rest.Client) *CookieTransport {
	return &CookieTransport{c: c, ep: UserEndpoints()}
}

func NewAdminCookieTransport(c *rest.Client) *CookieTransport {
	return &CookieTransport{c: c, ep: AdminEndpoints(), admin: true}
}

func (t *CookieTransport) Probe(ctx context.Context) (*Principal, error) {
	return probe(ctx, t.c, t.ep.Me, t.admin)
}

func (t *CookieTransport) Login(ctx context.Context, creds Credentials) (*Principal, error) {
	if err := t.c.Post(ctx, t.ep.Login, creds, nil); err != nil {
		return nil, err
	}
	return t.Probe(ctx)
}

func (t *CookieTransport) Logout(ctx context.Context) error {
	return t.c.Post(ctx, t.ep.Logout, nil, nil)
}

func (t *CookieTransport) Signup(ctx context.Context, data Signup) error {
	if t.admin {
		return ErrNotSupported
	}
	return t.c.Post(ctx, t.ep.Signup, data, nil)
}

// BearerTransport is the legacy header-token variant: login returns a token
// that is stored on the rest client and attached as an Authorization
// header. Logout is a pure local token discard; a 401 on probe drops the
// token (implicit logout).
type BearerTransport struct {
	c     *rest.Client
	ep    Endpoints
	admin bool
}

func NewUserBearerTransport(c *rest.Client) *BearerTransport {
	return &BearerTransport{c: c, ep: UserEndpoints()}
}

func NewAdminBearerTransport(c *rest.Client) *BearerTransport {
	return &BearerTransport{c: c, ep: AdminEndpoints(), admin: true}
}

func (t *BearerTransport) Probe(ctx context.Context) (*Principal, error) {
	if t.c.Token() == "" {
		return nil, &rest.APIError{StatusCode: 401, Detail: "no token"}
	}
	p, err := probe(ctx, t.c, t.ep.Me, t.admin)
	if rest.IsAuth(err) {
		t.c.ClearToken()
	}
	return p, err
}

func (t *BearerTransport) Login(ctx context.Context, creds Credentials) (*Principal, error) {
	var out struct {
		Token string          `json:"token"`
		User  *Principal      `json:"user"`
		Admin *adminPrincipal `json:"admin"`
	}
	if err := t.c.Post(ctx, t.ep.Login, creds, &out); err != nil {
		return nil, err
	}
	t.c.SetToken(out.Token)
	// The login payload is a slim identity; re-probe for the full profile.
	if p, err := t.Probe(ctx); err == nil && p != nil {
		return p, nil
	}
	if t.admin && out.Admin != nil {
		return out.Admin.principal(), nil
	}
	if out.User != nil {
		return out.User, nil
	}
	return nil, errEmptyIdentity
}

func (t *BearerTransport) Logout(ctx context.Context) error {
	t.c.ClearToken()
	return nil
}

func (t *BearerTransport) Signup(ctx context.Context, data Signup) error {
	if t.admin {
		return ErrNotSupported
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := t.c.Post(ctx, t.ep.Signup, data, &out); err != nil {
		return err
	}
	if out.Token != "" {
		t.c.SetToken(out.Token)
	}
	return nil
}

func probe(ctx context.Context, c *rest.Client, mePath string, admin bool) (*Principal, error) {
	if admin {
		var out adminPayload
		if err := c.Get(ctx, mePath, nil, &out); err != nil {
			return nil, err
		}
		if out.Admin == nil {
			return nil, errEmptyIdentity
		}
		return out.Admin.principal(), nil
	}
	var p Principal
	if err := c.Get(ctx, mePath, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
