// Package session owns the authentication lifecycle for one principal
// domain. The storefront runs two independent stores, one for the shopper
// and one for the back-office admin; neither implies the other.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/TechNas12/samruddhi-organic/rest"
)

// State is the resolution state of a session store.
//
// Unresolved means the startup probe has not settled yet; route guards must
// not decide anything while a store is Unresolved.
type State int

const (
	Unresolved State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Principal is an authenticated identity, opaque beyond id/name/role plus
// the stored delivery profile. Absent backend fields decode to "".
type Principal struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Role    string `json:"role,omitempty"`
}

// AuthError is a credential rejection surfaced to the user. Detail is the
// backend's message verbatim when present.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string { return e.Detail }

// ErrNotSupported is returned for operations the configured transport does
// not offer, e.g. signup on the admin domain.
var ErrNotSupported = errors.New("operation not supported by session transport")

type Store struct {
	transport Transport
	log       *slog.Logger

	mu        sync.RWMutex
	state     State
	principal Principal
}

type StoreOption func(*Store)

func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func NewStore(t Transport, opts ...StoreOption) *Store {
	s := &Store{
		transport: t,
		log:       slog.Default(),
		state:     Unresolved,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap silently resolves the current identity at startup. It never
// fails: a rejected or unreachable probe settles the store as Anonymous.
// Callers must not make routing decisions before Bootstrap returns.
func (s *Store) Bootstrap(ctx context.Context) {
	p, err := s.transport.Probe(ctx)
	if err != nil || p == nil {
		if err != nil && !rest.IsAuth(err) {
			s.log.Debug("session probe failed", "err", err)
		}
		s.set(Anonymous, Principal{})
		return
	}
	s.set(Authenticated, *p)
}

// Login exchanges credentials for an identity. Credential rejections come
// back as *AuthError carrying the backend's detail; transport failures pass
// through unchanged. The store is only mutated on success.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	p, err := s.transport.Login(ctx, creds)
	if err != nil {
		if rest.IsAuth(err) || rest.IsValidation(err) {
			return &AuthError{Detail: rest.Detail(err, "invalid credentials")}
		}
		return err
	}
	s.set(Authenticated, *p)
	return nil
}

// Signup registers a new account and, when the backend auto-logs the new
// user in, resolves the session. Only the user domain supports it.
func (s *Store) Signup(ctx context.Context, data Signup) error {
	st, ok := s.transport.(SignupTransport)
	if !ok {
		return ErrNotSupported
	}
	if err := st.Signup(ctx, data); err != nil {
		if rest.IsAuth(err) || rest.IsValidation(err) {
			return &AuthError{Detail: rest.Detail(err, "signup failed")}
		}
		return err
	}
	// Signup may or may not establish a session; probe to find out.
	if p, err := s.transport.Probe(ctx); err == nil && p != nil {
		s.set(Authenticated, *p)
	}
	return nil
}

// Logout invalidates the session. The remote call is best-effort: local
// state is cleared even when the network call fails, so logout is always
// effective on this device.
func (s *Store) Logout(ctx context.Context) {
	if err := s.transport.Logout(ctx); err != nil {
		s.log.Warn("remote logout failed, clearing local session anyway", "err", err)
	}
	s.set(Anonymous, Principal{})
}

// Invalidate downgrades an authenticated session to anonymous. Wired as the
// rest client's auth-failure hook so any 401/403 logs the domain out.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated {
		s.state = Anonymous
		s.principal = Principal{}
	}
}

// Replace swaps the stored principal, e.g. after a profile update.
func (s *Store) Replace(p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated {
		s.principal = p
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == Authenticated
}

func (s *Store) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal, s.state == Authenticated
}

func (s *Store) set(state State, p Principal) {
	s.mu.Lock()
	s.state = state
	s.principal = p
	s.mu.Unlock()
}
