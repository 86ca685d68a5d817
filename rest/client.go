// Package rest is the low-level HTTP client for the storefront backend.
//
// Every call speaks JSON, carries credentials (session cookie or bearer
// token, depending on how the deployment is configured) and decodes the
// backend's error envelope, a JSON body with a "detail" string field.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	hc      *http.Client
	log     *slog.Logger

	mu         sync.RWMutex
	token      string
	onAuthFail func()
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying client entirely. The caller is
// responsible for installing a cookie jar if cookie auth is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// NewClient builds a client rooted at baseURL (e.g. "https://shop.example/api").
// A cookie jar is always installed so the cookie auth variant works out of
// the box; the bearer variant simply never receives a Set-Cookie.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   defaultTimeout,
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken installs a bearer token attached to every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

// SetAuthFailureHook registers a callback invoked whenever the backend
// answers 401 or 403. Session stores use it to drop local state the moment
// any authenticated call is rejected.
func (c *Client) SetAuthFailureHook(fn func()) {
	c.mu.Lock()
	c.onAuthFail = fn
	c.mu.Unlock()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodPatch, path, query, nil, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil, out)
}

// Do issues one request. Non-2xx responses come back as *APIError carrying
// the backend's detail string; transport failures come back wrapped, with
// no *APIError in the chain (see IsNetwork).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, header http.Header, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if decErr := json.NewDecoder(res.Body).Decode(&envelope); decErr == nil {
			apiErr.Detail = envelope.Detail
		}
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			c.authFailed()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) authFailed() {
	c.mu.RLock()
	fn := c.onAuthFail
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
