// Package locations assists address entry with state and city typeahead
// backed by the backend's location service, without flooding it with
// requests. Lookups only assist: free-text entry always stays possible.
package locations

import (
	"context"
	"net/url"
	"strconv"

	"github.com/TechNas12/samruddhi-organic/rest"
)

type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Service is the remote location lookup surface.
type Service interface {
	States(ctx context.Context) ([]State, error)
	Cities(ctx context.Context, stateCode, query string, limit int) ([]City, error)
}

// Client is the REST-backed Service.
type Client struct {
	c *rest.Client
}

func NewClient(c *rest.Client) *Client {
	return &Client{c: c}
}

func (cl *Client) States(ctx context.Context) ([]State, error) {
	var out []State
	if err := cl.c.Get(ctx, "/locations/states", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cl *Client) Cities(ctx context.Context, stateCode, query string, limit int) ([]City, error) {
	q := url.Values{
		"state_code": {stateCode},
		"q":          {query},
		"limit":      {strconv.Itoa(limit)},
	}
	var out []City
	if err := cl.c.Get(ctx, "/locations/cities", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
