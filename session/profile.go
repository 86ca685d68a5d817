package session

import (
	"context"

	"github.com/TechNas12/samruddhi-organic/rest"
)

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged"; the explicit record replaces the scattered
// undefined-coalesces-to-empty handling of older clients.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
}

// ProfileClient updates the stored user profile (PUT /auth/profile).
type ProfileClient struct {
	c    *rest.Client
	path string
}

func NewProfileClient(c *rest.Client) *ProfileClient {
	return &ProfileClient{c: c, path: UserEndpoints().Profile}
}

// Update submits the changes and returns the refreshed principal.
func (pc *ProfileClient) Update(ctx context.Context, upd ProfileUpdate) (*Principal, error) {
	var p Principal
	if err := pc.c.Put(ctx, pc.path, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// String is a convenience for building ProfileUpdate literals.
func String(s string) *string { return &s }
