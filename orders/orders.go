// Package orders covers order placement and the caller's order history.
package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TechNas12/samruddhi-organic/rest"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Pincode      string          `json:"pincode"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       Status          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []Item          `json:"items"`
}

type RequestItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateRequest is the order-placement body: the cart snapshot taken at
// submission time plus the delivery details.
type CreateRequest struct {
	Items        []RequestItem `json:"items"`
	CustomerName string        `json:"customer_name"`
	Phone        string        `json:"phone"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	State        string        `json:"state"`
	Pincode      string        `json:"pincode"`
	Notes        string        `json:"notes,omitempty"`
}

type Client struct {
	c *rest.Client
}

func NewClient(c *rest.Client) *Client {
	return &Client{c: c}
}

// Create places an order. The idempotency key rides an Idempotency-Key
// header; backends that honor it return the already-created order for a
// resubmitted key instead of creating a duplicate.
func (cl *Client) Create(ctx context.Context, req CreateRequest, idempotencyKey string) (*Order, error) {
	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{"Idempotency-Key": {idempotencyKey}}
	}
	var out Order
	if err := cl.c.Do(ctx, http.MethodPost, "/orders", nil, header, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// My lists the caller's orders, newest first.
func (cl *Client) My(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := cl.c.Get(ctx, "/orders/my-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
