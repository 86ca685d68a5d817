// Package admin is the back-office client: product/category management,
// review moderation, order and user administration, sales figures. Every
// call rides the admin auth domain; the shopper session is never involved.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TechNas12/samruddhi-organic/catalog"
	"github.com/TechNas12/samruddhi-organic/orders"
	"github.com/TechNas12/samruddhi-organic/rest"
)

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  int64           `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	TotalProducts    int `json:"total_products"`
	LowStockProducts int `json:"low_stock_products"`
	TotalOrders      int `json:"total_orders"`
	PendingOrders    int `json:"pending_orders"`
	TotalUsers       int `json:"total_users"`
}

type DailySales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Analytics is backend-computed sales data for a range like "7d" or "30d";
// the client only fetches and displays it.
type Analytics struct {
	Range        string          `json:"range"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Daily        []DailySales    `json:"daily"`
}

type Client struct {
	c *rest.Client
}

func NewClient(c *rest.Client) *Client {
	return &Client{c: c}
}

func (cl *Client) CreateProduct(ctx context.Context, in ProductInput) (*catalog.Product, error) {
	var out catalog.Product
	if err := cl.c.Post(ctx, "/admin/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*catalog.Product, error) {
	var out catalog.Product
	if err := cl.c.Put(ctx, fmt.Sprintf("/admin/products/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) DeleteProduct(ctx context.Context, id int64) error {
	return cl.c.Delete(ctx, fmt.Sprintf("/admin/products/%d", id), nil)
}

func (cl *Client) CreateCategory(ctx context.Context, in CategoryInput) (*catalog.Category, error) {
	var out catalog.Category
	if err := cl.c.Post(ctx, "/admin/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*catalog.Category, error) {
	var out catalog.Category
	if err := cl.c.Put(ctx, fmt.Sprintf("/admin/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) DeleteCategory(ctx context.Context, id int64) error {
	return cl.c.Delete(ctx, fmt.Sprintf("/admin/categories/%d", id), nil)
}

func (cl *Client) Orders(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	if err := cl.c.Get(ctx, "/admin/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cl *Client) SetOrderStatus(ctx context.Context, orderID int64, status orders.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	q := url.Values{"status": {string(status)}}
	return cl.c.Patch(ctx, fmt.Sprintf("/admin/orders/%d/status", orderID), q, nil)
}

func (cl *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := cl.c.Get(ctx, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetUserActive activates or deactivates a shopper account; deactivated
// accounts are refused at login.
func (cl *Client) SetUserActive(ctx context.Context, userID int64, active bool) error {
	q := url.Values{"is_active": {strconv.FormatBool(active)}}
	return cl.c.Patch(ctx, fmt.Sprintf("/admin/users/%d/status", userID), q, nil)
}

// Reviews lists all reviews, including ones still awaiting moderation.
func (cl *Client) Reviews(ctx context.Context) ([]catalog.Review, error) {
	var out []catalog.Review
	if err := cl.c.Get(ctx, "/admin/reviews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cl *Client) ApproveReview(ctx context.Context, reviewID int64) error {
	return cl.c.Put(ctx, fmt.Sprintf("/admin/reviews/%d/approve", reviewID), nil, nil)
}

func (cl *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return cl.c.Delete(ctx, fmt.Sprintf("/admin/reviews/%d", reviewID), nil)
}

func (cl *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := cl.c.Get(ctx, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) Analytics(ctx context.Context, rng string) (*Analytics, error) {
	q := url.Values{}
	if rng != "" {
		q.Set("range", rng)
	}
	var out Analytics
	if err := cl.c.Get(ctx, "/admin/analytics", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
