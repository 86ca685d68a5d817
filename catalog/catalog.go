// Package catalog reads the public store surface: products, categories and
// approved reviews.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TechNas12/samruddhi-organic/cart"
	"github.com/TechNas12/samruddhi-organic/rest"
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	// Stock is advisory: it can change between browse and checkout, and
	// the backend re-validates at order submission.
	Stock      int       `json:"stock"`
	ImageURL   string    `json:"image_url"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
}

// LineItem converts a product into a cart line item.
func (p Product) LineItem(quantity int) cart.LineItem {
	return cart.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	}
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Review struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewRequest submits a review; it awaits moderation before showing up
// in public listings. Rating must be 1..5 (backend-enforced).
type ReviewRequest struct {
	ProductID    int64  `json:"product_id,omitempty"`
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

// ListOptions filter product listings. Zero values mean no filter.
type ListOptions struct {
	CategoryID int64
	Featured   bool
}

type Client struct {
	c *rest.Client
}

func NewClient(c *rest.Client) *Client {
	return &Client{c: c}
}

func (cl *Client) Products(ctx context.Context, opts ListOptions) ([]Product, error) {
	q := url.Values{}
	if opts.CategoryID > 0 {
		q.Set("category_id", strconv.FormatInt(opts.CategoryID, 10))
	}
	if opts.Featured {
		q.Set("featured", "true")
	}
	var out []Product
	if err := cl.c.Get(ctx, "/products", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches one product. A missing id comes back as a 404 the caller
// can detect with rest.IsNotFound and turn into a fallback-listing
// redirect.
func (cl *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := cl.c.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := cl.c.Get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews lists approved reviews, optionally for one product.
func (cl *Client) Reviews(ctx context.Context, productID int64) ([]Review, error) {
	q := url.Values{}
	if productID > 0 {
		q.Set("product_id", strconv.FormatInt(productID, 10))
	}
	var out []Review
	if err := cl.c.Get(ctx, "/reviews", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cl *Client) SubmitReview(ctx context.Context, req ReviewRequest) (*Review, error) {
	var out Review
	if err := cl.c.Post(ctx, "/reviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
