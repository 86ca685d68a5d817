// Package cart holds the client-local shopping cart: what the shopper
// intends to buy, independent of login state, persisted across reloads.
// Mutations are pure local-state transitions and never fail; every
// mutation writes a snapshot so the next load reconstructs the same cart.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const persistTimeout = 2 * time.Second

// LineItem is one product-quantity pair. A cart holds at most one line
// item per product id; quantity is always >= 1 while the item exists.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Store keeps line items in insertion order (display order). Stock is not
// checked here: the backend re-validates at order submission, any stock
// field seen while browsing is advisory only.
type Store struct {
	mu      sync.RWMutex
	items   []LineItem
	storage Storage
	log     *slog.Logger
}

// NewStore restores the cart from storage when a snapshot exists. A failed
// restore logs and starts empty; it never propagates.
func NewStore(storage Storage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{storage: storage, log: log}
	if storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		snap, err := storage.Load(ctx)
		switch {
		case errors.Is(err, ErrNoSnapshot):
		case err != nil:
			log.Warn("cart restore failed, starting empty", "err", err)
		case snap != nil:
			s.items = snap.Items
		}
	}
	return s
}

// Add appends a new line item, or increments the quantity when the product
// is already in the cart. Quantities below 1 count as 1.
func (s *Store) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			s.persistLocked()
			return
		}
	}
	s.items = append(s.items, item)
	s.persistLocked()
}

// UpdateQuantity sets the quantity for a product; zero or negative removes
// the line item. Unknown product ids are a no-op.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = quantity
		}
		s.persistLocked()
		return
	}
}

func (s *Store) Remove(productID int64) {
	s.UpdateQuantity(productID, 0)
}

// Clear empties the cart. Only the checkout orchestrator calls this, after
// the backend has confirmed order creation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

// Items returns a copy of the line items in display order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// TotalItems is the sum of quantities, recomputed on every call.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, li := range s.items {
		total += li.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, li := range s.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// persistLocked writes the current snapshot. Persistence failures are
// logged and swallowed: cart mutations cannot fail.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	snap := &Snapshot{
		Items:     append([]LineItem(nil), s.items...),
		UpdatedAt: time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, snap); err != nil {
		s.log.Warn("cart persist failed", "items", len(snap.Items), "err", err)
	}
}
