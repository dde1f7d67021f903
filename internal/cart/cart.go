// Package cart implements the session-scoped shopping cart: a
// product-quantity map with serialized mutations and catalog-priced
// totals.
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/reliwe/storefront/internal/models"
)

const (
	// FreeShippingThreshold is inclusive: a subtotal of exactly 200
	// ships free.
	FreeShippingThreshold = 200.0
	FlatShippingRate      = 15.0
)

// ErrInvalidQuantity is returned by Add for non-positive quantities.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Catalog is the external price/status lookup used by Totals.
type Catalog interface {
	FindActiveByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

// Cart holds one session's lines. All mutations take the cart mutex,
// so two simultaneous tabs adding the same item both land.
type Cart struct {
	mu    sync.Mutex
	items map[int64]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[int64]int)}
}

// Add increments an existing line or creates one.
func (c *Cart) Add(productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[productID] += qty
	return nil
}

// SetQuantity replaces a line's quantity; qty <= 0 removes the line.
// Zero or negative quantities are never stored.
func (c *Cart) SetQuantity(productID int64, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty <= 0 {
		delete(c.items, productID)
		return
	}
	c.items[productID] = qty
}

// Remove deletes a line if present, else no-op.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int64]int)
}

// Count returns the total item count across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, qty := range c.items {
		total += qty
	}
	return total
}

// Quantity returns the quantity for one product, 0 if absent.
func (c *Cart) Quantity(productID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[productID]
}

// Items returns a copy of the lines.
func (c *Cart) Items() map[int64]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]int, len(c.items))
	for id, qty := range c.items {
		out[id] = qty
	}
	return out
}

// Line is one priced cart row.
type Line struct {
	Product   models.Product
	Quantity  int
	LineTotal float64
}

// Summary is the priced view of a cart.
type Summary struct {
	Lines    []Line
	Subtotal float64
	Shipping float64
	Total    float64
}

// Totals prices the cart against the catalog. Lines whose product is
// missing or not active are silently excluded, not errors. Shipping
// is free at or above the threshold, otherwise flat rate; an empty
// result still carries the flat rate the same way a subtotal of zero
// does.
func (c *Cart) Totals(ctx context.Context, catalog Catalog) (Summary, error) {
	items := c.Items()

	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	found, err := catalog.FindActiveByIDs(ctx, ids)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, id := range ids {
		product, ok := found[id]
		if !ok {
			continue
		}
		qty := items[id]
		lineTotal := product.Price * float64(qty)
		sum.Subtotal += lineTotal
		sum.Lines = append(sum.Lines, Line{Product: product, Quantity: qty, LineTotal: lineTotal})
	}

	if sum.Subtotal >= FreeShippingThreshold {
		sum.Shipping = 0
	} else {
		sum.Shipping = FlatShippingRate
	}
	sum.Total = sum.Subtotal + sum.Shipping
	return sum, nil
}
