package cart

import (
	"context"
	"sort"
)

// Cart is a session-scoped mapping from product id to quantity. It knows
// nothing about prices or stock; those are resolved at checkout.
type Cart struct {
	SessionID string          `json:"session_id"`
	Lines     map[int64]int   `json:"lines"`
}

// New returns an empty cart for the session.
func New(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Lines:     make(map[int64]int),
	}
}

// Add increases the quantity for a product.
func (c *Cart) Add(productID int64, quantity int) {
	if quantity <= 0 {
		return
	}
	if c.Lines == nil {
		c.Lines = make(map[int64]int)
	}
	c.Lines[productID] += quantity
}

// SetQuantity pins a product's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		delete(c.Lines, productID)
		return
	}
	if c.Lines == nil {
		c.Lines = make(map[int64]int)
	}
	c.Lines[productID] = quantity
}

// Remove drops a product from the cart.
func (c *Cart) Remove(productID int64) {
	delete(c.Lines, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = make(map[int64]int)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line is a deterministic view of one cart entry.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Items returns the cart lines sorted by product id.
func (c *Cart) Items() []Line {
	lines := make([]Line, 0, len(c.Lines))
	for productID, quantity := range c.Lines {
		lines = append(lines, Line{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// Store persists carts keyed by session id. A missing session yields an
// empty cart, never an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
