package domain

import (
	"strings"
	"time"

	"github.com/example/storefront/internal/apperr"
)

// Product is a catalog entry. StockQuantity is mutated only through the
// repository's stock operations.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"price_cents"`
	CategoryID    int64     `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int       `json:"stock_quantity"`
	Bestseller    bool      `json:"bestseller"`
	CreatedAt     time.Time `json:"created_at"`
}

// Available reports whether the product has any stock left.
func (p Product) Available() bool {
	return p.StockQuantity > 0
}

// CanPurchase checks whether the given quantity can currently be bought.
func (p Product) CanPurchase(quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	if !p.Available() {
		return apperr.Conflict("product is out of stock")
	}
	if quantity > p.StockQuantity {
		return apperr.Conflict("only %d left in stock", p.StockQuantity)
	}
	return nil
}

// Validate checks constraints for admin create/update operations.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("product name must not be empty")
	}
	if p.PriceCents <= 0 {
		return apperr.Validation("product price must be positive")
	}
	if p.StockQuantity < 0 {
		return apperr.Validation("stock quantity must not be negative")
	}
	return nil
}
