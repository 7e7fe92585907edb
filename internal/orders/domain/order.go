package domain

import (
	"strings"
	"time"

	"github.com/example/storefront/internal/apperr"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipping   OrderStatus = "shipping"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseStatus maps a free-text status to an OrderStatus. Unrecognized input
// falls back to StatusPending, matching the persisted-data contract.
func ParseStatus(raw string) OrderStatus {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusProcessing:
		return StatusProcessing
	case StatusShipping:
		return StatusShipping
	case StatusDelivered:
		return StatusDelivered
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// OrderItem is one line of an order. ProductName and ProductPriceCents are
// snapshots taken from the catalog at purchase time, not live references.
type OrderItem struct {
	ID                int64  `json:"id"`
	OrderID           string `json:"order_id"`
	ProductID         int64  `json:"product_id"`
	ProductName       string `json:"product_name"`
	ProductPriceCents int64  `json:"product_price_cents"`
	Quantity          int    `json:"quantity"`
}

// Subtotal is always derived from the snapshot price and quantity.
func (i OrderItem) Subtotal() int64 {
	return i.ProductPriceCents * int64(i.Quantity)
}

// Order represents a purchase request and exclusively owns its items.
type Order struct {
	ID               string      `json:"id"`
	UserID           int64       `json:"user_id"`
	CustomerName     string      `json:"customer_name"`
	CustomerPhone    string      `json:"customer_phone"`
	CustomerAddress  string      `json:"customer_address"`
	PaymentMethod    string      `json:"payment_method"`
	TotalAmountCents int64       `json:"total_amount_cents"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	Items            []OrderItem `json:"items"`
}

// AddItem appends a line item, stamping it with the order id.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
}

// CalculateTotal recomputes the total from item subtotals, overriding any
// previously supplied amount.
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.TotalAmountCents = total
	return total
}

// ValidateCustomer checks the customer-supplied details. These rules run
// before any catalog lookup, so a bad field is reported ahead of any stock
// problem.
func (o Order) ValidateCustomer() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return apperr.Validation("customer name must not be empty")
	}
	if strings.TrimSpace(o.CustomerPhone) == "" {
		return apperr.Validation("customer phone must not be empty")
	}
	if strings.TrimSpace(o.CustomerAddress) == "" {
		return apperr.Validation("customer address must not be empty")
	}
	return nil
}

// Validate checks the order's business constraints in a fixed sequence.
// The first failing rule wins.
func (o Order) Validate() error {
	if err := o.ValidateCustomer(); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}
	if o.TotalAmountCents <= 0 {
		return apperr.Validation("order total must be positive")
	}
	return nil
}

// CanCancel reports whether the order may still be cancelled.
func (o Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// CanUpdateStatus rejects transitions out of terminal states. It does not
// impose forward-only ordering between the non-terminal states.
func (o Order) CanUpdateStatus(OrderStatus) error {
	switch o.Status {
	case StatusCancelled:
		return apperr.Conflict("cannot update a cancelled order")
	case StatusDelivered:
		return apperr.Conflict("cannot update a delivered order")
	default:
		return nil
	}
}

// IsTerminal indicates whether the order is in a terminal state.
func (o Order) IsTerminal() bool {
	return o.Status == StatusCancelled || o.Status == StatusDelivered
}
