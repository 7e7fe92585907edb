package ports

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the order
// workflow. Create, Cancel and UpdateStatus are atomic units: an order header
// is never persisted without its items, stock never moves without the
// matching status write, and status transitions are re-validated against the
// currently stored row.
type OrderRepository interface {
	// Create persists the order with its items and decrements stock for
	// every purchased product in one transaction. It fails with a conflict
	// when stock is insufficient at commit time.
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	// UpdateStatus re-reads the stored status, applies the terminal-state
	// guard, then writes the new status.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// Cancel re-validates cancellability, marks the order cancelled and
	// restores stock for every item in one transaction.
	Cancel(ctx context.Context, id string) error
}

// ListFilter narrows list queries by status and pagination.
type ListFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

// EventBus defines the contract for publishing order lifecycle events.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, orderID string) error
	PublishOrderCancelled(ctx context.Context, orderID string) error
	PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
)
