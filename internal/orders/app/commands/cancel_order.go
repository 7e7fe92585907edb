package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
)

// CancelOrderCommand requests cancellation of an order on behalf of a user.
type CancelOrderCommand struct {
	OrderID string
	UserID  int64
}

type CancelOrderHandler interface {
	Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error)
}

type CancelOrderCommandHandler struct {
	orders ports.OrderRepository
	events ports.EventBus
}

func NewCancelOrderCommandHandler(orders ports.OrderRepository, events ports.EventBus) *CancelOrderCommandHandler {
	return &CancelOrderCommandHandler{orders: orders, events: events}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	order, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.NotFound("order %s not found", cmd.OrderID)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	if order.UserID != cmd.UserID {
		return nil, apperr.Validation("order does not belong to this user")
	}

	if !order.CanCancel() {
		return nil, apperr.Conflict("cannot cancel order in status %s", order.Status)
	}

	// The repository restores stock for every item in the same transaction
	// that writes the cancelled status, after re-checking cancellability
	// under lock.
	if err := h.orders.Cancel(ctx, cmd.OrderID); err != nil {
		return nil, err
	}

	order.Status = domain.StatusCancelled

	if err := h.events.PublishOrderCancelled(ctx, order.ID); err != nil {
		return order, fmt.Errorf("order cancelled but failed to publish event: %w", err)
	}

	return order, nil
}
