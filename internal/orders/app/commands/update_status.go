package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
)

// UpdateOrderStatusCommand is the admin path for moving an order through its
// lifecycle. Status arrives as free text; unknown values coerce to pending.
type UpdateOrderStatusCommand struct {
	OrderID   string
	RawStatus string
}

type UpdateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error)
}

type UpdateOrderStatusCommandHandler struct {
	orders ports.OrderRepository
	events ports.EventBus
}

func NewUpdateOrderStatusCommandHandler(orders ports.OrderRepository, events ports.EventBus) *UpdateOrderStatusCommandHandler {
	return &UpdateOrderStatusCommandHandler{orders: orders, events: events}
}

func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	order, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.NotFound("order %s not found", cmd.OrderID)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	status := domain.ParseStatus(cmd.RawStatus)

	if err := order.CanUpdateStatus(status); err != nil {
		return nil, err
	}

	if err := h.orders.UpdateStatus(ctx, cmd.OrderID, status); err != nil {
		return nil, err
	}

	order.Status = status

	if err := h.events.PublishOrderStatusChanged(ctx, order.ID, status); err != nil {
		return order, fmt.Errorf("status updated but failed to publish event: %w", err)
	}

	return order, nil
}
