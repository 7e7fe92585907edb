package queries

import (
	"context"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
)

// ListUserOrdersQuery requests a user's order history, newest first.
type ListUserOrdersQuery struct {
	UserID int64
}

type ListUserOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListUserOrdersQueryHandler(repo ports.OrderRepository) *ListUserOrdersQueryHandler {
	return &ListUserOrdersQueryHandler{repo: repo}
}

func (h *ListUserOrdersQueryHandler) Handle(ctx context.Context, query ListUserOrdersQuery) ([]domain.Order, error) {
	if query.UserID <= 0 {
		return nil, apperr.Validation("user id is required")
	}
	return h.repo.GetByUser(ctx, query.UserID)
}

// ListOrdersQuery requests all orders (admin), optionally filtered by status.
type ListOrdersQuery struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}

type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	return h.repo.List(ctx, ports.ListFilter{
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}
