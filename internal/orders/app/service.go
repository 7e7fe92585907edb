package app

import (
	"context"
	"log/slog"

	catalogports "github.com/example/storefront/internal/catalog/ports"
	"github.com/example/storefront/internal/orders/app/commands"
	"github.com/example/storefront/internal/orders/app/queries"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/metrics"
	"github.com/example/storefront/internal/orders/ports"
)

// Service bundles order use cases for the API layer.
type Service struct {
	placeOrderHandler   commands.PlaceOrderHandler
	cancelOrderHandler  commands.CancelOrderHandler
	updateStatusHandler commands.UpdateOrderStatusHandler
	getOrderHandler     *queries.GetOrderQueryHandler
	listUserHandler     *queries.ListUserOrdersQueryHandler
	listAllHandler      *queries.ListOrdersQueryHandler
	idemStore           ports.IdempotencyStore
}

// NewService wires required dependencies, decorating the command handlers
// with tracing, logging and metrics.
func NewService(
	orders ports.OrderRepository,
	products catalogports.ProductRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		placeOrderHandler: commands.NewObservablePlaceOrderHandler(
			commands.NewPlaceOrderCommandHandler(orders, products, events), logger, metrics),
		cancelOrderHandler: commands.NewObservableCancelOrderHandler(
			commands.NewCancelOrderCommandHandler(orders, events), logger, metrics),
		updateStatusHandler: commands.NewObservableUpdateStatusHandler(
			commands.NewUpdateOrderStatusCommandHandler(orders, events), logger, metrics),
		getOrderHandler: queries.NewGetOrderQueryHandler(orders),
		listUserHandler: queries.NewListUserOrdersQueryHandler(orders),
		listAllHandler:  queries.NewListOrdersQueryHandler(orders),
		idemStore:       idem,
	}
}

// PlaceOrder runs the checkout workflow: validation, stock check, id
// generation, atomic persistence with stock decrement.
func (s *Service) PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*domain.Order, error) {
	return s.placeOrderHandler.Handle(ctx, cmd)
}

// CancelOrder cancels a pending or processing order owned by the user and
// restores its stock.
func (s *Service) CancelOrder(ctx context.Context, orderID string, userID int64) (*domain.Order, error) {
	return s.cancelOrderHandler.Handle(ctx, commands.CancelOrderCommand{OrderID: orderID, UserID: userID})
}

// UpdateOrderStatus moves an order through its lifecycle (admin).
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, rawStatus string) (*domain.Order, error) {
	return s.updateStatusHandler.Handle(ctx, commands.UpdateOrderStatusCommand{OrderID: orderID, RawStatus: rawStatus})
}

// GetOrder retrieves an order with its items.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListUserOrders returns a user's order history, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.listUserHandler.Handle(ctx, queries.ListUserOrdersQuery{UserID: userID})
}

// ListOrders returns all orders for the admin view.
func (s *Service) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]domain.Order, error) {
	return s.listAllHandler.Handle(ctx, query)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
