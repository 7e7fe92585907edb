package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/storefront/internal/apperr"
	catalogports "github.com/example/storefront/internal/catalog/ports"
	"github.com/example/storefront/internal/orders/app/commands"
	ordersdomain "github.com/example/storefront/internal/orders/domain"
)

// OrderPlacer is the slice of the orders service checkout needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*ordersdomain.Order, error)
}

// Service drives cart mutations and checkout.
type Service struct {
	store    Store
	products catalogports.ProductRepository
	orders   OrderPlacer
	logger   *slog.Logger
}

func NewService(store Store, products catalogports.ProductRepository, orders OrderPlacer, logger *slog.Logger) *Service {
	return &Service{store: store, products: products, orders: orders, logger: logger}
}

// GetCart returns the cart for a session, empty if none exists.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// AddItem adds a product to the cart after checking it exists and has stock
// to cover the resulting quantity.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, err
	}

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := product.CanPurchase(c.Lines[productID] + quantity); err != nil {
		return nil, err
	}

	c.Add(productID, quantity)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Lines[productID]; !ok {
		return nil, apperr.NotFound("product %d is not in the cart", productID)
	}

	if quantity > 0 {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, apperr.NotFound("product %d not found", productID)
			}
			return nil, err
		}
		if err := product.CanPurchase(quantity); err != nil {
			return nil, err
		}
	}

	c.SetQuantity(productID, quantity)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem drops a product from the cart.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Cart, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart empties the session's cart.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// CheckoutRequest carries the customer details collected at checkout.
type CheckoutRequest struct {
	UserID          int64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   string
}

// Checkout materializes the cart into an order. The cart is cleared only
// after the order is persisted; a failed checkout leaves it intact.
func (s *Service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*ordersdomain.Order, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperr.Validation("cart is empty")
	}

	cmd := commands.PlaceOrderCommand{
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, line := range c.Items() {
		cmd.Lines = append(cmd.Lines, commands.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	order, err := s.orders.PlaceOrder(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))
	}
	return order, nil
}
