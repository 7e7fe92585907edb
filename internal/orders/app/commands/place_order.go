package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/storefront/internal/apperr"
	catalogports "github.com/example/storefront/internal/catalog/ports"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
	"github.com/google/uuid"
)

// PlaceOrderCommand carries checkout details plus the materialized cart
// lines. Quantities come from the client; prices and names never do.
type PlaceOrderCommand struct {
	UserID          int64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   string
	Lines           []OrderLine
}

// OrderLine references a product and the desired quantity.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

type PlaceOrderCommandHandler struct {
	orders   ports.OrderRepository
	products catalogports.ProductRepository
	events   ports.EventBus
}

func NewPlaceOrderCommandHandler(
	orders ports.OrderRepository,
	products catalogports.ProductRepository,
	events ports.EventBus,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		orders:   orders,
		products: products,
		events:   events,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	order := domain.Order{
		UserID:          cmd.UserID,
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		CustomerAddress: cmd.CustomerAddress,
		PaymentMethod:   cmd.PaymentMethod,
		Status:          domain.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = "cod"
	}

	// Customer details are checked before any catalog lookup so a bad field
	// is reported ahead of a stock problem.
	if err := order.ValidateCustomer(); err != nil {
		return nil, err
	}
	if len(cmd.Lines) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	// Resolve every line against current catalog state. Price and name are
	// snapshotted here; the first item that cannot be purchased aborts the
	// whole order.
	for _, line := range cmd.Lines {
		product, err := h.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, apperr.NotFound("product %d not found", line.ProductID)
			}
			return nil, fmt.Errorf("resolve product %d: %w", line.ProductID, err)
		}

		if err := product.CanPurchase(line.Quantity); err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return nil, &apperr.Error{
					Kind:    appErr.Kind,
					Message: fmt.Sprintf("%s: %s", product.Name, appErr.Message),
				}
			}
			return nil, err
		}

		order.AddItem(domain.OrderItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductPriceCents: product.PriceCents,
			Quantity:          line.Quantity,
		})
	}

	order.CalculateTotal()
	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.ID = generateOrderID()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	// The repository re-checks stock under lock and decrements it in the
	// same transaction as the insert, so a concurrent checkout of the last
	// unit fails here rather than overselling.
	if err := h.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderPlaced(ctx, order.ID); err != nil {
		return &order, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return &order, nil
}

// generateOrderID produces "ORD" + a 14-digit timestamp + 4 uppercase
// alphanumeric characters. This format is a de facto wire contract for
// anything displaying or linking orders.
func generateOrderID() string {
	timestamp := time.Now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return "ORD" + timestamp + suffix
}
