package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/example/storefront/internal/apperr"
	catalogmemory "github.com/example/storefront/internal/catalog/adapters/memory"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
)

// Repository provides an in-memory order store useful for local development
// and tests. It mirrors the postgres adapter's atomicity: creating an order
// either persists everything and decrements stock, or leaves no trace.
type Repository struct {
	mu      sync.RWMutex
	orders  map[string]domain.Order
	catalog *catalogmemory.Repository
}

// NewRepository constructs an in-memory order repository backed by the given
// catalog for stock movements.
func NewRepository(catalog *catalogmemory.Repository) *Repository {
	return &Repository{
		orders:  make(map[string]domain.Order),
		catalog: catalog,
	}
}

func (r *Repository) Create(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return apperr.Conflict("order %s already exists", order.ID)
	}

	// Decrement stock item by item; undo everything already taken if any
	// item fails so no partial order remains.
	taken := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := r.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			for _, undo := range taken {
				_ = r.catalog.AdjustStock(ctx, undo.ProductID, undo.Quantity)
			}
			return err
		}
		taken = append(taken, item)
	}

	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := cloneOrder(order)
	return &copy, nil
}

func (r *Repository) GetByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, cloneOrder(order))
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortNewestFirst(result)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Order{}, nil
	}

	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}

	// Re-validate against the stored row, matching the postgres adapter's
	// read-validate-write transaction.
	if err := order.CanUpdateStatus(status); err != nil {
		return err
	}

	order.Status = status
	r.orders[id] = order
	return nil
}

func (r *Repository) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}

	if !order.CanCancel() {
		return apperr.Conflict("cannot cancel order in status %s", order.Status)
	}

	order.Status = domain.StatusCancelled
	r.orders[id] = order

	for _, item := range order.Items {
		_ = r.catalog.AdjustStock(ctx, item.ProductID, item.Quantity)
	}

	return nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
