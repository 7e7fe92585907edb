package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/internal/catalog/ports"
)

// Repository provides an in-memory catalog useful for local development and tests.
type Repository struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	categories map[int64]domain.Category
	nextID     int64
}

// NewRepository constructs a new in-memory catalog repository.
func NewRepository() *Repository {
	return &Repository{
		products:   make(map[int64]domain.Product),
		categories: make(map[int64]domain.Category),
		nextID:     1,
	}
}

func (r *Repository) Create(_ context.Context, product domain.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	r.products[product.ID] = product
	return product.ID, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := product
	return &copy, nil
}

func (r *Repository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(domain.Product) bool { return true }), nil
}

func (r *Repository) ListByCategory(_ context.Context, categoryID int64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(p domain.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *Repository) Search(_ context.Context, keyword string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(keyword)
	return r.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	}), nil
}

func (r *Repository) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ports.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	r.products[product.ID] = product
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) UpdateStock(_ context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	product.StockQuantity = quantity
	r.products[id] = product
	return nil
}

// AdjustStock atomically applies a delta to a product's stock. A delta that
// would drive stock negative is rejected without any change. The order store
// uses this to keep check-then-decrement race free.
func (r *Repository) AdjustStock(_ context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	next := product.StockQuantity + delta
	if next < 0 {
		return apperr.Conflict("only %d left in stock", product.StockQuantity)
	}
	product.StockQuantity = next
	r.products[id] = product
	return nil
}

func (r *Repository) CreateCategory(_ context.Context, category domain.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.ID = r.nextID
	r.nextID++
	r.categories[category.ID] = category
	return category.ID, nil
}

func (r *Repository) GetCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := category
	return &copy, nil
}

func (r *Repository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateCategory(_ context.Context, category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return ports.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *Repository) DeleteCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

// collect assumes the caller holds at least a read lock.
func (r *Repository) collect(match func(domain.Product) bool) []domain.Product {
	result := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if match(product) {
			result = append(result, product)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Categories adapts the repository to the CategoryRepository port.
type Categories struct {
	repo *Repository
}

// NewCategories wraps an existing catalog repository.
func NewCategories(repo *Repository) *Categories {
	return &Categories{repo: repo}
}

func (c *Categories) Create(ctx context.Context, category domain.Category) (int64, error) {
	return c.repo.CreateCategory(ctx, category)
}

func (c *Categories) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return c.repo.GetCategoryByID(ctx, id)
}

func (c *Categories) List(ctx context.Context) ([]domain.Category, error) {
	return c.repo.ListCategories(ctx)
}

func (c *Categories) Update(ctx context.Context, category domain.Category) error {
	return c.repo.UpdateCategory(ctx, category)
}

func (c *Categories) Delete(ctx context.Context, id int64) error {
	return c.repo.DeleteCategory(ctx, id)
}
