package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/internal/catalog/ports"
)

// Keywords shorter than this return no results instead of scanning the table.
const minSearchLength = 2

// Service bundles catalog use cases for products and categories.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	logger     *slog.Logger
}

// NewService wires required dependencies.
func NewService(products ports.ProductRepository, categories ports.CategoryRepository, logger *slog.Logger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListProducts returns the full catalog.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ListProductsByCategory returns products belonging to a category.
func (s *Service) ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, categoryID)
}

// SearchProducts performs a keyword search over product names and descriptions.
func (s *Service) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if len(keyword) < minSearchLength {
		return []domain.Product{}, nil
	}
	return s.products.Search(ctx, keyword)
}

// CreateProduct validates and persists a new product (admin).
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (int64, error) {
	if err := product.Validate(); err != nil {
		return 0, err
	}

	id, err := s.products.Create(ctx, product)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created", "product_id", id, "name", product.Name)
	return id, nil
}

// UpdateProduct validates and persists product changes (admin).
func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == 0 {
		return apperr.Validation("product id is required")
	}
	if err := product.Validate(); err != nil {
		return err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.NotFound("product %d not found", product.ID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product (admin).
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.NotFound("product %d not found", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// UpdateStock sets a product's absolute stock quantity (admin).
func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 0 {
		return apperr.Validation("stock quantity must not be negative")
	}

	if err := s.products.UpdateStock(ctx, id, quantity); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.NotFound("product %d not found", id)
		}
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.NotFound("category %d not found", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory validates and persists a new category (admin).
func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (int64, error) {
	if err := category.Validate(); err != nil {
		return 0, err
	}

	id, err := s.categories.Create(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

// UpdateCategory validates and persists category changes (admin).
func (s *Service) UpdateCategory(ctx context.Context, category domain.Category) error {
	if category.ID == 0 {
		return apperr.Validation("category id is required")
	}
	if err := category.Validate(); err != nil {
		return err
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.NotFound("category %d not found", category.ID)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category (admin).
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.NotFound("category %d not found", id)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
