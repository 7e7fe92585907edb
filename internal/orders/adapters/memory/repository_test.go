package memory_test

import (
	"context"
	"testing"
	"time"

	catalogmemory "github.com/example/storefront/internal/catalog/adapters/memory"
	catalogdomain "github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/internal/orders/adapters/memory"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
)

func newRepos(t *testing.T, stock int) (*memory.Repository, *catalogmemory.Repository) {
	t.Helper()

	catalog := catalogmemory.NewRepository()
	if _, err := catalog.Create(context.Background(), catalogdomain.Product{
		Name: "Galaxy S24", PriceCents: 100, StockQuantity: stock,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return memory.NewRepository(catalog), catalog
}

func orderWith(id string, createdAt time.Time, items ...domain.OrderItem) domain.Order {
	order := domain.Order{
		ID:              id,
		UserID:          7,
		CustomerName:    "Nguyen Van A",
		CustomerPhone:   "0901234567",
		CustomerAddress: "12 Le Loi",
		PaymentMethod:   "cod",
		Status:          domain.StatusPending,
		CreatedAt:       createdAt,
		Items:           items,
	}
	order.CalculateTotal()
	return order
}

func TestCreateAtomicity(t *testing.T) {
	t.Run("multi-item failure leaves no stock movement", func(t *testing.T) {
		repo, catalog := newRepos(t, 5)
		// Second product with no stock forces the create to fail mid-way.
		if _, err := catalog.Create(context.Background(), catalogdomain.Product{
			Name: "Galaxy Buds", PriceCents: 50, StockQuantity: 0,
		}); err != nil {
			t.Fatalf("seed product: %v", err)
		}

		order := orderWith("ORD1", time.Now().UTC(),
			domain.OrderItem{ProductID: 1, ProductName: "Galaxy S24", ProductPriceCents: 100, Quantity: 2},
			domain.OrderItem{ProductID: 2, ProductName: "Galaxy Buds", ProductPriceCents: 50, Quantity: 1},
		)

		if err := repo.Create(context.Background(), order); err == nil {
			t.Fatal("expected create to fail")
		}

		if _, err := repo.GetByID(context.Background(), "ORD1"); err != ports.ErrNotFound {
			t.Errorf("expected no persisted order, got: %v", err)
		}
		product, _ := catalog.GetByID(context.Background(), 1)
		if product.StockQuantity != 5 {
			t.Errorf("expected stock rolled back to 5, got %d", product.StockQuantity)
		}
	})

	t.Run("round-trip preserves totals", func(t *testing.T) {
		repo, _ := newRepos(t, 5)
		order := orderWith("ORD2", time.Now().UTC(),
			domain.OrderItem{ProductID: 1, ProductName: "Galaxy S24", ProductPriceCents: 100, Quantity: 3},
		)

		if err := repo.Create(context.Background(), order); err != nil {
			t.Fatalf("create: %v", err)
		}

		stored, err := repo.GetByID(context.Background(), "ORD2")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		var subtotals int64
		for _, item := range stored.Items {
			subtotals += item.Subtotal()
		}
		if subtotals != stored.TotalAmountCents {
			t.Errorf("total %d does not match subtotals %d", stored.TotalAmountCents, subtotals)
		}
	})
}

func TestListOrdering(t *testing.T) {
	repo, _ := newRepos(t, 100)
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, id := range []string{"ORDA", "ORDB", "ORDC"} {
		order := orderWith(id, base.Add(time.Duration(i)*time.Minute),
			domain.OrderItem{ProductID: 1, ProductName: "Galaxy S24", ProductPriceCents: 100, Quantity: 1},
		)
		if err := repo.Create(context.Background(), order); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	t.Run("list returns newest first", func(t *testing.T) {
		orders, err := repo.List(context.Background(), ports.ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("expected 3 orders, got %d", len(orders))
		}
		if orders[0].ID != "ORDC" || orders[2].ID != "ORDA" {
			t.Errorf("expected newest-first ordering, got %s..%s", orders[0].ID, orders[2].ID)
		}
	})

	t.Run("get by user returns newest first", func(t *testing.T) {
		orders, err := repo.GetByUser(context.Background(), 7)
		if err != nil {
			t.Fatalf("get by user: %v", err)
		}
		if len(orders) != 3 || orders[0].ID != "ORDC" {
			t.Errorf("expected newest-first user history, got %+v", orders)
		}
	})

	t.Run("status filter narrows results", func(t *testing.T) {
		if err := repo.UpdateStatus(context.Background(), "ORDB", domain.StatusProcessing); err != nil {
			t.Fatalf("update status: %v", err)
		}
		status := domain.StatusProcessing
		orders, err := repo.List(context.Background(), ports.ListFilter{Status: &status})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != "ORDB" {
			t.Errorf("expected only ORDB, got %+v", orders)
		}
	})
}

func TestRepositoryStatusGuards(t *testing.T) {
	repo, catalog := newRepos(t, 5)
	order := orderWith("ORD3", time.Now().UTC(),
		domain.OrderItem{ProductID: 1, ProductName: "Galaxy S24", ProductPriceCents: 100, Quantity: 2},
	)
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Cancel(context.Background(), "ORD3"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	product, _ := catalog.GetByID(context.Background(), 1)
	if product.StockQuantity != 5 {
		t.Errorf("expected stock restored to 5, got %d", product.StockQuantity)
	}

	if err := repo.Cancel(context.Background(), "ORD3"); err == nil {
		t.Error("expected second cancel to fail")
	}
	if err := repo.UpdateStatus(context.Background(), "ORD3", domain.StatusProcessing); err == nil {
		t.Error("expected status update on cancelled order to fail")
	}
	// A failed second cancel must not restock again.
	product, _ = catalog.GetByID(context.Background(), 1)
	if product.StockQuantity != 5 {
		t.Errorf("expected stock to remain 5, got %d", product.StockQuantity)
	}
}
