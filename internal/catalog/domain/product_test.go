package domain_test

import (
	"testing"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/catalog/domain"
)

func TestCanPurchase(t *testing.T) {
	product := domain.Product{ID: 1, Name: "Galaxy S24", PriceCents: 2_500_000, StockQuantity: 5}

	t.Run("allows quantity within stock", func(t *testing.T) {
		if err := product.CanPurchase(5); err != nil {
			t.Errorf("expected purchase to be allowed, got: %v", err)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		err := product.CanPurchase(0)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected validation kind, got %s", apperr.KindOf(err))
		}
	})

	t.Run("rejects out-of-stock product", func(t *testing.T) {
		empty := product
		empty.StockQuantity = 0

		err := empty.CanPurchase(1)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Error() != "product is out of stock" {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("rejects quantity above stock with remaining count", func(t *testing.T) {
		err := product.CanPurchase(6)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Error() != "only 5 left in stock" {
			t.Errorf("unexpected message: %q", err.Error())
		}
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected conflict kind, got %s", apperr.KindOf(err))
		}
	})
}

func TestProductValidate(t *testing.T) {
	cases := []struct {
		name    string
		product domain.Product
		wantErr string
	}{
		{
			name:    "valid product",
			product: domain.Product{Name: "Galaxy Tab", PriceCents: 1000, StockQuantity: 3},
		},
		{
			name:    "missing name",
			product: domain.Product{PriceCents: 1000},
			wantErr: "product name must not be empty",
		},
		{
			name:    "non-positive price",
			product: domain.Product{Name: "Tab", PriceCents: 0},
			wantErr: "product price must be positive",
		},
		{
			name:    "negative stock",
			product: domain.Product{Name: "Tab", PriceCents: 1000, StockQuantity: -1},
			wantErr: "stock quantity must not be negative",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Errorf("expected %q, got: %v", tc.wantErr, err)
			}
		})
	}
}
