package cart_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/apperr"
	catalogmemory "github.com/example/storefront/internal/catalog/adapters/memory"
	catalogdomain "github.com/example/storefront/internal/catalog/domain"
	"github.com/example/storefront/internal/cart"
	cartmemory "github.com/example/storefront/internal/cart/memory"
	"github.com/example/storefront/internal/orders/app/commands"
	ordersdomain "github.com/example/storefront/internal/orders/domain"
)

type stubOrderPlacer struct {
	lastCmd commands.PlaceOrderCommand
	order   *ordersdomain.Order
	err     error
}

func (s *stubOrderPlacer) PlaceOrder(_ context.Context, cmd commands.PlaceOrderCommand) (*ordersdomain.Order, error) {
	s.lastCmd = cmd
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func newCartFixture(t *testing.T) (*cart.Service, *catalogmemory.Repository, *cartmemory.Store, *stubOrderPlacer) {
	t.Helper()

	catalog := catalogmemory.NewRepository()
	store := cartmemory.NewStore()
	placer := &stubOrderPlacer{order: &ordersdomain.Order{ID: "ORD202501011200000AAA"}}
	svc := cart.NewService(store, catalog, placer, slog.New(slog.DiscardHandler))
	return svc, catalog, store, placer
}

func seedProduct(t *testing.T, catalog *catalogmemory.Repository, name string, stock int) int64 {
	t.Helper()

	id, err := catalog.Create(context.Background(), catalogdomain.Product{
		Name:          name,
		PriceCents:    1999,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return id
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds product and accumulates quantity", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)

		_, err := svc.AddItem(ctx, "sess-1", id, 2)
		require.NoError(t, err)

		c, err := svc.AddItem(ctx, "sess-1", id, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, c.Lines[id])
	})

	t.Run("rejects quantity beyond stock", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 2)

		_, err := svc.AddItem(ctx, "sess-1", id, 2)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, "sess-1", id, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		svc, _, _, _ := newCartFixture(t)

		_, err := svc.AddItem(ctx, "sess-1", 42, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)

		_, err := svc.AddItem(ctx, "sess-1", id, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("sets quantity", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)

		_, err := svc.AddItem(ctx, "sess-1", id, 2)
		require.NoError(t, err)

		c, err := svc.UpdateItem(ctx, "sess-1", id, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, c.Lines[id])
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)

		_, err := svc.AddItem(ctx, "sess-1", id, 2)
		require.NoError(t, err)

		c, err := svc.UpdateItem(ctx, "sess-1", id, 0)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("rejects product not in cart", func(t *testing.T) {
		svc, catalog, _, _ := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)

		_, err := svc.UpdateItem(ctx, "sess-1", id, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _, _ := newCartFixture(t)
	id := seedProduct(t, catalog, "Mug", 10)

	_, err := svc.AddItem(ctx, "sess-1", id, 2)
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "sess-1", id)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	req := cart.CheckoutRequest{
		UserID:          7,
		CustomerName:    "Ana",
		CustomerPhone:   "555-0101",
		CustomerAddress: "1 Main St",
		PaymentMethod:   "cod",
	}

	t.Run("materializes lines and clears the cart", func(t *testing.T) {
		svc, catalog, store, placer := newCartFixture(t)
		first := seedProduct(t, catalog, "Mug", 10)
		second := seedProduct(t, catalog, "Shirt", 10)

		_, err := svc.AddItem(ctx, "sess-1", second, 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "sess-1", first, 3)
		require.NoError(t, err)

		order, err := svc.Checkout(ctx, "sess-1", req)
		require.NoError(t, err)
		assert.Equal(t, "ORD202501011200000AAA", order.ID)

		require.Len(t, placer.lastCmd.Lines, 2)
		assert.Equal(t, commands.OrderLine{ProductID: first, Quantity: 3}, placer.lastCmd.Lines[0])
		assert.Equal(t, commands.OrderLine{ProductID: second, Quantity: 1}, placer.lastCmd.Lines[1])
		assert.Equal(t, int64(7), placer.lastCmd.UserID)

		c, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		svc, _, _, _ := newCartFixture(t)

		_, err := svc.Checkout(ctx, "sess-1", req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("keeps cart when placing the order fails", func(t *testing.T) {
		svc, catalog, store, placer := newCartFixture(t)
		id := seedProduct(t, catalog, "Mug", 10)
		placer.err = errors.New("kaboom")

		_, err := svc.AddItem(ctx, "sess-1", id, 2)
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, "sess-1", req)
		require.Error(t, err)

		c, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, 2, c.Lines[id])
	})
}
