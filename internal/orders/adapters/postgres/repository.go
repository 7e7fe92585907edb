package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool    *pgxpool.Pool
	metrics *database.Metrics
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithMetrics enables query-duration instrumentation.
func (r *Repository) WithMetrics(metrics *database.Metrics) *Repository {
	r.metrics = metrics
	return r
}

func (r *Repository) observe(ctx context.Context, operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordQuery(ctx, operation, time.Since(start).Seconds())
	}
}

// Create persists the order header and all items, and decrements product
// stock, in a single transaction. Product rows are locked first so a
// concurrent checkout of the last unit fails at the stock re-check instead
// of overselling. Rows are locked in ascending product id order so two
// overlapping orders cannot deadlock on each other's locks.
func (r *Repository) Create(ctx context.Context, order domain.Order) error {
	defer r.observe(ctx, "orders.create", time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locked := make([]domain.OrderItem, len(order.Items))
	copy(locked, order.Items)
	sort.Slice(locked, func(i, j int) bool { return locked[i].ProductID < locked[j].ProductID })

	for _, item := range locked {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`,
			item.ProductID,
		).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("product %d not found", item.ProductID)
			}
			return fmt.Errorf("lock product %d: %w", item.ProductID, err)
		}

		if item.Quantity > stock {
			return apperr.Conflict("%s: only %d left in stock", item.ProductName, stock)
		}

		_, err = tx.Exec(ctx,
			`UPDATE products SET stock_quantity = stock_quantity - $1 WHERE id = $2`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, customer_name, customer_phone,
		                    customer_address, payment_method, total_amount_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		order.PaymentMethod,
		order.TotalAmountCents,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.ProductPriceCents,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	defer r.observe(ctx, "orders.get_by_id", time.Now())

	var order domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, customer_name, customer_phone, customer_address,
		       payment_method, total_amount_cents, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.PaymentMethod,
		&order.TotalAmountCents,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *Repository) GetByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	defer r.observe(ctx, "orders.get_by_user", time.Now())

	return r.queryOrders(ctx, `
		SELECT id, user_id, customer_name, customer_phone, customer_address,
		       payment_method, total_amount_cents, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	defer r.observe(ctx, "orders.list", time.Now())

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	offset := (page - 1) * pageSize

	return r.queryOrders(ctx, `
		SELECT id, user_id, customer_name, customer_phone, customer_address,
		       payment_method, total_amount_cents, status, created_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, statusFilter, pageSize, offset)
}

// UpdateStatus re-reads the stored status under lock, applies the
// terminal-state guard, then writes the new status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	defer r.observe(ctx, "orders.update_status", time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockOrderStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	guard := domain.Order{Status: current}
	if err := guard.CanUpdateStatus(status); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}

	return nil
}

// Cancel marks the order cancelled and restores stock for every item in one
// transaction, re-checking cancellability against the stored row.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	defer r.observe(ctx, "orders.cancel", time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockOrderStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	guard := domain.Order{Status: current}
	if !guard.CanCancel() {
		return apperr.Conflict("cannot cancel order in status %s", current)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, domain.StatusCancelled, id); err != nil {
		return fmt.Errorf("set order cancelled: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products p
		SET stock_quantity = p.stock_quantity + i.quantity
		FROM order_items i
		WHERE i.order_id = $1 AND i.product_id = p.id
	`, id)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}

	return nil
}

func lockOrderStatus(ctx context.Context, tx pgx.Tx, id string) (domain.OrderStatus, error) {
	var status domain.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("lock order: %w", err)
	}
	return status, nil
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.CustomerName,
			&order.CustomerPhone,
			&order.CustomerAddress,
			&order.PaymentMethod,
			&order.TotalAmountCents,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_price_cents, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductPriceCents,
			&item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
