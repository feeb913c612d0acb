package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

var ErrOrderNotFound = errors.New("order not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *models.Order) error
	GetOrder(ctx context.Context, tx pgx.Tx, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, tx pgx.Tx, filter ListFilter) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, tx pgx.Tx, orderID string, status enum.OrderStatus, updatedAt time.Time) error
	Summarize(ctx context.Context, tx pgx.Tx, filter ListFilter) (*Summary, error)
	ProductSales(ctx context.Context, tx pgx.Tx, filter ListFilter) ([]ProductSales, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

const orderColumns = `id, customer_name, customer_email, total_amount, currency, status, items, created_at, updated_at`

func (r *repository) CreateOrder(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	_, err := driver.Use(r.conn, tx).Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.CustomerName, order.CustomerEmail, order.TotalAmount, string(order.Currency),
		string(order.Status), order.Items, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.String("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *repository) GetOrder(ctx context.Context, tx pgx.Tx, orderID string) (*models.Order, error) {
	order, err := scanOrder(driver.Use(r.conn, tx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *repository) ListOrders(ctx context.Context, tx pgx.Tx, filter ListFilter) ([]*models.Order, error) {
	from, until := filter.bounds()

	rows, err := driver.Use(r.conn, tx).Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		from, until, filter.limit(), filter.Offset,
	)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate orders", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, orderID string, status enum.OrderStatus, updatedAt time.Time) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, orderID, string(status), updatedAt)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Summarize totals every order in the filter's date range. Limit and Offset
// are ignored.
func (r *repository) Summarize(ctx context.Context, tx pgx.Tx, filter ListFilter) (*Summary, error) {
	from, until := filter.bounds()

	var summary Summary
	err := driver.Use(r.conn, tx).QueryRow(ctx, `
		WITH ranged AS (
			SELECT total_amount, items FROM orders
			WHERE ($1::timestamptz IS NULL OR created_at >= $1)
			  AND ($2::timestamptz IS NULL OR created_at < $2)
		)
		SELECT
			(SELECT count(*) FROM ranged),
			(SELECT COALESCE(sum((item->>'quantity')::int), 0)
			   FROM ranged, jsonb_array_elements(ranged.items) AS item),
			(SELECT COALESCE(sum(total_amount), 0) FROM ranged)`,
		from, until,
	).Scan(&summary.Orders, &summary.ItemsSold, &summary.Revenue)
	if err != nil {
		r.logger.Error("Failed to summarize orders", zap.Error(err))
		return nil, fmt.Errorf("failed to summarize orders: %w", err)
	}
	return &summary, nil
}

// ProductSales groups the order lines in the filter's date range by product,
// best sellers first. Limit and Offset are ignored.
func (r *repository) ProductSales(ctx context.Context, tx pgx.Tx, filter ListFilter) ([]ProductSales, error) {
	from, until := filter.bounds()

	rows, err := driver.Use(r.conn, tx).Query(ctx, `
		SELECT item->>'product_id'                  AS product_id,
		       max(item->>'product_title')          AS product_title,
		       sum((item->>'quantity')::int)        AS quantity,
		       sum((item->>'subtotal')::numeric)    AS revenue
		FROM orders, jsonb_array_elements(orders.items) AS item
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		GROUP BY item->>'product_id'
		ORDER BY quantity DESC, product_id`,
		from, until,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate product sales", zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	defer rows.Close()

	sales := make([]ProductSales, 0)
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Title, &p.Quantity, &p.Revenue); err != nil {
			r.logger.Error("Failed to scan product sales", zap.Error(err))
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		sales = append(sales, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate product sales", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate product sales: %w", err)
	}

	return sales, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order    models.Order
		currency string
		status   string
	)
	err := row.Scan(&order.ID, &order.CustomerName, &order.CustomerEmail, &order.TotalAmount, &currency,
		&status, &order.Items, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.Currency = stripe.Currency(currency)
	order.Status = enum.OrderStatus(status)
	return &order, nil
}
