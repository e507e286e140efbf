package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/repository"
)

const (
	OrderResource = "order"
)

// OrderRepository provides database operations for orders and their items
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{
		pool: pool,
	}
}

// CreateOrder inserts the order header and all of its items in one transaction.
// On success order.ID, order.OrderDate and every item ID are populated.
// On failure nothing is written.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	const insertOrder = `
INSERT INTO orders (user_id, total_amount, status, pickup_time, contact_name, contact_phone)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_date`

	const insertItem = `
INSERT INTO order_items (order_id, menu_item_id, menu_item_name, quantity, unit_price, special_instructions, customizations)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	err = tx.QueryRow(
		ctx,
		insertOrder,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.PickupTime,
		order.ContactName,
		order.ContactPhone,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]

		customizations, err := encodeCustomizations(item.Customizations)
		if err != nil {
			return fmt.Errorf("encode customizations for menu item %s: %w", item.MenuItemID, err)
		}

		err = tx.QueryRow(
			ctx,
			insertItem,
			order.ID,
			item.MenuItemID,
			item.MenuItemName,
			item.Quantity,
			item.UnitPrice,
			item.SpecialInstructions,
			customizations,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create item %d of order %d: %w", i, order.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %d: %w", order.ID, err)
	}

	return nil
}

// ListOrdersByPhone returns order headers placed with the given contact phone, newest first.
func (r *OrderRepository) ListOrdersByPhone(ctx context.Context, phone string) ([]domain.Order, error) {
	const query = `
SELECT id, order_date, total_amount, status, pickup_time, contact_name, contact_phone
FROM orders
WHERE contact_phone = $1
ORDER BY order_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("query orders by phone: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.OrderDate, &o.TotalAmount, &o.Status, &o.PickupTime, &o.ContactName, &o.ContactPhone)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders by phone: %w", err)
	}

	return orders, nil
}

// ListRecentOrdersByUser returns up to limit order headers placed by the user, newest first.
func (r *OrderRepository) ListRecentOrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	const query = `
SELECT id, order_date, total_amount, status
FROM orders
WHERE user_id = $1
ORDER BY order_date DESC, id DESC
LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders for user %s: %w", userID, err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.OrderDate, &o.TotalAmount, &o.Status)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders for user %s: %w", userID, err)
	}

	return orders, nil
}

// GetOrderByID retrieves an order header and its items in insertion order.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	const orderQuery = `
SELECT id, user_id, order_date, total_amount, status, pickup_time, contact_name, contact_phone
FROM orders
WHERE id = $1`

	const itemsQuery = `
SELECT id, menu_item_id, menu_item_name, quantity, unit_price, special_instructions, customizations
FROM order_items
WHERE order_id = $1
ORDER BY id`

	var order domain.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderDate,
		&order.TotalAmount,
		&order.Status,
		&order.PickupTime,
		&order.ContactName,
		&order.ContactPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("failed to retrieve order with id %d: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query items for order %d: %w", id, err)
	}

	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("scan items for order %d: %w", id, err)
	}
	order.Items = items

	return &order, nil
}

// UpdateOrderStatus overwrites the status of an order.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tag, err := r.pool.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("update status of order %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return orderNotFound(id)
	}

	return nil
}

func scanOrderItem(row pgx.CollectableRow) (domain.OrderItem, error) {
	var (
		item           domain.OrderItem
		unitPrice      decimal.Decimal
		customizations []byte
	)

	err := row.Scan(
		&item.ID,
		&item.MenuItemID,
		&item.MenuItemName,
		&item.Quantity,
		&unitPrice,
		&item.SpecialInstructions,
		&customizations,
	)
	if err != nil {
		return item, err
	}
	item.UnitPrice = unitPrice

	if len(customizations) > 0 {
		if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
			return item, fmt.Errorf("decode customizations of order item %d: %w", item.ID, err)
		}
	}

	return item, nil
}

// encodeCustomizations returns nil for an empty selection so the column stays NULL.
func encodeCustomizations(c []domain.LineCustomization) ([]byte, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return json.Marshal(c)
}

func orderNotFound(id int64) error {
	return &repository.NotFoundError{
		Resource: OrderResource,
		Key:      "id",
		Value:    strconv.FormatInt(id, 10),
	}
}
