package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"food-order/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const orderColumns = `id, user_id, order_id, items, total, address, status, created_at`

type OrderRepository struct {
	db TxBeginner
}

func NewOrderRepository(db TxBeginner) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var items []byte
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderID,
		&items,
		&order.Total,
		&order.Address,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", order.OrderID, err)
	}
	return order, nil
}

// CreateAndClearCart inserts the order and empties the owner's cart in one
// transaction. On any error nothing is committed.
func (r *OrderRepository) CreateAndClearCart(ctx context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("%w: encode order items: %w", models.ErrInvalidArgument, err)
	}

	query := `
		INSERT INTO orders (user_id, order_id, items, total, address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orderColumns

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		created, err := scanOrder(tx.QueryRow(ctx, query,
			order.UserID, order.OrderID, items, order.Total, order.Address, order.Status,
		))
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: order %s already exists", models.ErrInvalidArgument, order.OrderID)
		}
		if err != nil {
			return storeError("insert order", err)
		}

		if err := clearCart(ctx, tx, order.UserID); err != nil {
			return err
		}

		*order = *created
		return nil
	})
}

func (r *OrderRepository) FindByOrderID(ctx context.Context, userID int, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND order_id = $2`

	order, err := scanOrder(r.db.QueryRow(ctx, query, userID, orderID))
	if err != nil {
		return nil, storeError(fmt.Sprintf("find order %s", orderID), err)
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, storeError("scan order", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}
