package repositories

import (
	"context"
	"errors"
	"fmt"

	"food-order/models"

	"github.com/jackc/pgx/v5"
)

const cartColumns = `id, user_id, product_id, product_name, image, is_veg, price, quantity, created_at`

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func scanCartLine(row pgx.Row) (*models.CartLine, error) {
	line := &models.CartLine{}
	err := row.Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.ProductName,
		&line.Image,
		&line.IsVeg,
		&line.Price,
		&line.Quantity,
		&line.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID int) ([]models.CartLine, error) {
	query := `SELECT ` + cartColumns + ` FROM cart WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("list cart", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, storeError("scan cart line", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list cart", err)
	}
	return lines, nil
}

// Upsert inserts the line or, when the user already has the product, adds
// the quantity to the existing row in the same statement.
func (r *CartRepository) Upsert(ctx context.Context, in models.NewCartLine) (*models.CartLine, error) {
	query := `
		INSERT INTO cart (user_id, product_id, product_name, image, is_veg, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT cart_user_product_key
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
		WHERE cart.quantity + EXCLUDED.quantity > 0
		RETURNING ` + cartColumns

	line, err := scanCartLine(r.db.QueryRow(ctx, query,
		in.UserID, in.ProductID, in.ProductName, in.Image, in.IsVeg, in.Price, in.Quantity,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: quantity cannot be less than or equal to zero", models.ErrInvalidArgument)
	}
	if err != nil {
		return nil, storeError("upsert cart line", err)
	}
	return line, nil
}

func (r *CartRepository) FindByID(ctx context.Context, id int) (*models.CartLine, error) {
	query := `SELECT ` + cartColumns + ` FROM cart WHERE id = $1`

	line, err := scanCartLine(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError(fmt.Sprintf("find cart line %d", id), err)
	}
	return line, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id, userID, quantity int) (*models.CartLine, error) {
	query := `UPDATE cart SET quantity = $1 WHERE id = $2 AND user_id = $3 RETURNING ` + cartColumns

	line, err := scanCartLine(r.db.QueryRow(ctx, query, quantity, id, userID))
	if err != nil {
		return nil, storeError(fmt.Sprintf("update cart line %d", id), err)
	}
	return line, nil
}

func (r *CartRepository) Delete(ctx context.Context, id, userID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storeError(fmt.Sprintf("delete cart line %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete cart line %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID int) error {
	return clearCart(ctx, r.db, userID)
}

func clearCart(ctx context.Context, q DBTX, userID int) error {
	if _, err := q.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		return storeError("clear cart", err)
	}
	return nil
}
