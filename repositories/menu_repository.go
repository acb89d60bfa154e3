package repositories

import (
	"context"
	"fmt"
	"time"

	"food-order/models"

	"github.com/jackc/pgx/v5"
)

const dishColumns = `id, name, description, price, original_price, category, rating, prep_time, is_veg, is_popular, image, created_at`

type MenuRepository struct {
	db DBTX
}

func NewMenuRepository(db DBTX) *MenuRepository {
	return &MenuRepository{db: db}
}

func scanDish(row pgx.Row) (*models.Dish, error) {
	var d models.Dish
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.OriginalPrice, &d.Category,
		&d.Rating, &d.PrepTime, &d.IsVeg, &d.IsPopular, &d.Image, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MenuRepository) ListDishes(ctx context.Context) ([]models.Dish, error) {
	rows, err := r.db.Query(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storeError("list dishes", err)
	}
	defer rows.Close()

	dishes := []models.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, storeError("scan dish", err)
		}
		dishes = append(dishes, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list dishes", err)
	}
	return dishes, nil
}

func (r *MenuRepository) GetDish(ctx context.Context, id int) (*models.Dish, error) {
	d, err := scanDish(r.db.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if err != nil {
		return nil, storeError(fmt.Sprintf("find dish %d", id), err)
	}
	return d, nil
}

func (r *MenuRepository) ListOffers(ctx context.Context) ([]models.Offer, error) {
	query := `SELECT id, title, description, discount, start_date, end_date, image, created_at
	          FROM offers ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list offers", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Discount, &o.StartDate, &o.EndDate, &o.Image, &o.CreatedAt); err != nil {
			return nil, storeError("scan offer", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list offers", err)
	}
	return offers, nil
}

// Ping is used by the health endpoint.
func (r *MenuRepository) Ping(ctx context.Context) error {
	var now time.Time
	return storeError("ping", r.db.QueryRow(ctx, `SELECT NOW()`).Scan(&now))
}
