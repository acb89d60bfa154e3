package repositories

import (
	"context"

	"food-order/models"
)

type AddressRepository struct {
	db DBTX
}

func NewAddressRepository(db DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int) ([]models.Address, error) {
	query := `SELECT id, user_id, label, address, created_at FROM addresses WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError("list addresses", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Address, &a.CreatedAt); err != nil {
			return nil, storeError("scan address", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list addresses", err)
	}
	return addresses, nil
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (user_id, label, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, address.UserID, address.Label, address.Address).
		Scan(&address.ID, &address.CreatedAt)
	return storeError("create address", err)
}
