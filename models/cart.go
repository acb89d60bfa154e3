package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type CartLine struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	IsVeg       bool            `json:"is_veg"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewCartLine is the input of a cart add; it becomes a CartLine once the
// store assigns an id.
type NewCartLine struct {
	UserID      int
	ProductID   int
	ProductName string
	Image       string
	IsVeg       bool
	Price       decimal.Decimal
	Quantity    int
}
