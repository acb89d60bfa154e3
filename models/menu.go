package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	Category      string              `json:"category"`
	Rating        decimal.Decimal     `json:"rating"`
	PrepTime      string              `json:"prep_time"`
	IsVeg         bool                `json:"is_veg"`
	IsPopular     bool                `json:"is_popular"`
	Image         string              `json:"image"`
	CreatedAt     time.Time           `json:"created_at"`
}

type Offer struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Discount    int        `json:"discount"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Image       string     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
}
