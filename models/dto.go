package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AddCartRequest carries the product snapshot the client shows; the server
// stores it as-is on the cart line.
type AddCartRequest struct {
	UserID      int              `json:"user_id"`
	ProductID   int              `json:"product_id"`
	ProductName string           `json:"product_name"`
	Image       string           `json:"image"`
	IsVeg       bool             `json:"is_veg"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    int              `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID  int              `json:"user_id"`
	OrderID string           `json:"order_id"`
	Items   []OrderItem      `json:"items"`
	Total   *decimal.Decimal `json:"total"`
	Address string           `json:"address"`
}

type AddAddressRequest struct {
	UserID  int    `json:"user_id"`
	Label   string `json:"label"`
	Address string `json:"address"`
}
