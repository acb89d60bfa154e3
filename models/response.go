package models

// Every response carries Success; clients check it before reading anything
// else.

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type ProfileResponse struct {
	Success bool `json:"success"`
	Profile User `json:"profile"`
}

type CartResponse struct {
	Success bool       `json:"success"`
	Cart    []CartLine `json:"cart"`
}

type CartItemResponse struct {
	Success bool     `json:"success"`
	Item    CartLine `json:"item"`
}

type OrderResponse struct {
	Success bool  `json:"success"`
	Order   Order `json:"order"`
}

type OrdersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
}

type AddressResponse struct {
	Success bool    `json:"success"`
	Address Address `json:"address"`
}

type AddressesResponse struct {
	Success   bool      `json:"success"`
	Addresses []Address `json:"addresses"`
}

type DishesResponse struct {
	Success bool   `json:"success"`
	Dishes  []Dish `json:"dishes"`
}

type DishResponse struct {
	Success bool `json:"success"`
	Dish    Dish `json:"dish"`
}

type OffersResponse struct {
	Success bool    `json:"success"`
	Offers  []Offer `json:"offers"`
}
