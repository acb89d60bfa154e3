package cartclient

import (
	"food-order/models"

	"github.com/shopspring/decimal"
)

// LineState tracks where a mirrored line stands relative to the server.
type LineState int

const (
	// StateLocal lines exist only in the guest store.
	StateLocal LineState = iota
	// StatePending lines carry an optimistic change whose request is in flight.
	StatePending
	// StateSynced lines match the last server response.
	StateSynced
	// StateFailed lines were rolled back after a failed request and await a
	// resync.
	StateFailed
)

func (s LineState) String() string {
	switch s {
	case StateLocal:
		return "local"
	case StatePending:
		return "pending"
	case StateSynced:
		return "synced"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Line is one product in the client mirror. Guest lines use negative
// temporary ids until they are replayed to the server.
type Line struct {
	ID          int
	ProductID   int
	ProductName string
	Image       string
	IsVeg       bool
	Price       decimal.Decimal
	Quantity    int
	State       LineState
}

// Item is the product snapshot shown to the user when adding to the cart.
type Item struct {
	ProductID   int
	ProductName string
	Image       string
	IsVeg       bool
	Price       decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l *Line) apply(row models.CartLine) {
	l.ID = row.ID
	l.ProductID = row.ProductID
	l.ProductName = row.ProductName
	l.Image = row.Image
	l.IsVeg = row.IsVeg
	l.Price = row.Price
	l.Quantity = row.Quantity
	l.State = StateSynced
}

func syncedLine(row models.CartLine) *Line {
	l := &Line{}
	l.apply(row)
	return l
}

func (l Line) guest() GuestLine {
	return GuestLine{
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Image:       l.Image,
		IsVeg:       l.IsVeg,
		Price:       l.Price,
		Quantity:    l.Quantity,
	}
}

func (l Line) orderItem() models.OrderItem {
	return models.OrderItem{
		ProductID: l.ProductID,
		Name:      l.ProductName,
		Price:     l.Price,
		Quantity:  l.Quantity,
		IsVeg:     l.IsVeg,
		Image:     l.Image,
	}
}
