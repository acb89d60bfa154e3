package cartclient

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	TaxRate     = decimal.RequireFromString("0.05")
	DeliveryFee = decimal.NewFromInt(50)
)

type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// computeTotals prices the cart as shown at checkout: subtotal plus tax plus
// a flat delivery fee, each rounded to cents. An empty cart costs nothing.
func computeTotals(lines []*Line) Totals {
	if len(lines) == 0 {
		return Totals{}
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: DeliveryFee,
		Total:       subtotal.Add(tax).Add(DeliveryFee).Round(2),
	}
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Bytes 6 and 8 of a v4 UUID hold version and variant bits.
var orderIDBytes = [9]int{0, 1, 2, 3, 4, 5, 7, 9, 10}

// NewOrderID returns "ORD" followed by 9 random uppercase letters or digits.
func NewOrderID() string {
	u := uuid.New()
	id := make([]byte, 3, 12)
	copy(id, "ORD")
	for _, i := range orderIDBytes {
		id = append(id, orderIDAlphabet[int(u[i])%len(orderIDAlphabet)])
	}
	return string(id)
}
