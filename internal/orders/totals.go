package orders

import (
	"github.com/shopspring/decimal"
)

// vatRate is the fixed VAT applied to every order subtotal.
var vatRate = decimal.NewFromFloat(0.21)

// Totals carries the computed monetary breakdown of a cart.
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals derives subtotal, tax, and total from the cart lines.
// Shipping is currently free; the field exists so the breakdown stays stable
// when a fee is introduced.
func ComputeTotals(lines []CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(vatRate).Round(2)
	shipping := decimal.Zero

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: shipping,
		Total:       subtotal.Add(tax).Add(shipping).Round(2),
	}
}

// LineSubtotal returns quantity x unit price rounded to cents.
func LineSubtotal(line CartLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
}
