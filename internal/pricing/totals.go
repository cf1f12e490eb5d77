package pricing

import (
	"ayaat-pos/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tax is subtotal times rate, where rate is a fraction (0.05 for 5%).
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// Discount applies the customer's membership discount level. No customer, no discount.
func Discount(subtotal decimal.Decimal, customer *model.Customer) decimal.Decimal {
	if customer == nil {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromInt(int64(customer.DiscountLevel))).Div(hundred)
}

// Total is subtotal + tax - discount, never below zero.
func Total(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	t := subtotal.Add(tax).Sub(discount)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// ChangeDue is what the cashier hands back.
func ChangeDue(tendered, total decimal.Decimal) decimal.Decimal {
	return tendered.Sub(total)
}

// Sufficient reports whether tendered covers total.
func Sufficient(tendered, total decimal.Decimal) bool {
	return tendered.GreaterThanOrEqual(total)
}

// Totals is the full breakdown of a cart at a given tax rate.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Due is the total rounded to cents, the amount actually charged.
func (t Totals) Due() decimal.Decimal {
	return t.Total.Round(2)
}

// Compute applies Subtotal, Tax, Discount and Total in order.
// Tax and discount are both taken on the pre-tax subtotal.
func Compute(c Cart, rate decimal.Decimal, customer *model.Customer) Totals {
	sub := Subtotal(c)
	tax := Tax(sub, rate)
	disc := Discount(sub, customer)
	return Totals{
		Subtotal: sub,
		TaxRate:  rate,
		Tax:      tax,
		Discount: disc,
		Total:    Total(sub, tax, disc),
	}
}
