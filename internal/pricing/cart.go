package pricing

import (
	"time"

	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product in a cart. UnitPrice is fixed when the line is first added.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of line items, one per product.
// Operations return a new Cart and never modify their input.
type Cart []LineItem

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID uuid.UUID) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Units is the total quantity across all lines.
func (c Cart) Units() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// AddLineItem increments the product's line or appends a new line priced at
// the effective price at now.
func AddLineItem(c Cart, p *model.Product, now time.Time) Cart {
	out := c.clone()
	if i := out.Find(p.ID); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, LineItem{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		UnitPrice: EffectivePrice(p, now),
		Quantity:  1,
	})
}

// SetQuantity sets a line's quantity. Negative values clamp to zero and a line
// at zero is removed. Unknown products leave the cart unchanged.
func SetQuantity(c Cart, productID uuid.UUID, q int) Cart {
	out := c.clone()
	i := out.Find(productID)
	if i < 0 {
		return out
	}
	if q <= 0 {
		return append(out[:i], out[i+1:]...)
	}
	out[i].Quantity = q
	return out
}

// Subtotal sums every line total.
func Subtotal(c Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}
