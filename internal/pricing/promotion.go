// Package pricing computes line prices and sale totals. All functions are pure.
package pricing

import (
	"time"

	"ayaat-pos/internal/model"

	"github.com/shopspring/decimal"
)

// IsPromotionActive reports whether the product sells at its offer price at now.
//
// An offer needs a positive offer price. The manual flag wins when set: false
// switches the offer off, true keeps it on past its expiry. Without a manual
// flag the offer runs only while it has an expiry in the future.
func IsPromotionActive(p *model.Product, now time.Time) bool {
	if !p.OfferPrice.Valid || !p.OfferPrice.Decimal.IsPositive() {
		return false
	}
	if p.IsOfferManualActive != nil {
		return *p.IsOfferManualActive
	}
	return p.OfferExpiryDate != nil && p.OfferExpiryDate.After(now)
}

// EffectivePrice is the unit price a product sells for at now.
func EffectivePrice(p *model.Product, now time.Time) decimal.Decimal {
	if IsPromotionActive(p, now) {
		return p.OfferPrice.Decimal
	}
	return p.Price
}
