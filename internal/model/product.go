package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required,max=50"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price    decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"price"`
	Cost     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"cost"`
	Stock    int             `gorm:"not null" json:"stock"`
	MinStock int             `gorm:"not null" json:"min_stock" validate:"gte=0"`

	// Promotion. IsOfferManualActive is tri-state: nil means "follow the expiry date".
	OfferPrice          decimal.NullDecimal `gorm:"type:numeric(14,4)" json:"offer_price"`
	IsOfferManualActive *bool               `json:"is_offer_manual_active,omitempty"`
	OfferExpiryDate     *time.Time          `json:"offer_expiry_date,omitempty"`

	Description     string     `gorm:"type:text" json:"description,omitempty"`
	ImageURL        string     `gorm:"type:text" json:"image_url,omitempty"`
	BatchNumber     string     `gorm:"type:varchar(50)" json:"batch_number,omitempty"`
	ExpiryDate      *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	IsVisibleOnline bool       `gorm:"not null" json:"is_visible_online"`
}

// IsLowStock reports whether the stock has fallen to the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
