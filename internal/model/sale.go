package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentWallet PaymentMethod = "WALLET"
)

// Valid reports whether m is one of the accepted tenders.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentWallet:
		return true
	}
	return false
}

// Sale is the receipt written once at checkout. It is never updated afterwards.
type Sale struct {
	ID        string          `gorm:"type:varchar(20);primaryKey" json:"id"` // SALE-XXXXXXXXX
	Timestamp time.Time       `gorm:"not null;index" json:"timestamp"`
	Items     []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"subtotal"`
	TaxRate   decimal.Decimal `gorm:"type:numeric(8,4);not null" json:"tax_rate"`
	Tax       decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"tax"`
	Discount  decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"discount"`
	Total     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"total"`
	AmountDue decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_due"`

	PaymentMethod PaymentMethod       `gorm:"type:varchar(10);not null" json:"payment_method"`
	CashReceived  decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cash_received"`
	ChangeGiven   decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"change_given"`
	PointsEarned  int                 `gorm:"default:0" json:"points_earned"`

	CustomerID   *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName string     `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CashierID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashierName  string     `gorm:"type:varchar(255)" json:"cashier_name"`
}

// SaleItem is a line of the receipt, copied from the cart at checkout.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	SaleID    string          `gorm:"type:varchar(20);index;not null" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	SKU       string          `gorm:"type:varchar(50)" json:"sku"`
	Name      string          `gorm:"type:varchar(255)" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

// SaleVoid reverses a completed sale. The receipt row itself stays untouched.
type SaleVoid struct {
	SaleID     string    `gorm:"type:varchar(20);primaryKey" json:"sale_id"`
	VoidedAt   time.Time `gorm:"not null" json:"voided_at"`
	VoidedBy   uuid.UUID `gorm:"type:uuid;not null" json:"voided_by"`
	VoidedName string    `gorm:"type:varchar(255)" json:"voided_by_name"`
	Reason     string    `gorm:"type:text" json:"reason"`
}

// Units is the number of items on the receipt.
func (s *Sale) Units() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
