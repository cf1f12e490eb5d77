package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a loyalty member identified by their membership code
type Customer struct {
	BaseModel
	MembershipID  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"membership_id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email         string          `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone         string          `gorm:"type:varchar(20);index" json:"phone" validate:"required"`
	LoyaltyPoints int             `gorm:"not null" json:"loyalty_points"`
	TotalSpent    decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"total_spent"`
	JoinDate      time.Time       `gorm:"type:date" json:"join_date"`
	DiscountLevel int             `gorm:"not null" json:"discount_level" validate:"gte=0,lte=100"` // percent
}
