package model

import "github.com/shopspring/decimal"

// settingsRowID is the primary key of every singleton settings row.
const settingsRowID = 1

// StoreSettings drives checkout: tax, loyalty and receipt text
type StoreSettings struct {
	ID                 uint            `gorm:"primaryKey" json:"-"`
	Name               string          `gorm:"type:varchar(255)" json:"name"`
	TerminalID         string          `gorm:"type:varchar(20)" json:"terminal_id"`
	Currency           string          `gorm:"type:varchar(3)" json:"currency" validate:"required,len=3"`
	TaxRate            decimal.Decimal `gorm:"type:numeric(6,3)" json:"tax_rate"` // percent
	LoyaltyDiscount    int             `json:"loyalty_discount" validate:"gte=0,lte=100"`
	PointsPerUnit      int             `json:"points_per_unit" validate:"gte=1"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	RequireCustomer    bool            `json:"require_customer"`
	ReceiptHeader      string          `gorm:"type:text" json:"receipt_header"`
	ReceiptFooter      string          `gorm:"type:text" json:"receipt_footer"`
	WebsiteURL         string          `gorm:"type:varchar(255)" json:"website_url" validate:"omitempty,url"`
}

// TaxFraction converts the stored percent into the multiplier used by pricing.
func (s *StoreSettings) TaxFraction() decimal.Decimal {
	return s.TaxRate.Div(decimal.NewFromInt(100))
}

// DefaultStoreSettings mirrors the values a fresh terminal ships with.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		ID:              settingsRowID,
		Name:            "Ayaat Retail Terminal",
		TerminalID:      "TER-01",
		Currency:        "BDT",
		TaxRate:         decimal.NewFromInt(5),
		LoyaltyDiscount: 5,
		PointsPerUnit:   10,
		ReceiptHeader:   "Thank you for choosing Ayaat!",
		ReceiptFooter:   "Warranty valid for 7 days with original receipt.",
		WebsiteURL:      "https://ayaatpos.com",
	}
}

// EmployeeSettings controls staff visibility and shift accounting
type EmployeeSettings struct {
	ID                 uint `gorm:"primaryKey" json:"-"`
	ManagerIsolation   bool `json:"manager_isolation"`
	MaskIdentity       bool `json:"mask_identity"`
	MaxShiftHours      int  `json:"max_shift_hours" validate:"gte=1,lte=24"`
	AutoBreakDeduction bool `json:"auto_break_deduction"`
	AutoBreakMinutes   int  `json:"auto_break_minutes" validate:"gte=0,lte=240"`
	StrictPIN          bool `json:"strict_pin"`
}

func DefaultEmployeeSettings() EmployeeSettings {
	return EmployeeSettings{
		ID:                 settingsRowID,
		ManagerIsolation:   true,
		MaxShiftHours:      8,
		AutoBreakDeduction: true,
		AutoBreakMinutes:   30,
		StrictPIN:          true,
	}
}

// RolePermissions is the editable slice of the permission table shown on the settings screen
type RolePermissions struct {
	Role             Role `gorm:"type:varchar(20);primaryKey" json:"role"`
	VoidSale         bool `json:"void_sale"`
	EditPrice        bool `json:"edit_price"`
	OpenDrawer       bool `json:"open_drawer"`
	RegisterCustomer bool `json:"register_customer"`
}

// StorefrontConfig is the content of the online shop landing page
type StorefrontConfig struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	Name            string `gorm:"type:varchar(255)" json:"name" validate:"required"`
	Domain          string `gorm:"type:varchar(255)" json:"domain" validate:"omitempty,hostname"`
	ThemeColor      string `gorm:"type:varchar(7)" json:"theme_color" validate:"omitempty,hexcolor"`
	HeroTitle       string `gorm:"type:varchar(255)" json:"hero_title"`
	HeroSubtitle    string `gorm:"type:text" json:"hero_subtitle"`
	IsOnline        bool   `json:"is_online"`
	SocialFacebook  bool   `json:"social_facebook"`
	SocialInstagram bool   `json:"social_instagram"`
	SocialWhatsApp  bool   `json:"social_whatsapp"`
}

func DefaultStorefrontConfig() StorefrontConfig {
	return StorefrontConfig{
		ID:              settingsRowID,
		Name:            "Ayaat Digital Hub",
		Domain:          "shop.ayaatpos.com",
		ThemeColor:      "#2563eb",
		HeroTitle:       "Future of Retail is Here.",
		HeroSubtitle:    "Premium electronics delivered to your doorstep with nationwide fulfillment.",
		IsOnline:        true,
		SocialFacebook:  true,
		SocialInstagram: true,
		SocialWhatsApp:  true,
	}
}
