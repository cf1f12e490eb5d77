package model

// StoreStatus is the operating state of a branch
type StoreStatus string

const (
	StoreOpen        StoreStatus = "OPEN"
	StoreClosed      StoreStatus = "CLOSED"
	StoreMaintenance StoreStatus = "MAINTENANCE"
)

// Store is a physical branch running one or more terminals
type Store struct {
	BaseModel
	Name          string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Code          string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required,max=20"`
	Address       string      `gorm:"type:text" json:"address"`
	Phone         string      `gorm:"type:varchar(20)" json:"phone"`
	Status        StoreStatus `gorm:"type:varchar(20);default:'OPEN'" json:"status" validate:"omitempty,oneof=OPEN CLOSED MAINTENANCE"`
	TerminalCount int         `gorm:"default:1" json:"terminal_count" validate:"gte=0"`
}
