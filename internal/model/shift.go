package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus tells whether the employee is still clocked in
type ShiftStatus string

const (
	ShiftOngoing   ShiftStatus = "ONGOING"
	ShiftCompleted ShiftStatus = "COMPLETED"
)

// Shift represents one clock-in/clock-out work session
type Shift struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName  string      `gorm:"type:varchar(255)" json:"user_name"`
	StartTime time.Time   `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Duration  int         `gorm:"default:0" json:"duration"` // minutes, set on clock out
	Status    ShiftStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}

// TableName specifies the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// Elapsed returns how long the session has run as of now.
func (s *Shift) Elapsed(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}

// ShiftAlert flags an ongoing session that exceeded the configured maximum
type ShiftAlert struct {
	ShiftID      uuid.UUID `json:"shift_id"`
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	StartTime    time.Time `json:"start_time"`
	ElapsedHours float64   `json:"elapsed_hours"`
	LimitHours   int       `json:"limit_hours"`
}
