package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an employee who can sign in to a terminal
type User struct {
	BaseModel
	Name     string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email    string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Phone    string     `gorm:"type:varchar(20)" json:"phone"`
	Role     Role       `gorm:"type:varchar(20);not null;index" json:"role" validate:"required,oneof=ADMIN MANAGER CASHIER"`
	Status   UserStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE ON_BREAK"`
	JoinDate *time.Time `gorm:"type:date" json:"join_date,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// CanSignIn is false for deactivated accounts. Staff on break may still sign in.
func (u *User) CanSignIn() bool {
	return u.Status != StatusInactive
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
	JoinDate string     `json:"join_date,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	response := UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   u.Role,
		Status: u.Status,
	}
	if u.JoinDate != nil {
		response.JoinDate = u.JoinDate.Format(DateLayout)
	}
	return response
}

// Masked hides contact details for viewers without identity access.
func (r UserResponse) Masked() UserResponse {
	const mask = "•••••••••••"
	r.Email = mask
	if r.Phone != "" {
		r.Phone = mask
	}
	return r
}
