package model

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the employee role carried in the session token
type Role string

// Role codes as constants
const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// Roles lists every role, most privileged first.
var Roles = []Role{RoleAdmin, RoleManager, RoleCashier}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// UserStatus is the presence state shown on the staff screen
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
	StatusOnBreak  UserStatus = "ON_BREAK"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnBreak:
		return true
	}
	return false
}
