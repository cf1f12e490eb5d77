package repository

import "gorm.io/gorm"

// NewGormRepositories wires every postgres-backed repository onto one pool.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products:  NewProductRepo(db),
		Customers: NewCustomerRepo(db),
		Sales:     NewSaleRepo(db),
		Users:     NewUserRepo(db),
		Shifts:    NewShiftRepo(db),
		Stores:    NewStoreRepo(db),
		Settings:  NewSettingsRepo(db),
	}
}
