// Package repository defines the storage contracts of the terminal and their
// gorm/postgres implementations. See repository/memory for the in-process store.
package repository

import (
	"errors"
	"time"

	"ayaat-pos/internal/model"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyVoided     = errors.New("sale already voided")
)

// ProductFilter narrows FindAll. Empty fields match everything.
type ProductFilter struct {
	Search     string // name or SKU, case-insensitive
	Category   string
	OnlineOnly bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindLowStock() ([]model.Product, error)
	Categories() ([]string, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	// ImportBatch writes a whole CSV import or nothing.
	ImportBatch(create, update []model.Product) error
}

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(search string) ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByMembershipID(code string) (*model.Customer, error)
	Update(customer *model.Customer) error
}

// SaleFilter narrows sale listings. Zero times are open bounds.
type SaleFilter struct {
	CustomerID *uuid.UUID
	CashierID  *uuid.UUID
	From       time.Time
	To         time.Time
}

// CheckoutOptions carries the store rules applied while committing a sale.
type CheckoutOptions struct {
	AllowNegativeStock bool
}

type SaleRepository interface {
	// Checkout persists the receipt, decrements stock for every line and
	// credits the customer's spend and points, all in one transaction.
	Checkout(sale *model.Sale, opts CheckoutOptions) error
	FindByID(id string) (*model.Sale, error)
	FindAll(filter SaleFilter) ([]model.Sale, error)
	// Void records the reversal, restocks the lines and debits the customer.
	Void(v *model.SaleVoid) error
	FindVoids(saleIDs []string) (map[string]model.SaleVoid, error)
}

type UserRepository interface {
	Create(user *model.User) error
	FindAll() ([]model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uuid.UUID, deletedBy string) error
}

type ShiftRepository interface {
	// ClockIn fails with ErrDuplicate when the user already has an ongoing shift.
	ClockIn(shift *model.Shift) error
	Update(shift *model.Shift) error
	FindByID(id uuid.UUID) (*model.Shift, error)
	FindOngoing(userID uuid.UUID) (*model.Shift, error)
	FindAll(status model.ShiftStatus) ([]model.Shift, error)
}

type StoreRepository interface {
	Create(store *model.Store) error
	FindAll() ([]model.Store, error)
	FindByID(id uuid.UUID) (*model.Store, error)
	Update(store *model.Store) error
	Delete(id uuid.UUID, deletedBy string) error
}

// SettingsRepository stores the singleton configuration rows.
// Getters return the defaults until something has been saved.
type SettingsRepository interface {
	StoreSettings() (*model.StoreSettings, error)
	SaveStoreSettings(s *model.StoreSettings) error
	EmployeeSettings() (*model.EmployeeSettings, error)
	SaveEmployeeSettings(s *model.EmployeeSettings) error
	Storefront() (*model.StorefrontConfig, error)
	SaveStorefront(s *model.StorefrontConfig) error
	Permissions() ([]model.RolePermissions, error)
	SavePermissions(p *model.RolePermissions) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Products  ProductRepository
	Customers CustomerRepository
	Sales     SaleRepository
	Users     UserRepository
	Shifts    ShiftRepository
	Stores    StoreRepository
	Settings  SettingsRepository
}
