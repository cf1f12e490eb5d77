// Package memory is an in-process implementation of every repository.
// All entities share one lock so checkout and void stay atomic.
package memory

import (
	"sort"
	"sync"

	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	products  map[uuid.UUID]model.Product
	customers map[uuid.UUID]model.Customer
	sales     map[string]model.Sale
	voids     map[string]model.SaleVoid
	users     map[uuid.UUID]model.User
	shifts    map[uuid.UUID]model.Shift
	stores    map[uuid.UUID]model.Store

	storeSettings    model.StoreSettings
	employeeSettings model.EmployeeSettings
	storefront       model.StorefrontConfig
	permissions      map[model.Role]model.RolePermissions
}

// New returns an empty store with default settings.
func New(clk clock.Clock) *Store {
	return &Store{
		clock:            clk,
		products:         make(map[uuid.UUID]model.Product),
		customers:        make(map[uuid.UUID]model.Customer),
		sales:            make(map[string]model.Sale),
		voids:            make(map[string]model.SaleVoid),
		users:            make(map[uuid.UUID]model.User),
		shifts:           make(map[uuid.UUID]model.Shift),
		stores:           make(map[uuid.UUID]model.Store),
		storeSettings:    model.DefaultStoreSettings(),
		employeeSettings: model.DefaultEmployeeSettings(),
		storefront:       model.DefaultStorefrontConfig(),
		permissions:      make(map[model.Role]model.RolePermissions),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Products:  &productRepo{s},
		Customers: &customerRepo{s},
		Sales:     &saleRepo{s},
		Users:     &userRepo{s},
		Shifts:    &shiftRepo{s},
		Stores:    &storeRepo{s},
		Settings:  &settingsRepo{s},
	}
}

// stamp fills id and timestamps the way gorm hooks would.
func (s *Store) stamp(b *model.BaseModel, creating bool) {
	now := s.clock.Now()
	if creating {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
