// Package authz decides what each role may do at the terminal.
package authz

import (
	"errors"
	"sync"

	"ayaat-pos/internal/model"
)

type Action string

const (
	ProductView          Action = "product:view"
	ProductCreate        Action = "product:create"
	ProductUpdate        Action = "product:update"
	ProductEditPrice     Action = "product:edit_price"
	ProductImport        Action = "product:import"
	ProductExport        Action = "product:export"
	CustomerCreate       Action = "customer:create"
	CustomerUpdate       Action = "customer:update"
	CustomerEditDiscount Action = "customer:edit_discount"
	SaleCreate           Action = "sale:create"
	SaleView             Action = "sale:view"
	SaleVoid             Action = "sale:void"
	DrawerOpen           Action = "drawer:open"
	EmployeeView         Action = "employee:view"
	EmployeeManage       Action = "employee:manage"
	EmployeeManageAdmin  Action = "employee:manage_admin"
	ShiftViewAll         Action = "shift:view_all"
	SettingsManage       Action = "settings:manage"
	AnalyticsView        Action = "analytics:view"
	StorefrontManage     Action = "storefront:manage"
)

// Actions lists every action in display order.
var Actions = []Action{
	ProductView, ProductCreate, ProductUpdate, ProductEditPrice, ProductImport, ProductExport,
	CustomerCreate, CustomerUpdate, CustomerEditDiscount,
	SaleCreate, SaleView, SaleVoid, DrawerOpen,
	EmployeeView, EmployeeManage, EmployeeManageAdmin, ShiftViewAll,
	SettingsManage, AnalyticsView, StorefrontManage,
}

var ErrForbidden = errors.New("forbidden")

// Toggle names the permissions an administrator can flip from the settings screen.
type Toggle string

const (
	ToggleVoidSale         Toggle = "voidSale"
	ToggleEditPrice        Toggle = "editPrice"
	ToggleOpenDrawer       Toggle = "openDrawer"
	ToggleRegisterCustomer Toggle = "registerCustomer"
)

var (
	ErrUnknownToggle  = errors.New("unknown permission toggle")
	ErrImmutableAdmin = errors.New("administrator permissions cannot be changed")
)

var toggleActions = map[Toggle]Action{
	ToggleVoidSale:         SaleVoid,
	ToggleEditPrice:        ProductEditPrice,
	ToggleOpenDrawer:       DrawerOpen,
	ToggleRegisterCustomer: CustomerCreate,
}

type grants map[Action]bool

var defaults = map[model.Role]grants{
	model.RoleCashier: {
		ProductView:    true,
		ProductExport:  true,
		CustomerCreate: true,
		SaleCreate:     true,
		SaleView:       true,
		DrawerOpen:     true,
	},
	model.RoleManager: {
		ProductView:          true,
		ProductCreate:        true,
		ProductUpdate:        true,
		ProductEditPrice:     true,
		ProductImport:        true,
		ProductExport:        true,
		CustomerCreate:       true,
		CustomerUpdate:       true,
		CustomerEditDiscount: true,
		SaleCreate:           true,
		SaleView:             true,
		SaleVoid:             true,
		DrawerOpen:           true,
		EmployeeView:         true,
		EmployeeManage:       true,
		ShiftViewAll:         true,
		AnalyticsView:        true,
		StorefrontManage:     true,
	},
}

// Policy is the live permission table. ADMIN always passes.
type Policy struct {
	mu    sync.RWMutex
	table map[model.Role]grants
}

// NewPolicy returns a policy loaded with the default table.
func NewPolicy() *Policy {
	table := make(map[model.Role]grants, len(defaults))
	for role, g := range defaults {
		cp := make(grants, len(g))
		for a, ok := range g {
			cp[a] = ok
		}
		table[role] = cp
	}
	return &Policy{table: table}
}

// Can reports whether role may perform action. Unknown roles get nothing.
func (p *Policy) Can(role model.Role, action Action) bool {
	if role == model.RoleAdmin {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table[role][action]
}

// Actions returns what role may currently do, in the order of Actions.
func (p *Policy) Actions(role model.Role) []Action {
	out := []Action{}
	for _, a := range Actions {
		if p.Can(role, a) {
			out = append(out, a)
		}
	}
	return out
}

// Require is Can as an error.
func (p *Policy) Require(role model.Role, action Action) error {
	if !p.Can(role, action) {
		return ErrForbidden
	}
	return nil
}

// Set flips one settings toggle for a role.
func (p *Policy) Set(role model.Role, toggle Toggle, allowed bool) error {
	action, ok := toggleActions[toggle]
	if !ok {
		return ErrUnknownToggle
	}
	if role == model.RoleAdmin {
		return ErrImmutableAdmin
	}
	if !role.Valid() {
		return model.ErrInvalidRole
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.table[role][action] = allowed
	return nil
}

// Apply loads a stored toggle row into the table.
func (p *Policy) Apply(rp model.RolePermissions) error {
	if rp.Role == model.RoleAdmin {
		return nil
	}
	for toggle, allowed := range map[Toggle]bool{
		ToggleVoidSale:         rp.VoidSale,
		ToggleEditPrice:        rp.EditPrice,
		ToggleOpenDrawer:       rp.OpenDrawer,
		ToggleRegisterCustomer: rp.RegisterCustomer,
	} {
		if err := p.Set(rp.Role, toggle, allowed); err != nil {
			return err
		}
	}
	return nil
}

// Toggles reports the current toggle row for role.
func (p *Policy) Toggles(role model.Role) model.RolePermissions {
	return model.RolePermissions{
		Role:             role,
		VoidSale:         p.Can(role, SaleVoid),
		EditPrice:        p.Can(role, ProductEditPrice),
		OpenDrawer:       p.Can(role, DrawerOpen),
		RegisterCustomer: p.Can(role, CustomerCreate),
	}
}
