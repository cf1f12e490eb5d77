package service

import (
	"testing"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/repository/memory"
	"ayaat-pos/internal/ws"
	"ayaat-pos/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

const testPassword = "secret123"

type fixture struct {
	clock  *clock.MockClock
	repos  *repository.Repositories
	policy *authz.Policy
	hub    *ws.Recorder
	tokens *jwt.Manager

	admin   Actor
	manager Actor
	cashier Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewMockClock(start)
	f := &fixture{
		clock:  clk,
		repos:  memory.New(clk).Repositories(),
		policy: authz.NewPolicy(),
		hub:    ws.NewRecorder(),
		tokens: jwt.NewManager("test-secret", time.Hour, 5*time.Minute).WithClock(clk.Now),
	}
	f.admin = f.addUser(t, "Alex Admin", "admin@test.local", model.RoleAdmin)
	f.manager = f.addUser(t, "Sarah Manager", "sarah@test.local", model.RoleManager)
	f.cashier = f.addUser(t, "Sam Cashier", "sam@test.local", model.RoleCashier)
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role model.Role) Actor {
	t.Helper()
	u := &model.User{Name: name, Email: email, Role: role, Status: model.StatusActive, Phone: "555-0100"}
	require.NoError(t, u.SetPassword(testPassword))
	require.NoError(t, f.repos.Users.Create(u))
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f *fixture) addProduct(t *testing.T, sku, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{SKU: sku, Name: "Product " + sku, Category: "Electronics", Price: dec(price), Cost: dec("1"), Stock: stock, MinStock: 2}
	require.NoError(t, f.repos.Products.Create(p))
	return p
}

func (f *fixture) addCustomer(t *testing.T, code string, discount int) *model.Customer {
	t.Helper()
	c := &model.Customer{MembershipID: code, Name: "Member " + code, Phone: "01700000000", DiscountLevel: discount, TotalSpent: decimal.Zero, JoinDate: start}
	require.NoError(t, f.repos.Customers.Create(c))
	return c
}

func (f *fixture) storeSettings(t *testing.T, edit func(s *model.StoreSettings)) {
	t.Helper()
	st, err := f.repos.Settings.StoreSettings()
	require.NoError(t, err)
	edit(st)
	require.NoError(t, f.repos.Settings.SaveStoreSettings(st))
}

func (f *fixture) employeeSettings(t *testing.T, edit func(s *model.EmployeeSettings)) {
	t.Helper()
	es, err := f.repos.Settings.EmployeeSettings()
	require.NoError(t, err)
	edit(es)
	require.NoError(t, f.repos.Settings.SaveEmployeeSettings(es))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
