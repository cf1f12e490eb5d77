package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/repository/memory"
	"ayaat-pos/internal/service"
	"ayaat-pos/internal/ws"
	"ayaat-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "secret123"

type testServer struct {
	app   *fiber.App
	repos *repository.Repositories
}

type fixedPresence int

func (p fixedPresence) ClientCount() int { return int(p) }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	repos := memory.New(clk).Repositories()
	policy := authz.NewPolicy()
	hub := ws.NewRecorder()
	tokens := jwt.NewManager("handler-secret", time.Hour, 5*time.Minute).WithClock(clk.Now)
	pin, err := authz.NewPINVerifier("8888")
	require.NoError(t, err)

	for _, u := range []struct {
		name, email string
		role        model.Role
	}{
		{"Alex Admin", "admin@test.local", model.RoleAdmin},
		{"Sarah Manager", "sarah@test.local", model.RoleManager},
		{"Sam Cashier", "sam@test.local", model.RoleCashier},
	} {
		user := &model.User{Name: u.name, Email: u.email, Role: u.role, Status: model.StatusActive}
		require.NoError(t, user.SetPassword(password))
		require.NoError(t, repos.Users.Create(user))
	}

	app := fiber.New()
	Register(app, Services{
		Auth:       service.NewAuthService(repos.Users, tokens, policy),
		Users:      service.NewUserService(repos.Users, repos.Settings, policy),
		Shifts:     service.NewShiftService(repos.Shifts, repos.Settings, policy, hub, clk),
		Inventory:  service.NewInventoryService(repos.Products, policy, tokens, pin, hub, clk),
		Customers:  service.NewCustomerService(repos, policy, hub, clk),
		Checkout:   service.NewCheckoutService(repos, policy, hub, clk),
		Dashboard:  service.NewDashboardService(repos, policy, clk),
		Settings:   service.NewSettingsService(repos, policy, hub),
		Storefront: service.NewStorefrontService(repos, policy, hub, clk),
		Policy:     policy,
		Presence:   fixedPresence(2),
	})
	return &testServer{app: app, repos: repos}
}

// call sends a request and decodes the JSON body into a generic map.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := s.call(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "sam@test.local", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), body["error"])

	status, _ = s.call(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "sam@test.local"})
	assert.Equal(t, http.StatusBadRequest, status)

	token := s.login(t, "sam@test.local")
	status, body = s.call(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sam@test.local", body["email"])

	status, body = s.call(t, http.MethodPost, "/api/v1/auth/validate-token", "", ValidateTokenRequest{Token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["permissions"], string(authz.SaleCreate))
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.call(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	status, body := s.call(t, http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["error"])
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	cashier := s.login(t, "sam@test.local")
	manager := s.login(t, "sarah@test.local")

	status, body := s.call(t, http.MethodGet, "/api/v1/dashboard/sales", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["error"], string(authz.AnalyticsView))

	status, body = s.call(t, http.MethodGet, "/api/v1/dashboard/sales?range=today", manager, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["sale_count"])

	status, _ = s.call(t, http.MethodGet, "/api/v1/terminals", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, body = s.call(t, http.MethodGet, "/api/v1/terminals", manager, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["connected"])

	status, _ = s.call(t, http.MethodPut, "/api/v1/settings/store", manager, model.DefaultStoreSettings())
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.call(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), cashier, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.call(t, http.MethodGet, "/api/v1/products/not-a-uuid", cashier, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCheckoutOverHTTP(t *testing.T) {
	s := newTestServer(t)
	p := &model.Product{SKU: "ELEC-001", Name: "Earbuds", Category: "Electronics", Price: decimal.RequireFromString("39.99"), Stock: 10, MinStock: 2}
	require.NoError(t, s.repos.Products.Create(p))
	cashier := s.login(t, "sam@test.local")

	status, cart := s.call(t, http.MethodPost, "/api/v1/pos/carts", cashier, nil)
	require.Equal(t, http.StatusCreated, status)
	cartPath := fmt.Sprintf("/api/v1/pos/carts/%s", cart["id"])

	status, body := s.call(t, http.MethodPost, cartPath+"/scan", cashier, map[string]string{"sku": "ELEC-001"})
	require.Equal(t, http.StatusOK, status, body)

	status, _ = s.call(t, http.MethodPut, cartPath+"/customer", cashier, map[string]string{"customer_id": uuid.Nil.String()})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.call(t, http.MethodPost, cartPath+"/checkout", cashier, map[string]string{"payment_method": "CASH", "tendered": "20"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.ErrInsufficientPayment.Error(), body["error"])

	status, receipt := s.call(t, http.MethodPost, cartPath+"/checkout", cashier, map[string]string{"payment_method": "CASH", "tendered": "50"})
	require.Equal(t, http.StatusCreated, status, receipt)
	saleID := receipt["id"].(string)

	status, _ = s.call(t, http.MethodGet, "/api/v1/sales/"+saleID, cashier, nil)
	assert.Equal(t, http.StatusOK, status)

	jordan := &model.User{Name: "Jordan Cashier", Email: "jordan@test.local", Role: model.RoleCashier, Status: model.StatusActive}
	require.NoError(t, jordan.SetPassword(password))
	require.NoError(t, s.repos.Users.Create(jordan))
	status, _ = s.call(t, http.MethodGet, "/api/v1/sales/"+saleID, s.login(t, "jordan@test.local"), nil)
	assert.Equal(t, http.StatusNotFound, status, "receipts of other cashiers stay hidden")

	status, _ = s.call(t, http.MethodPost, "/api/v1/sales/"+saleID+"/void", cashier, map[string]string{"reason": "test"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.call(t, http.MethodGet, cartPath, cashier, nil)
	assert.Equal(t, http.StatusNotFound, status, "cart is gone after checkout")
}

func TestQuickAddApproval(t *testing.T) {
	s := newTestServer(t)
	cashier := s.login(t, "sam@test.local")

	status, _ := s.call(t, http.MethodPost, "/api/v1/products/approvals", cashier, map[string]string{"sku": "NEW-1", "pin": "88"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.call(t, http.MethodPost, "/api/v1/products/approvals", cashier, map[string]string{"sku": "NEW-1", "pin": "1234"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.call(t, http.MethodPost, "/api/v1/products/approvals", cashier, map[string]string{"sku": "NEW-1", "pin": "8888"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "NEW-1", body["sku"])
	assert.NotEmpty(t, body["approval_token"])
}

func TestPublicStorefront(t *testing.T) {
	s := newTestServer(t)
	manager := s.login(t, "sarah@test.local")

	status, body := s.call(t, http.MethodGet, "/storefront", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "BDT", body["currency"])

	status, _ = s.call(t, http.MethodPut, "/api/v1/storefront", manager, map[string]interface{}{"name": "Ayaat Shop", "is_online": false})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.call(t, http.MethodGet, "/storefront", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = s.call(t, http.MethodGet, "/api/v1/storefront/preview", manager, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusOf(fmt.Errorf("%w: name", service.ErrValidation)))
	assert.Equal(t, fiber.StatusForbidden, statusOf(authz.ErrInvalidPIN))
	assert.Equal(t, fiber.StatusConflict, statusOf(service.ErrShiftAlreadyOpen))
	assert.Equal(t, fiber.StatusNotFound, statusOf(service.ErrStoreNotFound))
	assert.Equal(t, fiber.StatusInternalServerError, statusOf(errors.New("disk on fire")))
}
