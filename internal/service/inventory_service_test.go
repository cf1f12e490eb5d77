package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventory(t *testing.T) (*fixture, InventoryService) {
	f := newFixture(t)
	pin, err := authz.NewPINVerifier("8888")
	require.NoError(t, err)
	return f, NewInventoryService(f.repos.Products, f.policy, f.tokens, pin, f.hub, f.clock)
}

func TestCashierQuickAddNeedsManagerPIN(t *testing.T) {
	f, svc := newInventory(t)
	in := &ProductInput{SKU: "NEW-100", Name: "USB Cable", Price: dec("4.50"), Stock: 12, Cost: ptr(dec("2"))}

	_, err := svc.CreateProduct(f.cashier, in)
	assert.ErrorIs(t, err, ErrApprovalRequired)

	_, err = svc.ApproveQuickAdd(f.cashier, "NEW-100", "1234")
	assert.ErrorIs(t, err, authz.ErrInvalidPIN)

	approval, err := svc.ApproveQuickAdd(f.cashier, "NEW-100", "8888")
	require.NoError(t, err)
	assert.Equal(t, "NEW-100", approval.SKU)
	assert.Equal(t, start.Add(5*time.Minute), approval.ExpiresAt.UTC())

	in.ApprovalToken = approval.Token
	p, err := svc.CreateProduct(f.cashier, in)
	require.NoError(t, err)
	assert.Equal(t, "NEW-100", p.SKU)
	assertDec(t, "4.50", p.Price)
	assert.True(t, p.Cost.IsZero(), "cashiers cannot set cost")
	assert.Equal(t, 5, p.MinStock)
	assert.Equal(t, "General", p.Category)
	assert.Contains(t, f.hub.Types(), "stock_update/product_created")
}

func TestApprovalIsBoundToSKUAndCashier(t *testing.T) {
	f, svc := newInventory(t)
	other := f.addUser(t, "Jordan Cashier", "jordan@test.local", model.RoleCashier)

	approval, err := svc.ApproveQuickAdd(f.cashier, "NEW-100", "8888")
	require.NoError(t, err)

	_, err = svc.CreateProduct(f.cashier, &ProductInput{SKU: "NEW-200", Name: "Other", Price: dec("1"), ApprovalToken: approval.Token})
	assert.ErrorIs(t, err, ErrApprovalRequired)

	_, err = svc.CreateProduct(other, &ProductInput{SKU: "NEW-100", Name: "Cable", Price: dec("1"), ApprovalToken: approval.Token})
	assert.ErrorIs(t, err, ErrApprovalRequired)

	f.clock.Advance(6 * time.Minute)
	_, err = svc.CreateProduct(f.cashier, &ProductInput{SKU: "NEW-100", Name: "Cable", Price: dec("1"), ApprovalToken: approval.Token})
	assert.ErrorIs(t, err, ErrApprovalRequired, "approval expired")
}

func TestApproveQuickAddRules(t *testing.T) {
	f, svc := newInventory(t)

	_, err := svc.ApproveQuickAdd(f.manager, "NEW-100", "8888")
	assert.ErrorIs(t, err, ErrApprovalNotNeeded)

	_, err = svc.ApproveQuickAdd(f.cashier, "  ", "8888")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCashierAlwaysNeedsApproval(t *testing.T) {
	f, svc := newInventory(t)
	f.employeeSettings(t, func(es *model.EmployeeSettings) { es.StrictPIN = false })

	_, err := svc.CreateProduct(f.cashier, &ProductInput{SKU: "NEW-100", Name: "Cable", Price: dec("1")})
	assert.ErrorIs(t, err, ErrApprovalRequired)
	_, err = f.repos.Products.FindBySKU("NEW-100")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	f, svc := newInventory(t)
	f.addProduct(t, "ELEC-001", "10", 5)

	tests := map[string]struct {
		in   ProductInput
		want error
	}{
		"duplicate sku":  {ProductInput{SKU: "ELEC-001", Name: "Dup", Price: dec("1")}, ErrSKUExists},
		"missing name":   {ProductInput{SKU: "NEW-1", Price: dec("1")}, ErrValidation},
		"missing sku":    {ProductInput{Name: "No SKU", Price: dec("1")}, ErrValidation},
		"negative price": {ProductInput{SKU: "NEW-2", Name: "Neg", Price: dec("-1")}, ErrValidation},
		"bad expiry":     {ProductInput{SKU: "NEW-3", Name: "Milk", Price: dec("1"), ExpiryDate: "tomorrow"}, ErrValidation},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			in := tt.in
			_, err := svc.CreateProduct(f.manager, &in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateProductPricing(t *testing.T) {
	f, svc := newInventory(t)
	p := f.addProduct(t, "ELEC-001", "100", 10)

	expiry := start.Add(48 * time.Hour)
	updated, err := svc.UpdateProduct(f.manager, p.ID, &ProductInput{
		SKU: "ELEC-001", Name: "Headphones", Price: dec("100"), Stock: 8,
		OfferPrice: ptr(dec("80")), OfferExpiryDate: &expiry,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	view, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.True(t, view.PromotionActive)
	assertDec(t, "80", view.EffectivePrice)

	f.clock.Advance(72 * time.Hour)
	view, err = svc.GetBySKU("ELEC-001")
	require.NoError(t, err)
	assert.False(t, view.PromotionActive)
	assertDec(t, "100", view.EffectivePrice)

	_, err = svc.UpdateProduct(f.cashier, p.ID, &ProductInput{SKU: "ELEC-001", Name: "Headphones", Price: dec("1"), Stock: 8})
	assert.ErrorIs(t, err, ErrApprovalRequired)

	approval, err := svc.ApproveQuickAdd(f.cashier, "ELEC-001", "8888")
	require.NoError(t, err)
	updated, err = svc.UpdateProduct(f.cashier, p.ID, &ProductInput{SKU: "ELEC-001", Name: "Headphones", Price: dec("1"), Stock: 7, ApprovalToken: approval.Token})
	require.NoError(t, err)
	assertDec(t, "100", updated.Price)
	assert.Equal(t, 7, updated.Stock)
}

func TestProductQueries(t *testing.T) {
	f, svc := newInventory(t)
	f.addProduct(t, "ELEC-001", "10", 1)
	f.addProduct(t, "ELEC-002", "10", 50)
	low := f.addProduct(t, "ELEC-003", "10", 2)

	lows, err := svc.LowStock()
	require.NoError(t, err)
	require.Len(t, lows, 2)
	assert.Equal(t, "ELEC-001", lows[0].SKU)
	assert.True(t, lows[1].LowStock)

	found, err := svc.ListProducts(repository.ProductFilter{Search: "elec-00"})
	require.NoError(t, err)
	assert.Len(t, found, 3)

	cats, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics"}, cats)

	_, err = svc.SetVisibility(f.cashier, low.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)
	visible, err := svc.SetVisibility(f.manager, low.ID, true)
	require.NoError(t, err)
	assert.True(t, visible.IsVisibleOnline)

	assert.ErrorIs(t, svc.DeleteProduct(f.cashier, low.ID), ErrForbidden)
	require.NoError(t, svc.DeleteProduct(f.manager, low.ID))
	_, err = svc.GetProduct(low.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogCSV(t *testing.T) {
	f, svc := newInventory(t)
	f.addProduct(t, "ELEC-001", "10", 1)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(f.cashier, &buf, repository.ProductFilter{}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "ELEC-001,"))

	csvFile := "SKU,Name,Price,Stock\nELEC-001,Renamed,12,4\nNEW-9,Cable,3.5,20\n,Nameless,1,1\n"
	_, err := svc.ImportCSV(f.cashier, strings.NewReader(csvFile))
	assert.ErrorIs(t, err, ErrForbidden)

	report, err := svc.ImportCSV(f.manager, strings.NewReader(csvFile))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)

	renamed, err := svc.GetBySKU("ELEC-001")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
	assert.Equal(t, 4, renamed.Stock)

	_, err = svc.ImportCSV(f.manager, strings.NewReader("SKU,Name\n"))
	assert.ErrorIs(t, err, ErrValidation)
}
