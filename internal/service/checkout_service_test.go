package service

import (
	"errors"
	"testing"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckout(t *testing.T) (*fixture, CheckoutService) {
	f := newFixture(t)
	f.storeSettings(t, func(s *model.StoreSettings) { s.TaxRate = dec("8") })
	return f, NewCheckoutService(f.repos, f.policy, f.hub, f.clock)
}

func TestCheckoutCashScenario(t *testing.T) {
	f, svc := newCheckout(t)
	f.addProduct(t, "ELEC-001", "39.99", 10)

	cart, err := svc.OpenCart(f.cashier)
	require.NoError(t, err)

	scan, err := svc.Scan(f.cashier, cart.ID, "ELEC-001")
	require.NoError(t, err)
	assert.Equal(t, ScanAdded, scan.Outcome)
	require.NotNil(t, scan.Cart)
	assertDec(t, "39.99", scan.Cart.Totals.Subtotal)
	assertDec(t, "3.1992", scan.Cart.Totals.Tax)
	assertDec(t, "43.1892", scan.Cart.Totals.Total)
	assertDec(t, "43.19", scan.Cart.AmountDue)

	receipt, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCash, Tendered: ptr(dec("50"))})
	require.NoError(t, err)
	assertDec(t, "43.19", receipt.AmountDue)
	require.True(t, receipt.ChangeGiven.Valid)
	assertDec(t, "6.81", receipt.ChangeGiven.Decimal)
	assertDec(t, "50", receipt.CashReceived.Decimal)
	assert.Equal(t, f.cashier.ID, receipt.CashierID)
	assert.Len(t, receipt.Items, 1)
	assert.Equal(t, "BDT", receipt.Currency)

	p, err := f.repos.Products.FindBySKU("ELEC-001")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Stock)

	_, err = svc.GetCart(f.cashier, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound, "cart is discarded after checkout")

	stored, err := svc.GetReceipt(f.cashier, receipt.ID)
	require.NoError(t, err)
	assertDec(t, "43.19", stored.AmountDue)
	assert.Contains(t, f.hub.Types(), "sale_completed/checkout")
}

func TestCheckoutWithMemberDiscountAndPoints(t *testing.T) {
	f, svc := newCheckout(t)
	f.addProduct(t, "ELEC-001", "39.99", 10)
	member := f.addCustomer(t, "MEM-10001", 5)

	cart, err := svc.OpenCart(f.cashier)
	require.NoError(t, err)
	_, err = svc.Scan(f.cashier, cart.ID, "ELEC-001")
	require.NoError(t, err)
	view, err := svc.AttachCustomer(f.cashier, cart.ID, member.ID)
	require.NoError(t, err)
	assertDec(t, "1.9995", view.Totals.Discount)
	assertDec(t, "41.19", view.AmountDue)

	receipt, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, 4, receipt.PointsEarned)
	assert.False(t, receipt.ChangeGiven.Valid)
	require.NotNil(t, receipt.CustomerID)

	c, err := f.repos.Customers.FindByID(member.ID)
	require.NoError(t, err)
	assertDec(t, "41.19", c.TotalSpent)
	assert.Equal(t, 4, c.LoyaltyPoints)
}

func TestCheckoutRejections(t *testing.T) {
	t.Run("insufficient cash keeps the cart", func(t *testing.T) {
		f, svc := newCheckout(t)
		f.addProduct(t, "ELEC-001", "39.99", 10)
		cart, _ := svc.OpenCart(f.cashier)
		_, err := svc.Scan(f.cashier, cart.ID, "ELEC-001")
		require.NoError(t, err)

		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCash, Tendered: ptr(dec("43.18"))})
		assert.ErrorIs(t, err, ErrInsufficientPayment)
		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCash})
		assert.ErrorIs(t, err, ErrInsufficientPayment)

		view, err := svc.GetCart(f.cashier, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, view.Units)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		f, svc := newCheckout(t)
		cart, _ := svc.OpenCart(f.cashier)
		_, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: "CHEQUE"})
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("empty cart", func(t *testing.T) {
		f, svc := newCheckout(t)
		cart, _ := svc.OpenCart(f.cashier)
		_, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("customer required", func(t *testing.T) {
		f, svc := newCheckout(t)
		f.storeSettings(t, func(s *model.StoreSettings) { s.RequireCustomer = true })
		p := f.addProduct(t, "ELEC-001", "10", 10)
		member := f.addCustomer(t, "MEM-10001", 0)

		cart, _ := svc.OpenCart(f.cashier)
		_, err := svc.AddProduct(f.cashier, cart.ID, p.ID)
		require.NoError(t, err)
		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		assert.ErrorIs(t, err, ErrCustomerRequired)

		_, err = svc.AttachCustomer(f.cashier, cart.ID, member.ID)
		require.NoError(t, err)
		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		assert.NoError(t, err)
	})

	t.Run("stock below zero", func(t *testing.T) {
		f, svc := newCheckout(t)
		p := f.addProduct(t, "ELEC-001", "10", 1)
		cart, _ := svc.OpenCart(f.cashier)
		_, err := svc.AddProduct(f.cashier, cart.ID, p.ID)
		require.NoError(t, err)
		_, err = svc.SetQuantity(f.cashier, cart.ID, p.ID, 2)
		require.NoError(t, err)

		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		stored, _ := f.repos.Products.FindByID(p.ID)
		assert.Equal(t, 1, stored.Stock)

		f.storeSettings(t, func(s *model.StoreSettings) { s.AllowNegativeStock = true })
		_, err = svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		require.NoError(t, err)
		stored, _ = f.repos.Products.FindByID(p.ID)
		assert.Equal(t, -1, stored.Stock)
	})
}

func TestCartIsPricedWhenAdded(t *testing.T) {
	f, svc := newCheckout(t)
	f.storeSettings(t, func(s *model.StoreSettings) { s.TaxRate = dec("0") })
	p := f.addProduct(t, "ELEC-001", "20", 5)

	cart, _ := svc.OpenCart(f.cashier)
	_, err := svc.AddProduct(f.cashier, cart.ID, p.ID)
	require.NoError(t, err)

	p.Price = dec("25")
	require.NoError(t, f.repos.Products.Update(p))

	view, err := svc.AddProduct(f.cashier, cart.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Units)
	assertDec(t, "40", view.Totals.Subtotal)
}

func TestScanUnknownSKU(t *testing.T) {
	f, svc := newCheckout(t)

	cart, _ := svc.OpenCart(f.cashier)
	res, err := svc.Scan(f.cashier, cart.ID, "NEW-999")
	require.NoError(t, err)
	assert.Equal(t, ScanManagerApprovalRequired, res.Outcome)
	assert.Equal(t, "NEW-999", res.SKU)
	assert.Nil(t, res.Cart)

	f.addProduct(t, "ELEC-001", "10", 5)
	res, err = svc.Scan(f.cashier, cart.ID, " ELEC-001")
	require.NoError(t, err)
	assert.Equal(t, ScanManagerApprovalRequired, res.Outcome, "lookup is exact")
	res, err = svc.Scan(f.cashier, cart.ID, "elec-001")
	require.NoError(t, err)
	assert.Equal(t, ScanManagerApprovalRequired, res.Outcome, "lookup is case-sensitive")

	mcart, _ := svc.OpenCart(f.manager)
	res, err = svc.Scan(f.manager, mcart.ID, "NEW-999")
	require.NoError(t, err)
	assert.Equal(t, ScanCreateProduct, res.Outcome)
}

func TestCartsBelongToTheirCashier(t *testing.T) {
	f, svc := newCheckout(t)
	other := f.addUser(t, "Jordan Cashier", "jordan@test.local", model.RoleCashier)

	cart, _ := svc.OpenCart(f.cashier)
	_, err := svc.GetCart(other, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.ErrorIs(t, svc.CloseCart(other, cart.ID), ErrCartNotFound)

	mine, err := svc.ListCarts(f.cashier)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.ListCarts(other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	require.NoError(t, svc.CloseCart(f.cashier, cart.ID))
	_, err = svc.GetCart(f.cashier, uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestSetDiscount(t *testing.T) {
	f, svc := newCheckout(t)
	f.storeSettings(t, func(s *model.StoreSettings) { s.TaxRate = dec("0") })
	p := f.addProduct(t, "ELEC-001", "100", 5)
	member := f.addCustomer(t, "MEM-10001", 5)

	cart, _ := svc.OpenCart(f.manager)
	_, _ = svc.AddProduct(f.manager, cart.ID, p.ID)
	_, err := svc.AttachCustomer(f.manager, cart.ID, member.ID)
	require.NoError(t, err)

	view, err := svc.SetDiscount(f.manager, cart.ID, ptr(20))
	require.NoError(t, err)
	assertDec(t, "80", view.AmountDue)

	_, err = svc.SetDiscount(f.manager, cart.ID, ptr(101))
	assert.ErrorIs(t, err, ErrValidation)

	view, err = svc.SetDiscount(f.manager, cart.ID, nil)
	require.NoError(t, err)
	assertDec(t, "95", view.AmountDue)

	ccart, _ := svc.OpenCart(f.cashier)
	_, err = svc.SetDiscount(f.cashier, ccart.ID, ptr(50))
	assert.ErrorIs(t, err, ErrForbidden)

	view, err = svc.Clear(f.manager, cart.ID)
	require.NoError(t, err)
	assert.Zero(t, view.Units)
	assert.Nil(t, view.Customer)
}

func TestVoidSale(t *testing.T) {
	f, svc := newCheckout(t)
	p := f.addProduct(t, "ELEC-001", "39.99", 10)
	member := f.addCustomer(t, "MEM-10001", 5)

	cart, _ := svc.OpenCart(f.cashier)
	_, _ = svc.AddProduct(f.cashier, cart.ID, p.ID)
	_, _ = svc.AttachCustomer(f.cashier, cart.ID, member.ID)
	receipt, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentWallet})
	require.NoError(t, err)

	_, err = svc.VoidSale(f.cashier, receipt.ID, "customer changed mind")
	assert.ErrorIs(t, err, ErrForbidden)

	voided, err := svc.VoidSale(f.manager, receipt.ID, "  customer changed mind ")
	require.NoError(t, err)
	require.NotNil(t, voided.Voided)
	assert.Equal(t, "customer changed mind", voided.Voided.Reason)
	assert.Equal(t, f.manager.ID, voided.Voided.VoidedBy)

	stored, _ := f.repos.Products.FindByID(p.ID)
	assert.Equal(t, 10, stored.Stock)
	c, _ := f.repos.Customers.FindByID(member.ID)
	assert.True(t, c.TotalSpent.IsZero())
	assert.Zero(t, c.LoyaltyPoints)

	_, err = svc.VoidSale(f.manager, receipt.ID, "")
	assert.ErrorIs(t, err, ErrSaleAlreadyVoided)
	_, err = svc.VoidSale(f.manager, "SALE-MISSING", "")
	assert.ErrorIs(t, err, ErrSaleNotFound)
	assert.Contains(t, f.hub.Types(), "sale_voided/void")
}

func TestListSalesScopedToCashier(t *testing.T) {
	f, svc := newCheckout(t)
	p := f.addProduct(t, "ELEC-001", "5", 10)

	sell := func(actor Actor) {
		cart, err := svc.OpenCart(actor)
		require.NoError(t, err)
		_, err = svc.AddProduct(actor, cart.ID, p.ID)
		require.NoError(t, err)
		_, err = svc.Checkout(actor, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
		require.NoError(t, err)
	}
	sell(f.cashier)
	sell(f.manager)

	own, err := svc.ListSales(f.cashier, repository.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.cashier.ID, own[0].CashierID)

	all, err := svc.ListSales(f.manager, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReceiptsScopedToCashier(t *testing.T) {
	f, svc := newCheckout(t)
	other := f.addUser(t, "Jordan Cashier", "jordan@test.local", model.RoleCashier)
	p := f.addProduct(t, "ELEC-001", "10", 10)

	cart, err := svc.OpenCart(f.cashier)
	require.NoError(t, err)
	_, err = svc.AddProduct(f.cashier, cart.ID, p.ID)
	require.NoError(t, err)
	receipt, err := svc.Checkout(f.cashier, cart.ID, CheckoutRequest{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)

	_, err = svc.GetReceipt(other, receipt.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	own, err := svc.GetReceipt(f.cashier, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, f.cashier.ID, own.CashierID)

	seen, err := svc.GetReceipt(f.manager, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, seen.ID)

	voided, err := svc.VoidSale(f.manager, receipt.ID, "wrong item")
	require.NoError(t, err)
	require.NotNil(t, voided.Voided)
}

func TestOpenDrawer(t *testing.T) {
	f, svc := newCheckout(t)
	require.NoError(t, svc.OpenDrawer(f.cashier))
	assert.Contains(t, f.hub.Types(), "drawer/drawer_opened")

	require.NoError(t, f.policy.Set(model.RoleCashier, "openDrawer", false))
	err := svc.OpenDrawer(f.cashier)
	assert.True(t, errors.Is(err, ErrForbidden))
}
