package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/pricing"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrCustomerRequired     = errors.New("a customer must be attached before checkout")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrInvalidPaymentMethod = errors.New("payment method must be CASH, CARD or WALLET")
	ErrInsufficientPayment  = errors.New("amount tendered is less than the amount due")
	ErrInsufficientStock    = repository.ErrInsufficientStock
	ErrSaleNotFound         = errors.New("sale not found")
	ErrSaleAlreadyVoided    = repository.ErrAlreadyVoided
)

// Scan outcomes
const (
	ScanAdded                   = "added"
	ScanManagerApprovalRequired = "manager_approval_required"
	ScanCreateProduct           = "create_product"
)

type cart struct {
	id               uuid.UUID
	cashierID        uuid.UUID
	lines            pricing.Cart
	customerID       *uuid.UUID
	discountOverride *int
	openedAt         time.Time
	updatedAt        time.Time
}

// CartView is an open cart with its totals at the current tax rate.
type CartView struct {
	ID               uuid.UUID       `json:"id"`
	CashierID        uuid.UUID       `json:"cashier_id"`
	Items            pricing.Cart    `json:"items"`
	Units            int             `json:"units"`
	Customer         *model.Customer `json:"customer,omitempty"`
	DiscountOverride *int            `json:"discount_override,omitempty"`
	Totals           pricing.Totals  `json:"totals"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	OpenedAt         time.Time       `json:"opened_at"`
}

// ScanResult tells the terminal what to do after a barcode read.
type ScanResult struct {
	Outcome string    `json:"outcome"`
	SKU     string    `json:"sku"`
	Cart    *CartView `json:"cart,omitempty"`
}

type CheckoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Tendered      *decimal.Decimal    `json:"tendered"`
}

// Receipt is a stored sale plus the store text printed around it.
type Receipt struct {
	model.Sale
	Voided     *model.SaleVoid `json:"void,omitempty"`
	StoreName  string          `json:"store_name"`
	TerminalID string          `json:"terminal_id"`
	Currency   string          `json:"currency"`
	Header     string          `json:"receipt_header"`
	Footer     string          `json:"receipt_footer"`
}

type CheckoutService interface {
	OpenCart(actor Actor) (*CartView, error)
	GetCart(actor Actor, cartID uuid.UUID) (*CartView, error)
	ListCarts(actor Actor) ([]CartView, error)
	CloseCart(actor Actor, cartID uuid.UUID) error
	Scan(actor Actor, cartID uuid.UUID, sku string) (*ScanResult, error)
	AddProduct(actor Actor, cartID, productID uuid.UUID) (*CartView, error)
	SetQuantity(actor Actor, cartID, productID uuid.UUID, quantity int) (*CartView, error)
	AttachCustomer(actor Actor, cartID, customerID uuid.UUID) (*CartView, error)
	DetachCustomer(actor Actor, cartID uuid.UUID) (*CartView, error)
	SetDiscount(actor Actor, cartID uuid.UUID, percent *int) (*CartView, error)
	Clear(actor Actor, cartID uuid.UUID) (*CartView, error)
	Checkout(actor Actor, cartID uuid.UUID, req CheckoutRequest) (*Receipt, error)

	GetReceipt(actor Actor, id string) (*Receipt, error)
	ListSales(actor Actor, filter repository.SaleFilter) ([]model.Sale, error)
	VoidSale(actor Actor, id, reason string) (*Receipt, error)
	OpenDrawer(actor Actor) error
}

type checkoutService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
	policy       *authz.Policy
	hub          ws.Publisher
	clock        clock.Clock

	mu    sync.Mutex
	carts map[uuid.UUID]*cart
}

func NewCheckoutService(repos *repository.Repositories, policy *authz.Policy, hub ws.Publisher, clk clock.Clock) CheckoutService {
	return &checkoutService{
		productRepo:  repos.Products,
		customerRepo: repos.Customers,
		saleRepo:     repos.Sales,
		settingsRepo: repos.Settings,
		policy:       policy,
		hub:          hub,
		clock:        clk,
		carts:        make(map[uuid.UUID]*cart),
	}
}

// withCart runs fn on the actor's cart under the cart lock.
func (s *checkoutService) withCart(actor Actor, cartID uuid.UUID, fn func(c *cart) error) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok || c.cashierID != actor.ID {
		return nil, ErrCartNotFound
	}
	if fn != nil {
		if err := fn(c); err != nil {
			return nil, err
		}
		c.updatedAt = s.clock.Now()
	}
	return s.render(c)
}

func (s *checkoutService) customerFor(c *cart) (*model.Customer, error) {
	if c.customerID == nil {
		return nil, nil
	}
	cust, err := s.customerRepo.FindByID(*c.customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if c.discountOverride != nil {
		cust.DiscountLevel = *c.discountOverride
	}
	return cust, nil
}

func (s *checkoutService) render(c *cart) (*CartView, error) {
	settings, err := s.settingsRepo.StoreSettings()
	if err != nil {
		return nil, err
	}
	cust, err := s.customerFor(c)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(c.lines, settings.TaxFraction(), cust)
	items := append(pricing.Cart{}, c.lines...)
	return &CartView{
		ID:               c.id,
		CashierID:        c.cashierID,
		Items:            items,
		Units:            c.lines.Units(),
		Customer:         cust,
		DiscountOverride: c.discountOverride,
		Totals:           totals,
		AmountDue:        totals.Due(),
		OpenedAt:         c.openedAt,
	}, nil
}

func (s *checkoutService) OpenCart(actor Actor) (*CartView, error) {
	if err := s.policy.Require(actor.Role, authz.SaleCreate); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	c := &cart{id: uuid.New(), cashierID: actor.ID, openedAt: now, updatedAt: now}
	s.mu.Lock()
	s.carts[c.id] = c
	s.mu.Unlock()
	return s.withCart(actor, c.id, nil)
}

func (s *checkoutService) GetCart(actor Actor, cartID uuid.UUID) (*CartView, error) {
	return s.withCart(actor, cartID, nil)
}

func (s *checkoutService) ListCarts(actor Actor) ([]CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []CartView{}
	for _, c := range s.carts {
		if c.cashierID != actor.ID {
			continue
		}
		v, err := s.render(c)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *checkoutService) CloseCart(actor Actor, cartID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok || c.cashierID != actor.ID {
		return ErrCartNotFound
	}
	delete(s.carts, cartID)
	return nil
}

// Scan adds the product on a hit. On a miss it tells the terminal which
// form to show: the PIN prompt for cashiers, the product form for everyone else.
func (s *checkoutService) Scan(actor Actor, cartID uuid.UUID, sku string) (*ScanResult, error) {
	p, err := s.productRepo.FindBySKU(sku)
	if errors.Is(err, repository.ErrNotFound) {
		if _, err := s.withCart(actor, cartID, nil); err != nil {
			return nil, err
		}
		outcome := ScanCreateProduct
		if !s.policy.Can(actor.Role, authz.ProductCreate) {
			outcome = ScanManagerApprovalRequired
		}
		return &ScanResult{Outcome: outcome, SKU: sku}, nil
	}
	if err != nil {
		return nil, err
	}

	view, err := s.withCart(actor, cartID, func(c *cart) error {
		c.lines = pricing.AddLineItem(c.lines, p, s.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ScanResult{Outcome: ScanAdded, SKU: sku, Cart: view}, nil
}

func (s *checkoutService) AddProduct(actor Actor, cartID, productID uuid.UUID) (*CartView, error) {
	p, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.withCart(actor, cartID, func(c *cart) error {
		c.lines = pricing.AddLineItem(c.lines, p, s.clock.Now())
		return nil
	})
}

func (s *checkoutService) SetQuantity(actor Actor, cartID, productID uuid.UUID, quantity int) (*CartView, error) {
	return s.withCart(actor, cartID, func(c *cart) error {
		c.lines = pricing.SetQuantity(c.lines, productID, quantity)
		return nil
	})
}

func (s *checkoutService) AttachCustomer(actor Actor, cartID, customerID uuid.UUID) (*CartView, error) {
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.withCart(actor, cartID, func(c *cart) error {
		id := customerID
		c.customerID = &id
		return nil
	})
}

func (s *checkoutService) DetachCustomer(actor Actor, cartID uuid.UUID) (*CartView, error) {
	return s.withCart(actor, cartID, func(c *cart) error {
		c.customerID = nil
		c.discountOverride = nil
		return nil
	})
}

// SetDiscount overrides the membership rate for this cart. nil restores the customer's own level.
func (s *checkoutService) SetDiscount(actor Actor, cartID uuid.UUID, percent *int) (*CartView, error) {
	if err := s.policy.Require(actor.Role, authz.CustomerEditDiscount); err != nil {
		return nil, err
	}
	if percent != nil && (*percent < 0 || *percent > 100) {
		return nil, invalid("discount must be between 0 and 100")
	}
	return s.withCart(actor, cartID, func(c *cart) error {
		if percent == nil {
			c.discountOverride = nil
			return nil
		}
		v := *percent
		c.discountOverride = &v
		return nil
	})
}

func (s *checkoutService) Clear(actor Actor, cartID uuid.UUID) (*CartView, error) {
	return s.withCart(actor, cartID, func(c *cart) error {
		c.lines = nil
		c.customerID = nil
		c.discountOverride = nil
		return nil
	})
}

func newSaleID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "SALE-" + raw[:9]
}

func (s *checkoutService) Checkout(actor Actor, cartID uuid.UUID, req CheckoutRequest) (*Receipt, error) {
	if err := s.policy.Require(actor.Role, authz.SaleCreate); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok || c.cashierID != actor.ID {
		return nil, ErrCartNotFound
	}
	if len(c.lines) == 0 {
		return nil, ErrCartEmpty
	}

	settings, err := s.settingsRepo.StoreSettings()
	if err != nil {
		return nil, err
	}
	if settings.RequireCustomer && c.customerID == nil {
		return nil, ErrCustomerRequired
	}
	cust, err := s.customerFor(c)
	if err != nil {
		return nil, err
	}

	totals := pricing.Compute(c.lines, settings.TaxFraction(), cust)
	due := totals.Due()

	sale := &model.Sale{
		ID:            newSaleID(),
		Timestamp:     s.clock.Now(),
		Subtotal:      totals.Subtotal,
		TaxRate:       totals.TaxRate,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		AmountDue:     due,
		PaymentMethod: req.PaymentMethod,
		CashierID:     actor.ID,
		CashierName:   actor.Name,
	}

	if req.PaymentMethod == model.PaymentCash {
		if req.Tendered == nil || !pricing.Sufficient(*req.Tendered, due) {
			return nil, ErrInsufficientPayment
		}
		sale.CashReceived = decimal.NewNullDecimal(*req.Tendered)
		sale.ChangeGiven = decimal.NewNullDecimal(pricing.ChangeDue(*req.Tendered, due))
	}

	if cust != nil {
		id := cust.ID
		sale.CustomerID = &id
		sale.CustomerName = cust.Name
		if settings.PointsPerUnit > 0 {
			sale.PointsEarned = int(due.Div(decimal.NewFromInt(int64(settings.PointsPerUnit))).IntPart())
		}
	}

	for _, l := range c.lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	if err := s.saleRepo.Checkout(sale, repository.CheckoutOptions{AllowNegativeStock: settings.AllowNegativeStock}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrProductNotFound, err)
		}
		return nil, err
	}
	delete(s.carts, cartID)

	s.hub.Publish(ws.Event{
		Type:   ws.TypeSaleCompleted,
		Action: "checkout",
		Data: map[string]interface{}{
			"id": sale.ID, "amount_due": sale.AmountDue, "payment_method": sale.PaymentMethod,
			"units": sale.Units(), "customer_id": sale.CustomerID,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s completed sale %s", actor.Name, sale.ID),
	})
	return s.receipt(sale, nil, settings), nil
}

func (s *checkoutService) receipt(sale *model.Sale, v *model.SaleVoid, st *model.StoreSettings) *Receipt {
	return &Receipt{
		Sale:       *sale,
		Voided:     v,
		StoreName:  st.Name,
		TerminalID: st.TerminalID,
		Currency:   st.Currency,
		Header:     st.ReceiptHeader,
		Footer:     st.ReceiptFooter,
	}
}

// GetReceipt hides other cashiers' receipts from actors without analytics:view.
func (s *checkoutService) GetReceipt(actor Actor, id string) (*Receipt, error) {
	receipt, err := s.loadReceipt(id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Can(actor.Role, authz.AnalyticsView) && receipt.CashierID != actor.ID {
		return nil, ErrSaleNotFound
	}
	return receipt, nil
}

func (s *checkoutService) loadReceipt(id string) (*Receipt, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	voids, err := s.saleRepo.FindVoids([]string{id})
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.StoreSettings()
	if err != nil {
		return nil, err
	}
	var v *model.SaleVoid
	if found, ok := voids[id]; ok {
		v = &found
	}
	return s.receipt(sale, v, settings), nil
}

// ListSales shows cashiers their own receipts only.
func (s *checkoutService) ListSales(actor Actor, filter repository.SaleFilter) ([]model.Sale, error) {
	if err := s.policy.Require(actor.Role, authz.SaleView); err != nil {
		return nil, err
	}
	if !s.policy.Can(actor.Role, authz.AnalyticsView) {
		id := actor.ID
		filter.CashierID = &id
	}
	return s.saleRepo.FindAll(filter)
}

func (s *checkoutService) VoidSale(actor Actor, id, reason string) (*Receipt, error) {
	if err := s.policy.Require(actor.Role, authz.SaleVoid); err != nil {
		return nil, err
	}
	v := &model.SaleVoid{
		SaleID:     id,
		VoidedAt:   s.clock.Now(),
		VoidedBy:   actor.ID,
		VoidedName: actor.Name,
		Reason:     strings.TrimSpace(reason),
	}
	if err := s.saleRepo.Void(v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	s.hub.Publish(ws.Event{
		Type:    ws.TypeSaleVoided,
		Action:  "void",
		Data:    map[string]interface{}{"id": id, "reason": v.Reason},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s voided sale %s", actor.Name, id),
	})
	return s.loadReceipt(id)
}

func (s *checkoutService) OpenDrawer(actor Actor) error {
	if err := s.policy.Require(actor.Role, authz.DrawerOpen); err != nil {
		return err
	}
	s.hub.Publish(ws.Event{
		Type:    ws.TypeDrawer,
		Action:  "drawer_opened",
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s opened the cash drawer", actor.Name),
	})
	return nil
}
