package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/catalog"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/pricing"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUExists         = errors.New("SKU already exists")
	ErrApprovalRequired  = errors.New("manager approval required")
	ErrApprovalNotNeeded = errors.New("role does not need manager approval")
)

// ApprovalIssuer signs the SKU-bound override tokens handed out after a PIN check.
type ApprovalIssuer interface {
	GenerateApproval(sku string, cashierID uuid.UUID) (string, time.Time, error)
	ValidateApproval(token, sku string, cashierID uuid.UUID) error
}

// PINChecker verifies the shared manager code.
type PINChecker interface {
	Verify(pin string) error
}

// ProductInput is the create/update payload. Pointer fields left nil keep
// their current value on update.
type ProductInput struct {
	SKU                 string           `json:"sku"`
	Name                string           `json:"name"`
	Category            string           `json:"category"`
	Description         string           `json:"description"`
	ImageURL            string           `json:"image_url"`
	BatchNumber         string           `json:"batch_number"`
	ExpiryDate          string           `json:"expiry_date"` // YYYY-MM-DD
	Price               decimal.Decimal  `json:"price"`
	Stock               int              `json:"stock"`
	MinStock            *int             `json:"min_stock"`
	Cost                *decimal.Decimal `json:"cost"`
	OfferPrice          *decimal.Decimal `json:"offer_price"`
	IsOfferManualActive *bool            `json:"is_offer_manual_active"`
	OfferExpiryDate     *time.Time       `json:"offer_expiry_date"`
	ClearManualOffer    bool             `json:"clear_manual_offer"`
	IsVisibleOnline     *bool            `json:"is_visible_online"`
	ApprovalToken       string           `json:"approval_token"`
}

// ProductView is a product with its price resolved at read time.
type ProductView struct {
	model.Product
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	PromotionActive bool            `json:"promotion_active"`
	LowStock        bool            `json:"low_stock"`
}

// Approval is the response to a correct manager PIN.
type Approval struct {
	SKU       string    `json:"sku"`
	Token     string    `json:"approval_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type InventoryService interface {
	CreateProduct(actor Actor, in *ProductInput) (*model.Product, error)
	UpdateProduct(actor Actor, id uuid.UUID, in *ProductInput) (*model.Product, error)
	DeleteProduct(actor Actor, id uuid.UUID) error
	SetVisibility(actor Actor, id uuid.UUID, visible bool) (*model.Product, error)
	GetProduct(id uuid.UUID) (*ProductView, error)
	GetBySKU(sku string) (*ProductView, error)
	ListProducts(filter repository.ProductFilter) ([]ProductView, error)
	LowStock() ([]ProductView, error)
	Categories() ([]string, error)
	ApproveQuickAdd(actor Actor, sku, pin string) (*Approval, error)
	ExportCSV(actor Actor, w io.Writer, filter repository.ProductFilter) error
	ImportCSV(actor Actor, r io.Reader) (*catalog.Report, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	policy      *authz.Policy
	approvals   ApprovalIssuer
	pin         PINChecker
	hub         ws.Publisher
	clock       clock.Clock
}

func NewInventoryService(pRepo repository.ProductRepository, policy *authz.Policy,
	approvals ApprovalIssuer, pin PINChecker, hub ws.Publisher, clk clock.Clock) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		policy:      policy,
		approvals:   approvals,
		pin:         pin,
		hub:         hub,
		clock:       clk,
	}
}

func (s *inventoryService) view(p model.Product) ProductView {
	now := s.clock.Now()
	return ProductView{
		Product:         p,
		EffectivePrice:  pricing.EffectivePrice(&p, now),
		PromotionActive: pricing.IsPromotionActive(&p, now),
		LowStock:        p.IsLowStock(),
	}
}

func (s *inventoryService) views(products []model.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = s.view(p)
	}
	return out
}

// authorize passes holders of action, or a cashier presenting an override for sku.
func (s *inventoryService) authorize(actor Actor, action authz.Action, sku, token string) error {
	if s.policy.Can(actor.Role, action) {
		return nil
	}
	if actor.Role != model.RoleCashier {
		return ErrForbidden
	}
	if token == "" {
		return ErrApprovalRequired
	}
	if err := s.approvals.ValidateApproval(token, sku, actor.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrApprovalRequired, err)
	}
	return nil
}

func (s *inventoryService) ApproveQuickAdd(actor Actor, sku, pin string) (*Approval, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, invalid("sku is required")
	}
	if s.policy.Can(actor.Role, authz.ProductCreate) {
		return nil, ErrApprovalNotNeeded
	}
	if err := s.pin.Verify(pin); err != nil {
		return nil, err
	}
	token, exp, err := s.approvals.GenerateApproval(sku, actor.ID)
	if err != nil {
		return nil, err
	}
	return &Approval{SKU: sku, Token: token, ExpiresAt: exp}, nil
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, invalid("date %q must be YYYY-MM-DD", s)
	}
	return &t, nil
}

// apply copies the non-pricing fields of in onto p.
func apply(p *model.Product, in *ProductInput) error {
	expiry, err := parseDate(in.ExpiryDate)
	if err != nil {
		return err
	}
	p.SKU = strings.TrimSpace(in.SKU)
	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	if p.Category == "" {
		p.Category = "General"
	}
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.BatchNumber = in.BatchNumber
	p.ExpiryDate = expiry
	p.Price = in.Price
	p.Stock = in.Stock
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	return nil
}

// applyPricing copies the guarded pricing fields of in onto p.
func applyPricing(p *model.Product, in *ProductInput) {
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.OfferPrice != nil {
		if in.OfferPrice.IsPositive() {
			p.OfferPrice = decimal.NewNullDecimal(*in.OfferPrice)
		} else {
			p.OfferPrice = decimal.NullDecimal{}
		}
	}
	if in.ClearManualOffer {
		p.IsOfferManualActive = nil
	} else if in.IsOfferManualActive != nil {
		v := *in.IsOfferManualActive
		p.IsOfferManualActive = &v
	}
	if in.OfferExpiryDate != nil {
		t := *in.OfferExpiryDate
		p.OfferExpiryDate = &t
	}
}

func checkProduct(p *model.Product) error {
	if err := validate(p); err != nil {
		return err
	}
	if p.Price.IsNegative() || p.Cost.IsNegative() {
		return invalid("price and cost must not be negative")
	}
	return nil
}

func (s *inventoryService) CreateProduct(actor Actor, in *ProductInput) (*model.Product, error) {
	p := &model.Product{MinStock: 5}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	if err := s.authorize(actor, authz.ProductCreate, p.SKU, in.ApprovalToken); err != nil {
		return nil, err
	}
	if s.policy.Can(actor.Role, authz.ProductEditPrice) {
		applyPricing(p, in)
	}
	if in.IsVisibleOnline != nil && s.policy.Can(actor.Role, authz.StorefrontManage) {
		p.IsVisibleOnline = *in.IsVisibleOnline
	}
	if err := checkProduct(p); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindBySKU(p.SKU); err == nil {
		return nil, ErrSKUExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	p.CreatedBy = actor.ID.String()
	p.UpdatedBy = actor.ID.String()
	if err := s.productRepo.Create(p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSKUExists
		}
		return nil, err
	}

	s.hub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "product_created",
		Data:    map[string]interface{}{"id": p.ID, "sku": p.SKU, "name": p.Name, "stock": p.Stock, "price": p.Price},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, p.Name),
	})
	return p, nil
}

func (s *inventoryService) UpdateProduct(actor Actor, id uuid.UUID, in *ProductInput) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.authorize(actor, authz.ProductUpdate, existing.SKU, in.ApprovalToken); err != nil {
		return nil, err
	}

	oldStock := existing.Stock
	oldPrice := existing.Price
	p := *existing
	if err := apply(&p, in); err != nil {
		return nil, err
	}
	if s.policy.Can(actor.Role, authz.ProductEditPrice) {
		applyPricing(&p, in)
	} else {
		p.Price = oldPrice
	}
	if in.IsVisibleOnline != nil && s.policy.Can(actor.Role, authz.StorefrontManage) {
		p.IsVisibleOnline = *in.IsVisibleOnline
	}
	if err := checkProduct(&p); err != nil {
		return nil, err
	}

	if p.SKU != existing.SKU {
		if other, err := s.productRepo.FindBySKU(p.SKU); err == nil && other.ID != p.ID {
			return nil, ErrSKUExists
		}
	}

	p.UpdatedBy = actor.ID.String()
	if err := s.productRepo.Update(&p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSKUExists
		}
		return nil, err
	}

	s.hub.Publish(ws.Event{
		Type:   ws.TypeStockUpdate,
		Action: "product_updated",
		Data: map[string]interface{}{
			"id": p.ID, "sku": p.SKU, "name": p.Name,
			"old_stock": oldStock, "new_stock": p.Stock, "price": p.Price,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, p.Name),
	})
	return &p, nil
}

func (s *inventoryService) DeleteProduct(actor Actor, id uuid.UUID) error {
	if err := s.policy.Require(actor.Role, authz.ProductUpdate); err != nil {
		return err
	}
	p, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Delete(id, actor.ID.String()); err != nil {
		return err
	}
	s.hub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": p.ID, "sku": p.SKU},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s removed product '%s'", actor.Name, p.Name),
	})
	return nil
}

func (s *inventoryService) SetVisibility(actor Actor, id uuid.UUID, visible bool) (*model.Product, error) {
	if err := s.policy.Require(actor.Role, authz.StorefrontManage); err != nil {
		return nil, err
	}
	p, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.IsVisibleOnline = visible
	p.UpdatedBy = actor.ID.String()
	if err := s.productRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*ProductView, error) {
	p, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	v := s.view(*p)
	return &v, nil
}

func (s *inventoryService) GetBySKU(sku string) (*ProductView, error) {
	p, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	v := s.view(*p)
	return &v, nil
}

func (s *inventoryService) ListProducts(filter repository.ProductFilter) ([]ProductView, error) {
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	return s.views(products), nil
}

func (s *inventoryService) LowStock() ([]ProductView, error) {
	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	return s.views(products), nil
}

func (s *inventoryService) Categories() ([]string, error) {
	return s.productRepo.Categories()
}

func (s *inventoryService) ExportCSV(actor Actor, w io.Writer, filter repository.ProductFilter) error {
	if err := s.policy.Require(actor.Role, authz.ProductExport); err != nil {
		return err
	}
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return err
	}
	return catalog.Export(w, products)
}

func (s *inventoryService) ImportCSV(actor Actor, r io.Reader) (*catalog.Report, error) {
	if err := s.policy.Require(actor.Role, authz.ProductImport); err != nil {
		return nil, err
	}
	existing, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	plan, err := catalog.Import(r, existing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for i := range plan.Create {
		plan.Create[i].CreatedBy = actor.ID.String()
		plan.Create[i].UpdatedBy = actor.ID.String()
	}
	for i := range plan.Update {
		plan.Update[i].UpdatedBy = actor.ID.String()
	}
	if err := s.productRepo.ImportBatch(plan.Create, plan.Update); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "catalog_imported",
		Data:    plan.Report,
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s imported %d catalog entries", actor.Name, plan.Report.Processed),
	})
	return &plan.Report, nil
}
