package service

import (
	"errors"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/pricing"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrStorefrontOffline = errors.New("storefront is offline")

// StorefrontItem is what the public shop shows for a product. Cost and
// batch data stay private.
type StorefrontItem struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Price           decimal.Decimal `json:"price"`
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	PromotionActive bool            `json:"promotion_active"`
	InStock         bool            `json:"in_stock"`
}

// StorefrontPage is the public landing page payload.
type StorefrontPage struct {
	Config   model.StorefrontConfig `json:"config"`
	Currency string                 `json:"currency"`
	Products []StorefrontItem       `json:"products"`
}

type StorefrontService interface {
	Config(actor Actor) (*model.StorefrontConfig, error)
	UpdateConfig(actor Actor, in *model.StorefrontConfig) (*model.StorefrontConfig, error)
	// Preview renders the page even while the shop is offline.
	Preview(actor Actor, category string) (*StorefrontPage, error)
	Page(category string) (*StorefrontPage, error)
}

type storefrontService struct {
	settingsRepo repository.SettingsRepository
	productRepo  repository.ProductRepository
	policy       *authz.Policy
	hub          ws.Publisher
	clock        clock.Clock
}

func NewStorefrontService(repos *repository.Repositories, policy *authz.Policy, hub ws.Publisher, clk clock.Clock) StorefrontService {
	return &storefrontService{
		settingsRepo: repos.Settings,
		productRepo:  repos.Products,
		policy:       policy,
		hub:          hub,
		clock:        clk,
	}
}

func (s *storefrontService) Config(actor Actor) (*model.StorefrontConfig, error) {
	if err := s.policy.Require(actor.Role, authz.StorefrontManage); err != nil {
		return nil, err
	}
	return s.settingsRepo.Storefront()
}

func (s *storefrontService) UpdateConfig(actor Actor, in *model.StorefrontConfig) (*model.StorefrontConfig, error) {
	if err := s.policy.Require(actor.Role, authz.StorefrontManage); err != nil {
		return nil, err
	}
	cfg := *in
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Domain = strings.ToLower(strings.TrimSpace(cfg.Domain))
	cfg.ThemeColor = strings.TrimSpace(cfg.ThemeColor)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.SaveStorefront(&cfg); err != nil {
		return nil, err
	}
	state := "offline"
	if cfg.IsOnline {
		state = "online"
	}
	s.hub.Publish(ws.Event{
		Type:    ws.TypeSettings,
		Action:  "storefront",
		Data:    cfg,
		User:    actor.wsActor(),
		Message: actor.Name + " updated the storefront (" + state + ")",
	})
	return &cfg, nil
}

func (s *storefrontService) render(cfg *model.StorefrontConfig, category string) (*StorefrontPage, error) {
	st, err := s.settingsRepo.StoreSettings()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(repository.ProductFilter{Category: category, OnlineOnly: true})
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	items := make([]StorefrontItem, 0, len(products))
	for i := range products {
		p := &products[i]
		items = append(items, StorefrontItem{
			ID:              p.ID,
			SKU:             p.SKU,
			Name:            p.Name,
			Category:        p.Category,
			Description:     p.Description,
			ImageURL:        p.ImageURL,
			Price:           p.Price,
			EffectivePrice:  pricing.EffectivePrice(p, now),
			PromotionActive: pricing.IsPromotionActive(p, now),
			InStock:         p.Stock > 0,
		})
	}
	return &StorefrontPage{Config: *cfg, Currency: st.Currency, Products: items}, nil
}

func (s *storefrontService) Preview(actor Actor, category string) (*StorefrontPage, error) {
	cfg, err := s.Config(actor)
	if err != nil {
		return nil, err
	}
	return s.render(cfg, category)
}

func (s *storefrontService) Page(category string) (*StorefrontPage, error) {
	cfg, err := s.settingsRepo.Storefront()
	if err != nil {
		return nil, err
	}
	if !cfg.IsOnline {
		return nil, ErrStorefrontOffline
	}
	return s.render(cfg, category)
}
