package service

import (
	"sort"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/pricing"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates the receipts of a window. Voided sales are
// counted separately and left out of every other figure.
type SalesSummary struct {
	From          time.Time                               `json:"from"`
	To            time.Time                               `json:"to"`
	Revenue       decimal.Decimal                         `json:"revenue"`
	Tax           decimal.Decimal                         `json:"tax"`
	Discounts     decimal.Decimal                         `json:"discounts"`
	SaleCount     int                                     `json:"sale_count"`
	Units         int                                     `json:"units"`
	AverageTicket decimal.Decimal                         `json:"average_ticket"`
	VoidedCount   int                                     `json:"voided_count"`
	ByMethod      map[model.PaymentMethod]decimal.Decimal `json:"by_method"`
	Hourly        [24]decimal.Decimal                     `json:"hourly"`
	Daily         []DailySales                            `json:"daily"`
	TopProducts   []TopProduct                            `json:"top_products"`
}

// DailySales is one point of the revenue chart
type DailySales struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int             `json:"units"`
}

type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// InventoryStats are the catalog headline numbers
type InventoryStats struct {
	TotalProducts   int             `json:"total_products"`
	TotalUnits      int             `json:"total_units"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStock      int             `json:"out_of_stock"`
	OnlineProducts  int             `json:"online_products"`
	ValuationCost   decimal.Decimal `json:"valuation_cost"`
	ValuationRetail decimal.Decimal `json:"valuation_retail"`
}

type DashboardService interface {
	SalesSummary(actor Actor, from, to time.Time, top int) (*SalesSummary, error)
	SalesForRange(actor Actor, rangeParam string) (*SalesSummary, error)
	InventoryStats(actor Actor) (*InventoryStats, error)
}

type dashboardService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	policy      *authz.Policy
	clock       clock.Clock
}

func NewDashboardService(repos *repository.Repositories, policy *authz.Policy, clk clock.Clock) DashboardService {
	return &dashboardService{
		saleRepo:    repos.Sales,
		productRepo: repos.Products,
		policy:      policy,
		clock:       clk,
	}
}

// rangeStart maps the dashboard range selector onto a window start.
func rangeStart(rangeParam string, now time.Time) time.Time {
	switch rangeParam {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "1m":
		return now.AddDate(0, -1, 0)
	case "3m":
		return now.AddDate(0, -3, 0)
	case "6m":
		return now.AddDate(0, -6, 0)
	case "12m":
		return now.AddDate(0, -12, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

func (s *dashboardService) SalesForRange(actor Actor, rangeParam string) (*SalesSummary, error) {
	now := s.clock.Now()
	return s.SalesSummary(actor, rangeStart(rangeParam, now), now, 5)
}

func (s *dashboardService) SalesSummary(actor Actor, from, to time.Time, top int) (*SalesSummary, error) {
	if err := s.policy.Require(actor.Role, authz.AnalyticsView); err != nil {
		return nil, err
	}
	if !to.IsZero() && to.Before(from) {
		return nil, invalid("window ends before it starts")
	}
	sales, err := s.saleRepo.FindAll(repository.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
	}
	voids, err := s.saleRepo.FindVoids(ids)
	if err != nil {
		return nil, err
	}
	return summarize(sales, voids, from, to, top), nil
}

func summarize(sales []model.Sale, voids map[string]model.SaleVoid, from, to time.Time, top int) *SalesSummary {
	sum := &SalesSummary{
		From:      from,
		To:        to,
		Revenue:   decimal.Zero,
		Tax:       decimal.Zero,
		Discounts: decimal.Zero,
		ByMethod:  map[model.PaymentMethod]decimal.Decimal{},
	}
	for h := range sum.Hourly {
		sum.Hourly[h] = decimal.Zero
	}
	days := map[string]*DailySales{}
	products := map[uuid.UUID]*TopProduct{}

	for _, sale := range sales {
		if _, voided := voids[sale.ID]; voided {
			sum.VoidedCount++
			continue
		}
		sum.SaleCount++
		sum.Revenue = sum.Revenue.Add(sale.AmountDue)
		sum.Tax = sum.Tax.Add(sale.Tax)
		sum.Discounts = sum.Discounts.Add(sale.Discount)
		sum.Units += sale.Units()

		m := sum.ByMethod[sale.PaymentMethod]
		sum.ByMethod[sale.PaymentMethod] = m.Add(sale.AmountDue)
		sum.Hourly[sale.Timestamp.Hour()] = sum.Hourly[sale.Timestamp.Hour()].Add(sale.AmountDue)

		key := sale.Timestamp.Format(model.DateLayout)
		d, ok := days[key]
		if !ok {
			d = &DailySales{Date: key, Revenue: decimal.Zero}
			days[key] = d
		}
		d.Revenue = d.Revenue.Add(sale.AmountDue)
		d.Units += sale.Units()

		for _, it := range sale.Items {
			tp, ok := products[it.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: it.ProductID, SKU: it.SKU, Name: it.Name, Revenue: decimal.Zero}
				products[it.ProductID] = tp
			}
			tp.Quantity += it.Quantity
			tp.Revenue = tp.Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	sum.AverageTicket = decimal.Zero
	if sum.SaleCount > 0 {
		sum.AverageTicket = sum.Revenue.Div(decimal.NewFromInt(int64(sum.SaleCount))).Round(2)
	}

	sum.Daily = make([]DailySales, 0, len(days))
	for _, d := range days {
		sum.Daily = append(sum.Daily, *d)
	}
	sort.Slice(sum.Daily, func(i, j int) bool { return sum.Daily[i].Date < sum.Daily[j].Date })

	sum.TopProducts = make([]TopProduct, 0, len(products))
	for _, tp := range products {
		sum.TopProducts = append(sum.TopProducts, *tp)
	}
	sort.Slice(sum.TopProducts, func(i, j int) bool {
		a, b := sum.TopProducts[i], sum.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.SKU < b.SKU
	})
	if top > 0 && len(sum.TopProducts) > top {
		sum.TopProducts = sum.TopProducts[:top]
	}
	return sum
}

func (s *dashboardService) InventoryStats(actor Actor) (*InventoryStats, error) {
	if err := s.policy.Require(actor.Role, authz.AnalyticsView); err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	st := &InventoryStats{
		TotalProducts:   len(products),
		ValuationCost:   decimal.Zero,
		ValuationRetail: decimal.Zero,
	}
	for i := range products {
		p := &products[i]
		st.TotalUnits += p.Stock
		if p.IsLowStock() {
			st.LowStockCount++
		}
		if p.Stock <= 0 {
			st.OutOfStock++
		}
		if p.IsVisibleOnline {
			st.OnlineProducts++
		}
		if p.Stock > 0 {
			qty := decimal.NewFromInt(int64(p.Stock))
			st.ValuationCost = st.ValuationCost.Add(p.Cost.Mul(qty))
			st.ValuationRetail = st.ValuationRetail.Add(pricing.EffectivePrice(p, now).Mul(qty))
		}
	}
	return st, nil
}
