package memory

import (
	"fmt"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/shopspring/decimal"
)

type saleRepo struct{ s *Store }

func copySale(s model.Sale) model.Sale {
	s.Items = append([]model.SaleItem(nil), s.Items...)
	return s
}

// Checkout validates everything before mutating so a failure leaves no trace.
func (r *saleRepo) Checkout(sale *model.Sale, opts repository.CheckoutOptions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, dup := r.s.sales[sale.ID]; dup {
		return fmt.Errorf("sale %s: %w", sale.ID, repository.ErrDuplicate)
	}

	need := make(map[string]int)
	for _, it := range sale.Items {
		p, ok := r.s.products[it.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", it.SKU, repository.ErrNotFound)
		}
		need[p.ID.String()] += it.Quantity
		if !opts.AllowNegativeStock && p.Stock < need[p.ID.String()] {
			return fmt.Errorf("%w: %s has %d, need %d", repository.ErrInsufficientStock, p.SKU, p.Stock, need[p.ID.String()])
		}
	}

	var customer model.Customer
	if sale.CustomerID != nil {
		c, ok := r.s.customers[*sale.CustomerID]
		if !ok {
			return fmt.Errorf("customer %s: %w", *sale.CustomerID, repository.ErrNotFound)
		}
		customer = c
	}

	now := r.s.clock.Now()
	for _, it := range sale.Items {
		p := r.s.products[it.ProductID]
		p.Stock -= it.Quantity
		p.UpdatedAt = now
		r.s.products[p.ID] = p
	}
	if sale.CustomerID != nil {
		customer.TotalSpent = customer.TotalSpent.Add(sale.AmountDue)
		customer.LoyaltyPoints += sale.PointsEarned
		customer.UpdatedAt = now
		r.s.customers[customer.ID] = customer
	}
	for i := range sale.Items {
		sale.Items[i].ID = uint(i + 1)
		sale.Items[i].SaleID = sale.ID
	}
	r.s.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *saleRepo) FindByID(id string) (*model.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sale = copySale(sale)
	return &sale, nil
}

func (r *saleRepo) FindAll(f repository.SaleFilter) ([]model.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Sale{}
	newestFirst := func(a, b model.Sale) bool { return a.Timestamp.After(b.Timestamp) }
	for _, sale := range sortedValues(r.s.sales, newestFirst) {
		if f.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *f.CustomerID) {
			continue
		}
		if f.CashierID != nil && sale.CashierID != *f.CashierID {
			continue
		}
		if !f.From.IsZero() && sale.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !sale.Timestamp.Before(f.To) {
			continue
		}
		out = append(out, copySale(sale))
	}
	return out, nil
}

func (r *saleRepo) Void(v *model.SaleVoid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales[v.SaleID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, done := r.s.voids[v.SaleID]; done {
		return repository.ErrAlreadyVoided
	}

	for _, it := range sale.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			p.Stock += it.Quantity
			r.s.products[p.ID] = p
		}
	}
	if sale.CustomerID != nil {
		if c, ok := r.s.customers[*sale.CustomerID]; ok {
			c.TotalSpent = decimal.Max(c.TotalSpent.Sub(sale.AmountDue), decimal.Zero)
			c.LoyaltyPoints -= sale.PointsEarned
			if c.LoyaltyPoints < 0 {
				c.LoyaltyPoints = 0
			}
			r.s.customers[c.ID] = c
		}
	}
	r.s.voids[v.SaleID] = *v
	return nil
}

func (r *saleRepo) FindVoids(saleIDs []string) (map[string]model.SaleVoid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]model.SaleVoid)
	for _, id := range saleIDs {
		if v, ok := r.s.voids[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}
