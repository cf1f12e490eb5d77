package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ayaat-pos/internal/catalog"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type productRepo struct{ s *Store }

func (r *productRepo) skuTaken(sku string, except uuid.UUID) bool {
	for id, p := range r.s.products {
		if p.SKU == sku && id != except {
			return true
		}
	}
	return false
}

func (r *productRepo) create(p *model.Product) error {
	if r.skuTaken(p.SKU, p.ID) {
		return fmt.Errorf("sku %s: %w", p.SKU, repository.ErrDuplicate)
	}
	r.s.stamp(&p.BaseModel, true)
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) update(p *model.Product) error {
	old, ok := r.s.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return fmt.Errorf("sku %s: %w", p.SKU, repository.ErrDuplicate)
	}
	p.CreatedAt = old.CreatedAt
	r.s.stamp(&p.BaseModel, false)
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) Create(p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.create(p)
}

func (r *productRepo) FindAll(f repository.ProductFilter) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []model.Product{}
	for _, p := range sortedValues(r.s.products, byName) {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.OnlineOnly && !p.IsVisibleOnline {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func byName(a, b model.Product) bool { return a.Name < b.Name }

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, err := catalog.Resolve(sku, sortedValues(r.s.products, byName))
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Product{}
	for _, p := range r.s.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *productRepo) Categories() ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range r.s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *productRepo) Update(p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(p)
}

func (r *productRepo) Delete(id uuid.UUID, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepo) ImportBatch(create, update []model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	backup := make(map[uuid.UUID]model.Product, len(r.s.products))
	for k, v := range r.s.products {
		backup[k] = v
	}
	rollback := func(err error) error {
		r.s.products = backup
		return err
	}

	for i := range update {
		if err := r.update(&update[i]); err != nil {
			return rollback(fmt.Errorf("import %s: %w", update[i].SKU, err))
		}
	}
	for i := range create {
		if err := r.create(&create[i]); err != nil {
			return rollback(fmt.Errorf("import %s: %w", create[i].SKU, err))
		}
	}
	return nil
}
