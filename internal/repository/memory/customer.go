package memory

import (
	"fmt"
	"strings"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type customerRepo struct{ s *Store }

func (r *customerRepo) codeTaken(code string, except uuid.UUID) bool {
	for id, c := range r.s.customers {
		if c.MembershipID == code && id != except {
			return true
		}
	}
	return false
}

func (r *customerRepo) Create(c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(c.MembershipID, c.ID) {
		return fmt.Errorf("membership %s: %w", c.MembershipID, repository.ErrDuplicate)
	}
	r.s.stamp(&c.BaseModel, true)
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) FindAll(search string) ([]model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search = strings.TrimSpace(search)
	lower := strings.ToLower(search)
	out := []model.Customer{}
	for _, c := range sortedValues(r.s.customers, func(a, b model.Customer) bool { return a.Name < b.Name }) {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), lower) &&
			!strings.Contains(c.Phone, search) &&
			!strings.Contains(strings.ToLower(c.Email), lower) &&
			!strings.Contains(strings.ToLower(c.MembershipID), lower) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) FindByMembershipID(code string) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.MembershipID == code {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *customerRepo) Update(c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.customers[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.codeTaken(c.MembershipID, c.ID) {
		return fmt.Errorf("membership %s: %w", c.MembershipID, repository.ErrDuplicate)
	}
	c.CreatedAt = old.CreatedAt
	r.s.stamp(&c.BaseModel, false)
	r.s.customers[c.ID] = *c
	return nil
}
