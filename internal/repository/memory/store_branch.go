package memory

import (
	"fmt"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type storeRepo struct{ s *Store }

func (r *storeRepo) codeTaken(code string, except uuid.UUID) bool {
	for id, st := range r.s.stores {
		if st.Code == code && id != except {
			return true
		}
	}
	return false
}

func (r *storeRepo) Create(st *model.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(st.Code, st.ID) {
		return fmt.Errorf("store code %s: %w", st.Code, repository.ErrDuplicate)
	}
	r.s.stamp(&st.BaseModel, true)
	r.s.stores[st.ID] = *st
	return nil
}

func (r *storeRepo) FindAll() ([]model.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.stores, func(a, b model.Store) bool { return a.Code < b.Code }), nil
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stores[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (r *storeRepo) Update(st *model.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.stores[st.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.codeTaken(st.Code, st.ID) {
		return fmt.Errorf("store code %s: %w", st.Code, repository.ErrDuplicate)
	}
	st.CreatedAt = old.CreatedAt
	r.s.stamp(&st.BaseModel, false)
	r.s.stores[st.ID] = *st
	return nil
}

func (r *storeRepo) Delete(id uuid.UUID, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stores[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.stores, id)
	return nil
}
