package memory

import (
	"fmt"
	"strings"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type userRepo struct{ s *Store }

func (r *userRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && id != except {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(u.Email, u.ID) {
		return fmt.Errorf("email %s: %w", u.Email, repository.ErrDuplicate)
	}
	r.s.stamp(&u.BaseModel, true)
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.users, func(a, b model.User) bool { return a.Name < b.Name }), nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) Update(u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return fmt.Errorf("email %s: %w", u.Email, repository.ErrDuplicate)
	}
	u.CreatedAt = old.CreatedAt
	r.s.stamp(&u.BaseModel, false)
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(id uuid.UUID, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}
