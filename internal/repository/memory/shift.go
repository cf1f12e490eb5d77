package memory

import (
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

type shiftRepo struct{ s *Store }

func newestShiftFirst(a, b model.Shift) bool { return a.StartTime.After(b.StartTime) }

func (r *shiftRepo) ClockIn(sh *model.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[sh.UserID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.s.shifts {
		if existing.UserID == sh.UserID && existing.Status == model.ShiftOngoing {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&sh.BaseModel, true)
	r.s.shifts[sh.ID] = *sh
	return nil
}

func (r *shiftRepo) Update(sh *model.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.shifts[sh.ID]
	if !ok {
		return repository.ErrNotFound
	}
	sh.CreatedAt = old.CreatedAt
	r.s.stamp(&sh.BaseModel, false)
	r.s.shifts[sh.ID] = *sh
	return nil
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sh, ok := r.s.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sh, nil
}

func (r *shiftRepo) FindOngoing(userID uuid.UUID) (*model.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sh := range sortedValues(r.s.shifts, newestShiftFirst) {
		if sh.UserID == userID && sh.Status == model.ShiftOngoing {
			return &sh, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *shiftRepo) FindAll(status model.ShiftStatus) ([]model.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Shift{}
	for _, sh := range sortedValues(r.s.shifts, newestShiftFirst) {
		if status == "" || sh.Status == status {
			out = append(out, sh)
		}
	}
	return out, nil
}
