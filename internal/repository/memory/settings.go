package memory

import (
	"sort"

	"ayaat-pos/internal/model"
)

type settingsRepo struct{ s *Store }

func (r *settingsRepo) StoreSettings() (*model.StoreSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.storeSettings
	return &out, nil
}

func (r *settingsRepo) SaveStoreSettings(v *model.StoreSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.storeSettings = *v
	return nil
}

func (r *settingsRepo) EmployeeSettings() (*model.EmployeeSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.employeeSettings
	return &out, nil
}

func (r *settingsRepo) SaveEmployeeSettings(v *model.EmployeeSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.employeeSettings = *v
	return nil
}

func (r *settingsRepo) Storefront() (*model.StorefrontConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.s.storefront
	return &out, nil
}

func (r *settingsRepo) SaveStorefront(v *model.StorefrontConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.storefront = *v
	return nil
}

func (r *settingsRepo) Permissions() ([]model.RolePermissions, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.RolePermissions, 0, len(r.s.permissions))
	for _, p := range r.s.permissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

func (r *settingsRepo) SavePermissions(p *model.RolePermissions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.permissions[p.Role] = *p
	return nil
}
