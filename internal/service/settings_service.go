package service

import (
	"errors"
	"fmt"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreCodeExists = errors.New("store code already exists")
)

// PermissionChange flips one settings toggle for a role.
type PermissionChange struct {
	Role    model.Role   `json:"role"`
	Toggle  authz.Toggle `json:"toggle"`
	Allowed bool         `json:"allowed"`
}

type SettingsService interface {
	StoreSettings() (*model.StoreSettings, error)
	UpdateStoreSettings(actor Actor, in *model.StoreSettings) (*model.StoreSettings, error)
	EmployeeSettings(actor Actor) (*model.EmployeeSettings, error)
	UpdateEmployeeSettings(actor Actor, in *model.EmployeeSettings) (*model.EmployeeSettings, error)
	Permissions(actor Actor) ([]model.RolePermissions, error)
	SetPermission(actor Actor, change PermissionChange) (*model.RolePermissions, error)
	// RestorePermissions loads saved toggles into the live policy.
	RestorePermissions() error

	ListStores(actor Actor) ([]model.Store, error)
	CreateStore(actor Actor, in *model.Store) (*model.Store, error)
	UpdateStore(actor Actor, id uuid.UUID, in *model.Store) (*model.Store, error)
	DeleteStore(actor Actor, id uuid.UUID) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	storeRepo    repository.StoreRepository
	policy       *authz.Policy
	hub          ws.Publisher
}

func NewSettingsService(repos *repository.Repositories, policy *authz.Policy, hub ws.Publisher) SettingsService {
	return &settingsService{
		settingsRepo: repos.Settings,
		storeRepo:    repos.Stores,
		policy:       policy,
		hub:          hub,
	}
}

func (s *settingsService) notify(actor Actor, action string, data interface{}) {
	s.hub.Publish(ws.Event{
		Type:    ws.TypeSettings,
		Action:  action,
		Data:    data,
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s changed %s", actor.Name, strings.ReplaceAll(action, "_", " ")),
	})
}

func (s *settingsService) StoreSettings() (*model.StoreSettings, error) {
	return s.settingsRepo.StoreSettings()
}

func (s *settingsService) UpdateStoreSettings(actor Actor, in *model.StoreSettings) (*model.StoreSettings, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	st := *in
	st.Currency = strings.ToUpper(strings.TrimSpace(st.Currency))
	if err := validate(&st); err != nil {
		return nil, err
	}
	if st.TaxRate.IsNegative() || st.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, invalid("tax rate must be between 0 and 100")
	}
	if err := s.settingsRepo.SaveStoreSettings(&st); err != nil {
		return nil, err
	}
	s.notify(actor, "store_settings", st)
	return &st, nil
}

func (s *settingsService) EmployeeSettings(actor Actor) (*model.EmployeeSettings, error) {
	if err := s.policy.Require(actor.Role, authz.EmployeeView); err != nil {
		return nil, err
	}
	return s.settingsRepo.EmployeeSettings()
}

func (s *settingsService) UpdateEmployeeSettings(actor Actor, in *model.EmployeeSettings) (*model.EmployeeSettings, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	es := *in
	if err := validate(&es); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.SaveEmployeeSettings(&es); err != nil {
		return nil, err
	}
	s.notify(actor, "employee_settings", es)
	return &es, nil
}

func (s *settingsService) Permissions(actor Actor) ([]model.RolePermissions, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	out := make([]model.RolePermissions, 0, len(model.Roles))
	for _, role := range model.Roles {
		out = append(out, s.policy.Toggles(role))
	}
	return out, nil
}

func (s *settingsService) SetPermission(actor Actor, change PermissionChange) (*model.RolePermissions, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	if err := s.policy.Set(change.Role, change.Toggle, change.Allowed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	row := s.policy.Toggles(change.Role)
	if err := s.settingsRepo.SavePermissions(&row); err != nil {
		return nil, err
	}
	s.notify(actor, "permissions", row)
	return &row, nil
}

func (s *settingsService) RestorePermissions() error {
	rows, err := s.settingsRepo.Permissions()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.policy.Apply(row); err != nil {
			return fmt.Errorf("permissions for %s: %w", row.Role, err)
		}
	}
	return nil
}

func (s *settingsService) ListStores(actor Actor) ([]model.Store, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	return s.storeRepo.FindAll()
}

func normalizeStore(st *model.Store) {
	st.Name = strings.TrimSpace(st.Name)
	st.Code = strings.ToUpper(strings.TrimSpace(st.Code))
	st.Address = strings.TrimSpace(st.Address)
	st.Phone = strings.TrimSpace(st.Phone)
	if st.Status == "" {
		st.Status = model.StoreOpen
	}
}

func (s *settingsService) CreateStore(actor Actor, in *model.Store) (*model.Store, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	st := &model.Store{
		Name:          in.Name,
		Code:          in.Code,
		Address:       in.Address,
		Phone:         in.Phone,
		Status:        in.Status,
		TerminalCount: in.TerminalCount,
	}
	normalizeStore(st)
	if err := validate(st); err != nil {
		return nil, err
	}
	st.CreatedBy = actor.ID.String()
	st.UpdatedBy = actor.ID.String()
	if err := s.storeRepo.Create(st); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStoreCodeExists
		}
		return nil, err
	}
	s.notify(actor, "store_created", st)
	return st, nil
}

func (s *settingsService) UpdateStore(actor Actor, id uuid.UUID, in *model.Store) (*model.Store, error) {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return nil, err
	}
	st, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	st.Name = in.Name
	st.Code = in.Code
	st.Address = in.Address
	st.Phone = in.Phone
	st.Status = in.Status
	st.TerminalCount = in.TerminalCount
	normalizeStore(st)
	if err := validate(st); err != nil {
		return nil, err
	}
	st.UpdatedBy = actor.ID.String()
	if err := s.storeRepo.Update(st); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStoreCodeExists
		}
		return nil, err
	}
	s.notify(actor, "store_updated", st)
	return st, nil
}

func (s *settingsService) DeleteStore(actor Actor, id uuid.UUID) error {
	if err := s.policy.Require(actor.Role, authz.SettingsManage); err != nil {
		return err
	}
	if err := s.storeRepo.Delete(id, actor.ID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	s.notify(actor, "store_deleted", map[string]interface{}{"id": id})
	return nil
}
