package service

import (
	"errors"
	"fmt"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmailExists      = errors.New("email already exists")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrSelfDelete       = errors.New("you cannot delete your own account")
)

type CreateUserRequest struct {
	Name     string           `json:"name" validate:"required"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,min=6"`
	Phone    string           `json:"phone"`
	Role     model.Role       `json:"role" validate:"required,oneof=ADMIN MANAGER CASHIER"`
	Status   model.UserStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE ON_BREAK"`
	JoinDate string           `json:"join_date"` // Format: YYYY-MM-DD
}

type UpdateUserRequest struct {
	Name     string           `json:"name" validate:"required"`
	Email    string           `json:"email" validate:"required,email"`
	Password *string          `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Phone    string           `json:"phone"`
	Role     model.Role       `json:"role" validate:"required,oneof=ADMIN MANAGER CASHIER"`
	Status   model.UserStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE ON_BREAK"`
	JoinDate string           `json:"join_date"`
}

// EmployeeStats are the headline counts of the staff screen
type EmployeeStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Admins   int `json:"admins"`
	Managers int `json:"managers"`
	Cashiers int `json:"cashiers"`
}

type UserService interface {
	CreateUser(actor Actor, req *CreateUserRequest) (*model.UserResponse, error)
	UpdateUser(actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(actor Actor, id uuid.UUID) error
	GetAllUsers(actor Actor, search string) ([]model.UserResponse, error)
	GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error)
	Stats(actor Actor) (*EmployeeStats, error)
}

type userService struct {
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	policy       *authz.Policy
}

func NewUserService(userRepo repository.UserRepository, settingsRepo repository.SettingsRepository, policy *authz.Policy) UserService {
	return &userService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		policy:       policy,
	}
}

// visibility decides which employees actor may see and whether contacts are masked.
type visibility struct {
	hideAdmins bool
	mask       bool
}

func (s *userService) visibilityFor(actor Actor) (visibility, error) {
	es, err := s.settingsRepo.EmployeeSettings()
	if err != nil {
		return visibility{}, err
	}
	return visibility{
		hideAdmins: actor.Role == model.RoleManager && es.ManagerIsolation,
		mask:       es.MaskIdentity && actor.Role != model.RoleAdmin,
	}, nil
}

func (v visibility) visible(u *model.User) bool {
	return !(v.hideAdmins && u.Role == model.RoleAdmin)
}

func (v visibility) render(u *model.User) model.UserResponse {
	r := u.ToResponse()
	if v.mask {
		r = r.Masked()
	}
	return r
}

// canManage checks actor may create, edit or remove an employee holding role.
func (s *userService) canManage(actor Actor, role model.Role) error {
	if err := s.policy.Require(actor.Role, authz.EmployeeManage); err != nil {
		return err
	}
	if role == model.RoleAdmin {
		return s.policy.Require(actor.Role, authz.EmployeeManageAdmin)
	}
	return nil
}

func (s *userService) find(actor Actor, id uuid.UUID) (*model.User, visibility, error) {
	vis, err := s.visibilityFor(actor)
	if err != nil {
		return nil, vis, err
	}
	u, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, vis, ErrEmployeeNotFound
		}
		return nil, vis, err
	}
	if !vis.visible(u) {
		return nil, vis, ErrEmployeeNotFound
	}
	return u, vis, nil
}

func (s *userService) CreateUser(actor Actor, req *CreateUserRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.canManage(actor, req.Role); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailExists
	}

	join, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Role:     req.Role,
		Status:   status,
		JoinDate: join,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	vis, err := s.visibilityFor(actor)
	if err != nil {
		return nil, err
	}
	resp := vis.render(user)
	return &resp, nil
}

func (s *userService) UpdateUser(actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, vis, err := s.find(actor, id)
	if err != nil {
		return nil, err
	}
	// both the current and the requested role must be within reach
	if err := s.canManage(actor, user.Role); err != nil {
		return nil, err
	}
	if err := s.canManage(actor, req.Role); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		if other, err := s.userRepo.FindByEmail(email); err == nil && other.ID != user.ID {
			return nil, ErrEmailExists
		}
	}
	join, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.Phone = strings.TrimSpace(req.Phone)
	user.Role = req.Role
	if req.Status != "" {
		user.Status = req.Status
	}
	if join != nil {
		user.JoinDate = join
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	resp := vis.render(user)
	return &resp, nil
}

func (s *userService) DeleteUser(actor Actor, id uuid.UUID) error {
	if actor.ID == id {
		return ErrSelfDelete
	}
	user, _, err := s.find(actor, id)
	if err != nil {
		return err
	}
	if err := s.canManage(actor, user.Role); err != nil {
		return err
	}
	return s.userRepo.Delete(id, actor.ID.String())
}

// GetAllUsers lists visible employees, filtered by name, email or role.
func (s *userService) GetAllUsers(actor Actor, search string) ([]model.UserResponse, error) {
	if err := s.policy.Require(actor.Role, authz.EmployeeView); err != nil {
		return nil, err
	}
	vis, err := s.visibilityFor(actor)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	out := []model.UserResponse{}
	for i := range users {
		u := &users[i]
		if !vis.visible(u) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(string(u.Role)), q) {
			continue
		}
		out = append(out, vis.render(u))
	}
	return out, nil
}

func (s *userService) GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error) {
	if actor.ID != id {
		if err := s.policy.Require(actor.Role, authz.EmployeeView); err != nil {
			return nil, err
		}
	}
	user, vis, err := s.find(actor, id)
	if err != nil {
		return nil, err
	}
	resp := vis.render(user)
	if actor.ID == id {
		resp = user.ToResponse()
	}
	return &resp, nil
}

func (s *userService) Stats(actor Actor) (*EmployeeStats, error) {
	users, err := s.GetAllUsers(actor, "")
	if err != nil {
		return nil, err
	}
	st := &EmployeeStats{Total: len(users)}
	for _, u := range users {
		if u.Status == model.StatusActive {
			st.Active++
		}
		switch u.Role {
		case model.RoleAdmin:
			st.Admins++
		case model.RoleManager:
			st.Managers++
		case model.RoleCashier:
			st.Cashiers++
		}
	}
	return st, nil
}
