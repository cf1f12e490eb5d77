package service

import (
	"errors"
	"fmt"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// TokenManager issues and checks session tokens.
type TokenManager interface {
	GenerateToken(userID uuid.UUID, email, name, role string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	// Authenticate resolves a bearer token to the acting employee.
	Authenticate(tokenString string) (Actor, error)
}

type LoginResponse struct {
	Token       string             `json:"token"`
	User        model.UserResponse `json:"user"`
	Permissions []authz.Action     `json:"permissions"`
}

type TokenValidationResponse struct {
	User        model.UserResponse `json:"user"`
	Permissions []authz.Action     `json:"permissions"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenManager
	policy   *authz.Policy
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenManager, policy *authz.Policy) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CanSignIn() {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		Permissions: s.policy.Actions(user.Role),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return invalid("new password must be at least 6 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	return s.userRepo.Update(user)
}

// current loads the token's user and rejects deactivated accounts.
func (s *authService) current(tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.CanSignIn() {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.current(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:        user.ToResponse(),
		Permissions: s.policy.Actions(user.Role),
	}, nil
}

// Authenticate reads the role from storage, not from the token, so a
// demotion takes effect on the next request.
func (s *authService) Authenticate(tokenString string) (Actor, error) {
	user, err := s.current(tokenString)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}
