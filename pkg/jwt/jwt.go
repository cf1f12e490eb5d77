package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrSKUMismatch  = errors.New("approval token was issued for a different SKU")
)

const (
	issuer           = "ayaat-pos"
	audienceSession  = "session"
	audienceApproval = "quick-add"
)

// Claims represents the session token claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// ApprovalClaims is a manager override that lets a cashier create one SKU
type ApprovalClaims struct {
	SKU       string    `json:"sku"`
	CashierID uuid.UUID `json:"cashier_id"`
	jwt.RegisteredClaims
}

// Manager signs and checks both token kinds with one HMAC secret.
type Manager struct {
	secret      []byte
	sessionTTL  time.Duration
	approvalTTL time.Duration
	now         func() time.Time
}

func NewManager(secret string, sessionTTL, approvalTTL time.Duration) *Manager {
	return &Manager{
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		approvalTTL: approvalTTL,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) registered(aud string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{aud},
	}
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parse(tokenString, aud string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(aud),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GenerateToken creates a session token for a user
func (m *Manager) GenerateToken(userID uuid.UUID, email, name, role string) (string, error) {
	return m.sign(&Claims{
		UserID:           userID,
		Email:            email,
		Name:             name,
		Role:             role,
		RegisteredClaims: m.registered(audienceSession, m.sessionTTL),
	})
}

// ValidateToken parses and validates a session token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	if err := m.parse(tokenString, audienceSession, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateApproval issues a short-lived override bound to sku and the requesting cashier.
func (m *Manager) GenerateApproval(sku string, cashierID uuid.UUID) (string, time.Time, error) {
	rc := m.registered(audienceApproval, m.approvalTTL)
	token, err := m.sign(&ApprovalClaims{SKU: sku, CashierID: cashierID, RegisteredClaims: rc})
	return token, rc.ExpiresAt.Time, err
}

// ValidateApproval checks the override covers sku for this cashier.
func (m *Manager) ValidateApproval(tokenString, sku string, cashierID uuid.UUID) error {
	if tokenString == "" {
		return ErrMissingToken
	}
	claims := &ApprovalClaims{}
	if err := m.parse(tokenString, audienceApproval, claims); err != nil {
		return err
	}
	if claims.SKU != sku || claims.CashierID != cashierID {
		return ErrSKUMismatch
	}
	return nil
}
