package authz

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPIN   = errors.New("invalid manager PIN")
	ErrMalformedPIN = errors.New("manager PIN must be 4 digits")
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// PINVerifier checks the shared manager override code. Only the bcrypt hash is kept.
type PINVerifier struct {
	hash []byte
}

func NewPINVerifier(pin string) (*PINVerifier, error) {
	if !pinPattern.MatchString(pin) {
		return nil, ErrMalformedPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PINVerifier{hash: hash}, nil
}

// Verify returns ErrInvalidPIN for anything but the configured code.
func (v *PINVerifier) Verify(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}
	if bcrypt.CompareHashAndPassword(v.hash, []byte(pin)) != nil {
		return ErrInvalidPIN
	}
	return nil
}
