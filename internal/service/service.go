package service

import (
	"errors"
	"fmt"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/ws"
	"ayaat-pos/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = authz.ErrForbidden
)

// Actor is the signed-in employee performing an operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  model.Role
}

func (a Actor) wsActor() *ws.Actor {
	return &ws.Actor{ID: a.ID.String(), Name: a.Name, Role: string(a.Role)}
}

// validate runs struct tags and reports the first failure.
func validate(v interface{}) error {
	if err := validator.First(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
