// Package handler exposes the terminal services over HTTP.
package handler

import (
	"errors"
	"log"
	"time"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/middleware"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/service"
	"ayaat-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusOf maps service errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrCustomerRequired),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrNoOpenShift),
		errors.Is(err, service.ErrApprovalNotNeeded),
		errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrApprovalRequired),
		errors.Is(err, authz.ErrInvalidPIN):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStoreNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSKUExists),
		errors.Is(err, service.ErrMembershipExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrStoreCodeExists),
		errors.Is(err, service.ErrShiftAlreadyOpen),
		errors.Is(err, service.ErrSaleAlreadyVoided),
		errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrStorefrontOffline):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// fail writes err as {"error": ...}. Unexpected errors are logged and hidden.
func fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}

// bind parses the body into dst and runs its validate tags, writing a 400 on failure.
func bind(c *fiber.Ctx, dst interface{}) bool {
	if err := c.BodyParser(dst); err != nil {
		badJSON(c)
		return false
	}
	if err := validator.First(dst); err != nil {
		c.Status(400).JSON(fiber.Map{"error": err.Error()})
		return false
	}
	return true
}

// actorOf returns the signed-in employee. Routes are mounted behind RequireAuth,
// so a missing actor means a wiring mistake.
func actorOf(c *fiber.Ctx) service.Actor {
	actor, _ := middleware.Actor(c)
	return actor
}

// paramUUID parses a path parameter, writing a 400 when it is malformed.
func paramUUID(c *fiber.Ctx, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		c.Status(400).JSON(fiber.Map{"error": "Invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// queryDate parses a YYYY-MM-DD query value. Empty yields the zero time.
func queryDate(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(model.DateLayout, raw, time.Local)
}
