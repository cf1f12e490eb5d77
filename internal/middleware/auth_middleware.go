package middleware

import (
	"errors"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/service"
	"ayaat-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// Authenticator resolves a bearer token to the acting employee.
type Authenticator interface {
	Authenticate(tokenString string) (service.Actor, error)
}

// RequireAuth is middleware that validates the session token and stores the actor in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		actor, err := auth.Authenticate(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserInactive):
				return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
			case errors.Is(err, service.ErrUserNotFound):
				return c.Status(401).JSON(fiber.Map{"error": "User not found"})
			case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingToken):
				return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Failed to authenticate"})
		}

		c.Locals(actorKey, actor)
		c.Locals("user_id", actor.ID.String())
		c.Locals("user_name", actor.Name)
		c.Locals("user_role", string(actor.Role))

		return c.Next()
	}
}

// Actor returns the employee stored by RequireAuth.
func Actor(c *fiber.Ctx) (service.Actor, bool) {
	actor, ok := c.Locals(actorKey).(service.Actor)
	return actor, ok
}

// RequirePermission checks the authenticated role against the live permission table
func RequirePermission(policy *authz.Policy, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !policy.Can(actor.Role, action) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(action) + "' permission",
			})
		}
		return c.Next()
	}
}

// RequireAnyPermission passes when the role holds at least one of actions
func RequireAnyPermission(policy *authz.Policy, actions ...authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		names := make([]string, len(actions))
		for i, a := range actions {
			if policy.Can(actor.Role, a) {
				return c.Next()
			}
			names[i] = string(a)
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(names, ", ") + " permissions",
		})
	}
}
