package handler

import (
	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	policy *authz.Policy
}

func NewRoleHandler(policy *authz.Policy) *RoleHandler {
	return &RoleHandler{policy: policy}
}

type roleResponse struct {
	Code        model.Role     `json:"code"`
	Permissions []authz.Action `json:"permissions"`
}

// GetRoles returns every role with what it may currently do
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	out := make([]roleResponse, 0, len(model.Roles))
	for _, role := range model.Roles {
		out = append(out, roleResponse{Code: role, Permissions: h.policy.Actions(role)})
	}
	return c.JSON(out)
}

// GetPermissions lists every action the permission table knows
// GET /api/v1/permissions
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	return c.JSON(authz.Actions)
}
