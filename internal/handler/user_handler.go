package handler

import (
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles employee creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	user, err := h.userService.CreateUser(actorOf(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// GetUsers returns the employees visible to the caller
// GET /api/v1/users?search=
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(actorOf(c), c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// GetStats returns the staff screen counters
// GET /api/v1/users/stats
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.userService.Stats(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetUser returns a single employee by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "id", "user")
	if !ok {
		return nil
	}

	user, err := h.userService.GetUserByID(actorOf(c), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles employee update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "id", "user")
	if !ok {
		return nil
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	user, err := h.userService.UpdateUser(actorOf(c), userID, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser handles employee deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "id", "user")
	if !ok {
		return nil
	}

	if err := h.userService.DeleteUser(actorOf(c), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
