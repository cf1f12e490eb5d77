package handler

import (
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GetCustomers searches by name, phone, email or membership code
// GET /api/v1/customers?search=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List(c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer returns the member with their purchase history
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "customer")
	if !ok {
		return nil
	}
	customer, err := h.service.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) GetByMembership(c *fiber.Ctx) error {
	customer, err := h.service.GetByMembershipID(c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var in service.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	customer, err := h.service.Create(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer registered", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "customer")
	if !ok {
		return nil
	}
	var in service.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	customer, err := h.service.Update(actorOf(c), id, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}
