package handler

import (
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

// GetStoreSettings is readable by every terminal: it carries the tax rate and receipt text
// GET /api/v1/settings/store
func (h *SettingsHandler) GetStoreSettings(c *fiber.Ctx) error {
	st, err := h.service.StoreSettings()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (h *SettingsHandler) UpdateStoreSettings(c *fiber.Ctx) error {
	var in model.StoreSettings
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	st, err := h.service.UpdateStoreSettings(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": st})
}

func (h *SettingsHandler) GetEmployeeSettings(c *fiber.Ctx) error {
	es, err := h.service.EmployeeSettings(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(es)
}

func (h *SettingsHandler) UpdateEmployeeSettings(c *fiber.Ctx) error {
	var in model.EmployeeSettings
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	es, err := h.service.UpdateEmployeeSettings(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": es})
}

func (h *SettingsHandler) GetPermissions(c *fiber.Ctx) error {
	rows, err := h.service.Permissions(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// SetPermission flips one toggle
// PUT /api/v1/settings/permissions  {"role":"CASHIER","toggle":"voidSale","allowed":true}
func (h *SettingsHandler) SetPermission(c *fiber.Ctx) error {
	var change service.PermissionChange
	if err := c.BodyParser(&change); err != nil {
		return badJSON(c)
	}
	row, err := h.service.SetPermission(actorOf(c), change)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permission updated", "data": row})
}

func (h *SettingsHandler) GetStores(c *fiber.Ctx) error {
	stores, err := h.service.ListStores(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stores)
}

func (h *SettingsHandler) CreateStore(c *fiber.Ctx) error {
	var in model.Store
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	st, err := h.service.CreateStore(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Store created", "data": st})
}

func (h *SettingsHandler) UpdateStore(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "store")
	if !ok {
		return nil
	}
	var in model.Store
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	st, err := h.service.UpdateStore(actorOf(c), id, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Store updated", "data": st})
}

func (h *SettingsHandler) DeleteStore(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "store")
	if !ok {
		return nil
	}
	if err := h.service.DeleteStore(actorOf(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Store deleted"})
}
