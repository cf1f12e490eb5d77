package handler

import (
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StorefrontHandler struct {
	service service.StorefrontService
}

func NewStorefrontHandler(s service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{service: s}
}

// GetPage is the public shop. 503 while the storefront is offline.
// GET /storefront?category=
func (h *StorefrontHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.service.Page(c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *StorefrontHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.service.Config(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cfg)
}

func (h *StorefrontHandler) UpdateConfig(c *fiber.Ctx) error {
	var in model.StorefrontConfig
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	cfg, err := h.service.UpdateConfig(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Storefront saved", "data": cfg})
}

// GetPreview renders the shop for editors, online or not
// GET /api/v1/storefront/preview
func (h *StorefrontHandler) GetPreview(c *fiber.Ctx) error {
	page, err := h.service.Preview(actorOf(c), c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}
