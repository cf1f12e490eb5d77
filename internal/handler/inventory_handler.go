package handler

import (
	"bytes"
	"io"

	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func productFilter(c *fiber.Ctx) repository.ProductFilter {
	return repository.ProductFilter{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		OnlineOnly: c.QueryBool("online", false),
	}
}

// GetProducts lists the catalog
// GET /api/v1/products?search=&category=&online=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(productFilter(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return nil
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// GetProductBySKU is the exact, case-sensitive barcode lookup
// GET /api/v1/products/sku/:sku
func (h *InventoryHandler) GetProductBySKU(c *fiber.Ctx) error {
	product, err := h.service.GetBySKU(c.Params("sku"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.LowStock()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": products, "total": len(products)})
}

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	product, err := h.service.CreateProduct(actorOf(c), &in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return nil
	}
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	updated, err := h.service.UpdateProduct(actorOf(c), id, &in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return nil
	}
	if err := h.service.DeleteProduct(actorOf(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// SetVisibility toggles whether the storefront lists a product
// PUT /api/v1/products/:id/visibility
func (h *InventoryHandler) SetVisibility(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return nil
	}
	var req struct {
		Visible bool `json:"is_visible_online"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	product, err := h.service.SetVisibility(actorOf(c), id, req.Visible)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Visibility updated", "data": product})
}

// ApproveQuickAdd exchanges the manager PIN for a one-SKU override token
// POST /api/v1/products/approvals
func (h *InventoryHandler) ApproveQuickAdd(c *fiber.Ctx) error {
	var req struct {
		SKU string `json:"sku" validate:"required"`
		PIN string `json:"pin" validate:"pin"`
	}
	if !bind(c, &req) {
		return nil
	}
	approval, err := h.service.ApproveQuickAdd(actorOf(c), req.SKU, req.PIN)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(approval)
}

// ExportCSV downloads the catalog
// GET /api/v1/products/export
func (h *InventoryHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(actorOf(c), &buf, productFilter(c)); err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Send(buf.Bytes())
}

// ImportCSV accepts a multipart "file" field or a raw text/csv body
// POST /api/v1/products/import
func (h *InventoryHandler) ImportCSV(c *fiber.Ctx) error {
	var r io.Reader = bytes.NewReader(c.Body())
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Cannot read uploaded file"})
		}
		defer f.Close()
		r = f
	}
	report, err := h.service.ImportCSV(actorOf(c), r)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Import completed", "data": report})
}
