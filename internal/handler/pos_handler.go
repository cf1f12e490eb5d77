package handler

import (
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type POSHandler struct {
	service service.CheckoutService
}

func NewPOSHandler(s service.CheckoutService) *POSHandler {
	return &POSHandler{service: s}
}

func (h *POSHandler) OpenCart(c *fiber.Ctx) error {
	cart, err := h.service.OpenCart(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(cart)
}

func (h *POSHandler) ListCarts(c *fiber.Ctx) error {
	carts, err := h.service.ListCarts(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(carts)
}

func (h *POSHandler) GetCart(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	cart, err := h.service.GetCart(actorOf(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

func (h *POSHandler) CloseCart(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	if err := h.service.CloseCart(actorOf(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart closed"})
}

// Scan handles a barcode read
// POST /api/v1/pos/carts/:id/scan
func (h *POSHandler) Scan(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	var req struct {
		SKU string `json:"sku"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.SKU == "" {
		return c.Status(400).JSON(fiber.Map{"error": "SKU is required"})
	}
	result, err := h.service.Scan(actorOf(c), id, req.SKU)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *POSHandler) AddItem(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	var req struct {
		ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	}
	if !bind(c, &req) {
		return nil
	}
	cart, err := h.service.AddProduct(actorOf(c), id, req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// SetQuantity sets a line quantity; zero or less removes the line
// PUT /api/v1/pos/carts/:id/items/:product_id
func (h *POSHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	productID, ok := paramUUID(c, "product_id", "product")
	if !ok {
		return nil
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	cart, err := h.service.SetQuantity(actorOf(c), id, productID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

func (h *POSHandler) RemoveItem(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	productID, ok := paramUUID(c, "product_id", "product")
	if !ok {
		return nil
	}
	cart, err := h.service.SetQuantity(actorOf(c), id, productID, 0)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

func (h *POSHandler) AttachCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	var req struct {
		CustomerID uuid.UUID `json:"customer_id" validate:"uuid_required"`
	}
	if !bind(c, &req) {
		return nil
	}
	cart, err := h.service.AttachCustomer(actorOf(c), id, req.CustomerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

func (h *POSHandler) DetachCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	cart, err := h.service.DetachCustomer(actorOf(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// SetDiscount overrides the membership discount of the attached customer
// PUT /api/v1/pos/carts/:id/discount  {"percent": 10} or {"percent": null}
func (h *POSHandler) SetDiscount(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	var req struct {
		Percent *int `json:"percent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	cart, err := h.service.SetDiscount(actorOf(c), id, req.Percent)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

func (h *POSHandler) Clear(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	cart, err := h.service.Clear(actorOf(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cart)
}

// Checkout settles the cart and returns the receipt
// POST /api/v1/pos/carts/:id/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id", "cart")
	if !ok {
		return nil
	}
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	receipt, err := h.service.Checkout(actorOf(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(receipt)
}

func (h *POSHandler) OpenDrawer(c *fiber.Ctx) error {
	if err := h.service.OpenDrawer(actorOf(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Drawer opened"})
}

// GetSales lists receipts
// GET /api/v1/sales?customer_id=&cashier_id=&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *POSHandler) GetSales(c *fiber.Ctx) error {
	var filter repository.SaleFilter
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("cashier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid cashier ID"})
		}
		filter.CashierID = &id
	}
	from, err := queryDate(c, "from")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid from date, use YYYY-MM-DD"})
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid to date, use YYYY-MM-DD"})
	}
	filter.From = from
	if !to.IsZero() {
		filter.To = to.AddDate(0, 0, 1)
	}

	sales, err := h.service.ListSales(actorOf(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": sales, "total": len(sales)})
}

func (h *POSHandler) GetSale(c *fiber.Ctx) error {
	receipt, err := h.service.GetReceipt(actorOf(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(receipt)
}

func (h *POSHandler) VoidSale(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c)
		}
	}
	receipt, err := h.service.VoidSale(actorOf(c), c.Params("id"), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale voided", "data": receipt})
}
