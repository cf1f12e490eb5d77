package handler

import (
	"strconv"

	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSalesSummary returns revenue figures for a window.
// Query params: range (today, 7d, 1m, 3m, 6m, 12m; default 7d) or from/to (YYYY-MM-DD), top
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	if c.Query("from") == "" && c.Query("to") == "" {
		summary, err := h.service.SalesForRange(actorOf(c), c.Query("range", "7d"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(summary)
	}

	from, err := queryDate(c, "from")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid from date, use YYYY-MM-DD"})
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid to date, use YYYY-MM-DD"})
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	top, err := strconv.Atoi(c.Query("top", "5"))
	if err != nil || top <= 0 {
		top = 5
	}

	summary, err := h.service.SalesSummary(actorOf(c), from, to, top)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// GetInventoryStats returns overview statistics of the catalog
func (h *DashboardHandler) GetInventoryStats(c *fiber.Ctx) error {
	stats, err := h.service.InventoryStats(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
