package handler

import (
	"strings"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ShiftHandler struct {
	shiftService service.ShiftService
}

func NewShiftHandler(shiftService service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// ClockIn starts a work session for the caller
// POST /api/v1/shifts/clock-in
func (h *ShiftHandler) ClockIn(c *fiber.Ctx) error {
	shift, err := h.shiftService.ClockIn(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Clocked in",
		"data":    shift,
	})
}

// ClockOut closes the caller's ongoing session
// POST /api/v1/shifts/clock-out
func (h *ShiftHandler) ClockOut(c *fiber.Ctx) error {
	shift, err := h.shiftService.ClockOut(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Clocked out",
		"data":    shift,
	})
}

// GetCurrent returns the caller's ongoing session
// GET /api/v1/shifts/current
func (h *ShiftHandler) GetCurrent(c *fiber.Ctx) error {
	shift, err := h.shiftService.Current(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": shift})
}

// GetShifts lists sessions. Supervisors see everyone, others only themselves.
// GET /api/v1/shifts?status=ONGOING|COMPLETED
func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	status := model.ShiftStatus(strings.ToUpper(c.Query("status")))
	if status != "" && status != model.ShiftOngoing && status != model.ShiftCompleted {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status, use ONGOING or COMPLETED"})
	}

	shifts, err := h.shiftService.List(actorOf(c), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"data":   shifts,
		"status": status,
		"total":  len(shifts),
	})
}

// GetAlerts lists ongoing sessions past the configured maximum
// GET /api/v1/shifts/alerts
func (h *ShiftHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.shiftService.OvertimeAlerts(actorOf(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": alerts, "total": len(alerts)})
}
