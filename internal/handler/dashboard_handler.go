package handler

import (
	"strconv"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetEntradaFlow returns received quantity per day for charts
// Query params: days (default 7)
// GET /api/v1/dashboard/flujo-entradas
func (h *DashboardHandler) GetEntradaFlow(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetEntradaFlow(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch entrada flow"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
