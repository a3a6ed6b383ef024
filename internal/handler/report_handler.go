package handler

import (
	"fmt"
	"time"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStock downloads the current catalog with stock valuation
// GET /api/v1/reportes/inventario
func (h *ReportHandler) ExportStock(c *fiber.Ctx) error {
	buf, err := h.service.ExportStock()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}

// ExportEntradas downloads entradas within a date range
// Query params: desde, hasta (YYYY-MM-DD; defaults to the last 30 days)
// GET /api/v1/reportes/entradas
func (h *ReportHandler) ExportEntradas(c *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if desde := c.Query("desde"); desde != "" {
		parsed, err := time.Parse("2006-01-02", desde)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'desde' date, use YYYY-MM-DD"})
		}
		from = parsed
	}
	if hasta := c.Query("hasta"); hasta != "" {
		parsed, err := time.Parse("2006-01-02", hasta)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'hasta' date, use YYYY-MM-DD"})
		}
		to = parsed
	}

	buf, err := h.service.ExportEntradas(from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	filename := fmt.Sprintf("entradas_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
