package handler

import (
	"errors"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EntradaHandler struct {
	service service.EntradaService
}

func NewEntradaHandler(s service.EntradaService) *EntradaHandler {
	return &EntradaHandler{service: s}
}

// RegisterEntrada registers a new goods receipt in REGISTRADA state
// POST /api/v1/entradas
func (h *EntradaHandler) RegisterEntrada(c *fiber.Ctx) error {
	var req service.RegisterEntradaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entrada, err := h.service.Register(&req, getUserID(c), getUserName(c))
	if err != nil {
		if errors.Is(err, service.ErrEntradaNumberExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Entrada registrada", "data": entrada})
}

// GetEntradas returns all entradas
// GET /api/v1/entradas
func (h *EntradaHandler) GetEntradas(c *fiber.Ctx) error {
	entradas, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entradas)
}

// GetPendingEntradas returns entradas awaiting auditor validation
// GET /api/v1/entradas/pendientes
func (h *EntradaHandler) GetPendingEntradas(c *fiber.Ctx) error {
	entradas, err := h.service.GetPending()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entradas)
}

// GetEntrada returns one entrada by number
// GET /api/v1/entradas/:number
func (h *EntradaHandler) GetEntrada(c *fiber.Ctx) error {
	entrada, err := h.service.GetByNumber(c.Params("number"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Entrada not found"})
	}
	return c.JSON(entrada)
}
