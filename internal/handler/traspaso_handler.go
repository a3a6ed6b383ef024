package handler

import (
	"errors"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TraspasoHandler struct {
	service service.TraspasoService
}

func NewTraspasoHandler(s service.TraspasoService) *TraspasoHandler {
	return &TraspasoHandler{service: s}
}

// CreateTraspaso registers an outbound transfer in PENDIENTE state
// POST /api/v1/traspasos
func (h *TraspasoHandler) CreateTraspaso(c *fiber.Ctx) error {
	var req service.CreateTraspasoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	traspaso, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTraspasoNumberExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Traspaso creado", "data": traspaso})
}

// GetTraspasos returns all transfers
// GET /api/v1/traspasos
func (h *TraspasoHandler) GetTraspasos(c *fiber.Ctx) error {
	traspasos, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(traspasos)
}

// GetTraspaso returns one transfer by number
// GET /api/v1/traspasos/:number
func (h *TraspasoHandler) GetTraspaso(c *fiber.Ctx) error {
	traspaso, err := h.service.GetByNumber(c.Params("number"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Traspaso not found"})
	}
	return c.JSON(traspaso)
}
