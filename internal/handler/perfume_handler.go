package handler

import (
	"errors"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PerfumeHandler struct {
	service service.PerfumeService
}

func NewPerfumeHandler(s service.PerfumeService) *PerfumeHandler {
	return &PerfumeHandler{service: s}
}

// CreatePerfume adds a catalog item
// POST /api/v1/perfumes
func (h *PerfumeHandler) CreatePerfume(c *fiber.Ctx) error {
	var perfume model.Perfume
	if err := c.BodyParser(&perfume); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&perfume, getUserID(c), getUserName(c)); err != nil {
		if errors.Is(err, service.ErrSKUExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Perfume created", "data": perfume})
}

// UpdatePerfume updates catalog fields (stock is owned by the posting engine)
// PUT /api/v1/perfumes/:id
func (h *PerfumeHandler) UpdatePerfume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid perfume ID"})
	}

	var perfume model.Perfume
	if err := c.BodyParser(&perfume); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.Update(id, &perfume, getUserID(c), getUserName(c))
	if err != nil {
		if errors.Is(err, service.ErrPerfumeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Perfume updated", "data": updated})
}

// GetPerfumes returns the catalog
// GET /api/v1/perfumes
func (h *PerfumeHandler) GetPerfumes(c *fiber.Ctx) error {
	perfumes, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(perfumes)
}

// GetPerfume returns one catalog item by ID
// GET /api/v1/perfumes/:id
func (h *PerfumeHandler) GetPerfume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid perfume ID"})
	}

	perfume, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Perfume not found"})
	}
	return c.JSON(perfume)
}
