package handler

import (
	"errors"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WarehouseHandler struct {
	service service.WarehouseService
}

func NewWarehouseHandler(s service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{service: s}
}

// CreateWarehouse registers a warehouse
// POST /api/v1/almacenes
func (h *WarehouseHandler) CreateWarehouse(c *fiber.Ctx) error {
	var warehouse model.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&warehouse, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrWarehouseCodeExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Almacén creado", "data": warehouse})
}

// GetWarehouses returns all warehouses
// GET /api/v1/almacenes
func (h *WarehouseHandler) GetWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warehouses)
}
