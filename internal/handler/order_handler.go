package handler

import (
	"errors"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder registers a purchase order in PENDIENTE state
// POST /api/v1/ordenes
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNumberExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Orden creada", "data": order})
}

// CancelOrder transitions a live order to CANCELADA
// POST /api/v1/ordenes/:number/cancelar
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"motivo"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Cancel(c.Params("number"), getUserID(c), req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, service.ErrOrderNotCancellable) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Orden cancelada", "data": order})
}

// GetOrders returns all purchase orders
// GET /api/v1/ordenes
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetOrder returns one purchase order by number
// GET /api/v1/ordenes/:number
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetByNumber(c.Params("number"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}
