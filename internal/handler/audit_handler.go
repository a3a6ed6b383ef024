package handler

import (
	"errors"

	"go-perfumeria-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	service service.AuditService
}

func NewAuditHandler(s service.AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail := c.Locals("user_email")
	if userEmail == nil {
		return ""
	}
	return userEmail.(string)
}

func auditorFromContext(c *fiber.Ctx) service.AuditorIdentity {
	return service.AuditorIdentity{
		ID:    getUserID(c),
		Name:  getUserName(c),
		Email: getUserEmail(c),
	}
}

// auditStatus maps engine errors to HTTP status codes.
func auditStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEntradaNotFound),
		errors.Is(err, service.ErrCounterpartNotFound),
		errors.Is(err, service.ErrPerfumeNotFound):
		return 404
	case errors.Is(err, service.ErrAlreadyProcessed):
		return 409
	case errors.Is(err, service.ErrValidationBlocked),
		errors.Is(err, service.ErrInconsistentReference):
		return 422
	default:
		return 500
	}
}

// InspectEntrada runs the read-only rule table against an entrada
// GET /api/v1/entradas/:number/inspeccion
func (h *AuditHandler) InspectEntrada(c *fiber.Ctx) error {
	number := c.Params("number")

	verdict, err := h.service.Inspect(number)
	if err != nil {
		return c.Status(auditStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(verdict)
}

// GetHistory returns the recorded state transitions for an entrada
// GET /api/v1/entradas/:number/historial
func (h *AuditHandler) GetHistory(c *fiber.Ctx) error {
	events, err := h.service.History(c.Params("number"))
	if err != nil {
		return c.Status(auditStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

// ValidateRequest carries the auditor notes for a validation decision
type ValidateRequest struct {
	Notes string `json:"notas"`
}

// ValidateEntrada re-inspects and posts the entrada if the verdict allows it
// POST /api/v1/entradas/:number/validar
func (h *AuditHandler) ValidateEntrada(c *fiber.Ctx) error {
	number := c.Params("number")

	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Commit(number, auditorFromContext(c), req.Notes)
	if err != nil {
		return c.Status(auditStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Entrada validada", "data": result})
}

// RejectEntrada marks an entrada as rejected by auditor decision
// POST /api/v1/entradas/:number/rechazar
func (h *AuditHandler) RejectEntrada(c *fiber.Ctx) error {
	number := c.Params("number")

	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Notes == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Rejection requires notes"})
	}

	entrada, err := h.service.Reject(number, auditorFromContext(c), req.Notes)
	if err != nil {
		return c.Status(auditStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Entrada rechazada", "data": entrada})
}
