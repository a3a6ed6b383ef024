package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/internal/ws"
	"go-perfumeria-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEntradaNumberExists   = errors.New("entrada number already exists")
	ErrInvalidEntradaDate    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrMissingOrderReference = errors.New("a COMPRA entrada requires an order reference")
)

type EntradaService interface {
	Register(req *RegisterEntradaRequest, userID, userName string) (*model.Entrada, error)
	GetAll() ([]model.Entrada, error)
	GetByNumber(number string) (*model.Entrada, error)
	GetPending() ([]model.Entrada, error)
}

type RegisterEntradaRequest struct {
	Number         string  `json:"numero_entrada" validate:"required"`
	Kind           string  `json:"tipo" validate:"required,oneof=COMPRA TRASPASO"`
	PerfumeID      string  `json:"perfume_id" validate:"required,uuid4"`
	Quantity       int     `json:"cantidad" validate:"required,gt=0"`
	SupplierRef    string  `json:"proveedor" validate:"required"`
	UnitPrice      *string `json:"precio_unitario"` // decimal string
	ReceiptDate    string  `json:"fecha_recepcion" validate:"required"` // YYYY-MM-DD
	OrderID        *string `json:"orden_id"`
	OrderNumber    string  `json:"numero_orden"`
	TransferNumber string  `json:"numero_traspaso"`
	SourceWhRef    string  `json:"almacen_origen"`
	DestWhRef      string  `json:"almacen_destino" validate:"required"`
}

type entradaService struct {
	entradaRepo repository.EntradaRepository
	perfumeRepo repository.PerfumeRepository
	wsHub       *ws.Hub
}

func NewEntradaService(entradaRepo repository.EntradaRepository, perfumeRepo repository.PerfumeRepository, hub *ws.Hub) EntradaService {
	return &entradaService{
		entradaRepo: entradaRepo,
		perfumeRepo: perfumeRepo,
		wsHub:       hub,
	}
}

func parseDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidEntradaDate
	}
	return parsed, nil
}

func (s *entradaService) Register(req *RegisterEntradaRequest, userID, userName string) (*model.Entrada, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check duplicate number
	if existing, _ := s.entradaRepo.FindByNumber(req.Number); existing != nil {
		return nil, ErrEntradaNumberExists
	}

	// 3. Perfume must exist
	perfumeID, err := uuid.Parse(req.PerfumeID)
	if err != nil {
		return nil, errors.New("invalid perfume ID format")
	}
	if _, err := s.perfumeRepo.FindByID(perfumeID); err != nil {
		return nil, ErrPerfumeNotFound
	}

	// 4. Kind-specific reference requirements. A COMPRA needs some order
	// link; a TRASPASO without a transfer number falls back to its own
	// number at resolution time, so it is accepted as-is.
	kind := model.EntradaKind(req.Kind)
	var orderID *uuid.UUID
	if kind == model.EntradaCompra {
		if req.OrderID == nil && req.OrderNumber == "" {
			return nil, ErrMissingOrderReference
		}
		if req.OrderID != nil {
			parsed, err := uuid.Parse(*req.OrderID)
			if err != nil {
				return nil, errors.New("invalid order ID format")
			}
			orderID = &parsed
		}
	}

	// 5. Parse dates and price
	receiptDate, err := parseDate(req.ReceiptDate)
	if err != nil {
		return nil, err
	}
	var unitPrice *decimal.Decimal
	if req.UnitPrice != nil {
		parsed, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			return nil, errors.New("invalid unit price")
		}
		unitPrice = &parsed
	}

	// 6. Create in REGISTRADA state; only the posting engine moves it on
	entrada := &model.Entrada{
		Number:             req.Number,
		Kind:               kind,
		PerfumeID:          perfumeID,
		Quantity:           req.Quantity,
		SupplierRef:        req.SupplierRef,
		UnitPrice:          unitPrice,
		ReceiptDate:        receiptDate,
		LogicalDate:        time.Now(),
		Status:             model.EntradaRegistered,
		OrderID:            orderID,
		OrderNumber:        req.OrderNumber,
		TransferNumber:     req.TransferNumber,
		SourceWarehouseRef: req.SourceWhRef,
		DestWarehouseRef:   req.DestWhRef,
		RegisteredByUserID: &userID,
	}
	entrada.CreatedBy = userID
	entrada.UpdatedBy = userID

	if err := s.entradaRepo.Create(entrada); err != nil {
		return nil, err
	}

	// 7. Broadcast so auditors see the pending entrada immediately
	go func() {
		payload := map[string]interface{}{
			"type":   "entrada_update",
			"action": "entrada_registrada",
			"entrada": map[string]interface{}{
				"numero":   entrada.Number,
				"tipo":     entrada.Kind,
				"cantidad": entrada.Quantity,
			},
			"message": fmt.Sprintf("%s registró la entrada %s", userName, entrada.Number),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return entrada, nil
}

func (s *entradaService) GetAll() ([]model.Entrada, error) {
	return s.entradaRepo.FindAll()
}

func (s *entradaService) GetByNumber(number string) (*model.Entrada, error) {
	entrada, err := s.entradaRepo.FindByNumber(number)
	if err != nil {
		return nil, ErrEntradaNotFound
	}
	return entrada, nil
}

func (s *entradaService) GetPending() ([]model.Entrada, error) {
	return s.entradaRepo.FindByStatus(model.EntradaRegistered)
}
