package service

import (
	"errors"
	"fmt"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNumberExists   = errors.New("order number already exists")
	ErrOrderNotFound       = errors.New("purchase order not found")
	ErrOrderNotCancellable = errors.New("only pending or in-process orders can be cancelled")
)

type OrderService interface {
	Create(req *CreateOrderRequest, userID string) (*model.PurchaseOrder, error)
	Cancel(number string, userID, reason string) (*model.PurchaseOrder, error)
	GetAll() ([]model.PurchaseOrder, error)
	GetByNumber(number string) (*model.PurchaseOrder, error)
}

type CreateOrderRequest struct {
	Number     string `json:"numero_orden" validate:"required"`
	PerfumeID  string `json:"perfume_id" validate:"required,uuid4"`
	SupplierID string `json:"proveedor_id" validate:"required,uuid4"`
	Quantity   int    `json:"cantidad" validate:"required,gt=0"`
	UnitPrice  string `json:"precio_unitario" validate:"required"` // decimal string
	OrderDate  string `json:"fecha_orden" validate:"required"`     // YYYY-MM-DD
	Notes      string `json:"notas"`
}

type orderService struct {
	orderRepo    repository.OrderRepository
	perfumeRepo  repository.PerfumeRepository
	supplierRepo repository.SupplierRepository
}

func NewOrderService(orderRepo repository.OrderRepository, perfumeRepo repository.PerfumeRepository, supplierRepo repository.SupplierRepository) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		perfumeRepo:  perfumeRepo,
		supplierRepo: supplierRepo,
	}
}

func (s *orderService) Create(req *CreateOrderRequest, userID string) (*model.PurchaseOrder, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check duplicate number
	if existing, _ := s.orderRepo.FindByNumber(req.Number); existing != nil {
		return nil, ErrOrderNumberExists
	}

	// 3. Perfume and supplier must exist
	perfumeID, err := uuid.Parse(req.PerfumeID)
	if err != nil {
		return nil, errors.New("invalid perfume ID format")
	}
	if _, err := s.perfumeRepo.FindByID(perfumeID); err != nil {
		return nil, ErrPerfumeNotFound
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("invalid supplier ID format")
	}
	if _, err := s.supplierRepo.FindByID(supplierID); err != nil {
		return nil, errors.New("supplier not found")
	}

	// 4. Parse price and date, derive total
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		return nil, errors.New("invalid unit price")
	}
	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		return nil, err
	}

	order := &model.PurchaseOrder{
		Number:          req.Number,
		PerfumeID:       perfumeID,
		SupplierID:      supplierID,
		Quantity:        req.Quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		OrderDate:       orderDate,
		Status:          model.OrderPending,
		Notes:           req.Notes,
		CreatedByUserID: &userID,
	}
	order.CreatedBy = userID
	order.UpdatedBy = userID

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderService) Cancel(number string, userID, reason string) (*model.PurchaseOrder, error) {
	// 1. Find order
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	// 2. Only live orders can be cancelled
	if !order.Status.Postable() {
		return nil, ErrOrderNotCancellable
	}

	// 3. Transition
	order.Status = model.OrderCancelled
	if reason != "" {
		order.Notes = reason
	}
	order.UpdatedBy = userID

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetAll() ([]model.PurchaseOrder, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetByNumber(number string) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
