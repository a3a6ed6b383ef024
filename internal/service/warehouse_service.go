package service

import (
	"errors"
	"fmt"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/pkg/validator"
)

var ErrWarehouseCodeExists = errors.New("warehouse code already exists")

type WarehouseService interface {
	Create(req *model.Warehouse, userID string) error
	GetAll() ([]model.Warehouse, error)
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo}
}

func (s *warehouseService) Create(req *model.Warehouse, userID string) error {
	// 1. Validate struct
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Code is the natural key legacy documents reference; keep it unique
	if existing, _ := s.warehouseRepo.FindByCode(req.Code); existing != nil {
		return ErrWarehouseCodeExists
	}

	// 3. Save
	req.IsActive = true
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.warehouseRepo.Create(req)
}

func (s *warehouseService) GetAll() ([]model.Warehouse, error) {
	return s.warehouseRepo.FindAll()
}
