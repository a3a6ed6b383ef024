package service

import (
	"errors"
	"fmt"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/pkg/validator"
)

var ErrSupplierNameExists = errors.New("supplier name already exists")

type SupplierService interface {
	Create(req *model.Supplier, userID string) error
	GetAll() ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(req *model.Supplier, userID string) error {
	// 1. Validate struct
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Name is the natural key legacy documents reference; keep it unique
	if existing, _ := s.supplierRepo.FindByName(req.Name); existing != nil {
		return ErrSupplierNameExists
	}

	// 3. Save
	req.IsActive = true
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.supplierRepo.Create(req)
}

func (s *supplierService) GetAll() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}
