package service

import (
	"errors"
	"fmt"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrTraspasoNumberExists = errors.New("traspaso number already exists")
	ErrTraspasoNotFound     = errors.New("traspaso not found")
)

type TraspasoService interface {
	Create(req *CreateTraspasoRequest, userID string) (*model.Traspaso, error)
	GetAll() ([]model.Traspaso, error)
	GetByNumber(number string) (*model.Traspaso, error)
}

type CreateTraspasoRequest struct {
	Number            string `json:"numero_traspaso" validate:"required"`
	PerfumeID         string `json:"perfume_id" validate:"required,uuid4"`
	Quantity          int    `json:"cantidad" validate:"required,gt=0"`
	SupplierRef       string `json:"proveedor" validate:"required"`
	DepartureDate     string `json:"fecha_salida" validate:"required"` // YYYY-MM-DD
	SourceWarehouseID string `json:"almacen_origen_id" validate:"required,uuid4"`
	Notes             string `json:"notas"`
}

type traspasoService struct {
	traspasoRepo  repository.TraspasoRepository
	perfumeRepo   repository.PerfumeRepository
	warehouseRepo repository.WarehouseRepository
}

func NewTraspasoService(traspasoRepo repository.TraspasoRepository, perfumeRepo repository.PerfumeRepository, warehouseRepo repository.WarehouseRepository) TraspasoService {
	return &traspasoService{
		traspasoRepo:  traspasoRepo,
		perfumeRepo:   perfumeRepo,
		warehouseRepo: warehouseRepo,
	}
}

func (s *traspasoService) Create(req *CreateTraspasoRequest, userID string) (*model.Traspaso, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check duplicate number
	if existing, _ := s.traspasoRepo.FindByNumber(req.Number); existing != nil {
		return nil, ErrTraspasoNumberExists
	}

	// 3. Perfume and source warehouse must exist
	perfumeID, err := uuid.Parse(req.PerfumeID)
	if err != nil {
		return nil, errors.New("invalid perfume ID format")
	}
	if _, err := s.perfumeRepo.FindByID(perfumeID); err != nil {
		return nil, ErrPerfumeNotFound
	}
	warehouseID, err := uuid.Parse(req.SourceWarehouseID)
	if err != nil {
		return nil, errors.New("invalid warehouse ID format")
	}
	if _, err := s.warehouseRepo.FindByID(warehouseID); err != nil {
		return nil, errors.New("source warehouse not found")
	}

	// 4. Parse departure date
	departureDate, err := parseDate(req.DepartureDate)
	if err != nil {
		return nil, err
	}

	traspaso := &model.Traspaso{
		Number:            req.Number,
		PerfumeID:         perfumeID,
		Quantity:          req.Quantity,
		SupplierRef:       req.SupplierRef,
		Status:            model.TraspasoPending,
		DepartureDate:     departureDate,
		SourceWarehouseID: warehouseID,
		Notes:             req.Notes,
		CreatedByUserID:   &userID,
	}
	traspaso.CreatedBy = userID
	traspaso.UpdatedBy = userID

	if err := s.traspasoRepo.Create(traspaso); err != nil {
		return nil, err
	}

	return traspaso, nil
}

func (s *traspasoService) GetAll() ([]model.Traspaso, error) {
	return s.traspasoRepo.FindAll()
}

func (s *traspasoService) GetByNumber(number string) (*model.Traspaso, error) {
	traspaso, err := s.traspasoRepo.FindByNumber(number)
	if err != nil {
		return nil, ErrTraspasoNotFound
	}
	return traspaso, nil
}
