package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"
	"go-perfumeria-ws/internal/ws"
	"go-perfumeria-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSKUExists = errors.New("SKU already exists")

type PerfumeService interface {
	Create(req *model.Perfume, userID, userName string) error
	Update(id uuid.UUID, req *model.Perfume, userID, userName string) (*model.Perfume, error)
	GetAll() ([]model.Perfume, error)
	GetByID(id uuid.UUID) (*model.Perfume, error)
}

type perfumeService struct {
	perfumeRepo repository.PerfumeRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewPerfumeService(perfumeRepo repository.PerfumeRepository, db *gorm.DB, hub *ws.Hub) PerfumeService {
	return &perfumeService{
		perfumeRepo: perfumeRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *perfumeService) Create(req *model.Perfume, userID, userName string) error {
	// 1. Validate struct
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check duplicate SKU
	existing, _ := s.perfumeRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	// 3. Set audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	// 4. Save
	if err := s.perfumeRepo.Create(req); err != nil {
		return err
	}

	// 5. Broadcast
	go func() {
		payload := map[string]interface{}{
			"type":   "catalog_update",
			"action": "perfume_created",
			"perfume": map[string]interface{}{
				"id":     req.ID,
				"sku":    req.SKU,
				"nombre": req.Name,
				"stock":  req.Stock,
			},
			"message": fmt.Sprintf("%s registró el perfume '%s'", userName, req.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}

func (s *perfumeService) Update(id uuid.UUID, req *model.Perfume, userID, userName string) (*model.Perfume, error) {
	var updated *model.Perfume

	// Transaction with pessimistic lock: concurrent posting may be adding
	// stock to this same row.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Perfume
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrPerfumeNotFound
		}

		// Catalog fields only; stock is never overwritten here, the posting
		// engine owns stock mutations.
		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Brand = req.Brand
		existing.ML = req.ML
		existing.MinStock = req.MinStock
		existing.Price = req.Price
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "catalog_update",
			"action": "perfume_updated",
			"perfume": map[string]interface{}{
				"id":     updated.ID,
				"sku":    updated.SKU,
				"nombre": updated.Name,
			},
			"message": fmt.Sprintf("%s actualizó el perfume '%s'", userName, updated.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return updated, nil
}

func (s *perfumeService) GetAll() ([]model.Perfume, error) {
	return s.perfumeRepo.FindAll()
}

func (s *perfumeService) GetByID(id uuid.UUID) (*model.Perfume, error) {
	perfume, err := s.perfumeRepo.FindByID(id)
	if err != nil {
		return nil, ErrPerfumeNotFound
	}
	return perfume, nil
}
