package repository

import (
	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TraspasoRepository interface {
	Create(traspaso *model.Traspaso) error
	FindAll() ([]model.Traspaso, error)
	FindByID(id uuid.UUID) (*model.Traspaso, error)
	FindByNumber(number string) (*model.Traspaso, error)
	Update(traspaso *model.Traspaso) error
}

type traspasoRepo struct {
	db *gorm.DB
}

func NewTraspasoRepo(db *gorm.DB) TraspasoRepository {
	return &traspasoRepo{db}
}

func (r *traspasoRepo) Create(traspaso *model.Traspaso) error {
	return r.db.Create(traspaso).Error
}

func (r *traspasoRepo) FindAll() ([]model.Traspaso, error) {
	var traspasos []model.Traspaso
	err := r.db.Preload("Perfume").Preload("SourceWarehouse").
		Order("departure_date DESC").
		Find(&traspasos).Error
	return traspasos, err
}

func (r *traspasoRepo) FindByID(id uuid.UUID) (*model.Traspaso, error) {
	var traspaso model.Traspaso
	if err := r.db.Preload("Perfume").Preload("SourceWarehouse").First(&traspaso, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &traspaso, nil
}

func (r *traspasoRepo) FindByNumber(number string) (*model.Traspaso, error) {
	var traspaso model.Traspaso
	if err := r.db.Preload("Perfume").Preload("SourceWarehouse").First(&traspaso, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &traspaso, nil
}

func (r *traspasoRepo) Update(traspaso *model.Traspaso) error {
	return r.db.Save(traspaso).Error
}
