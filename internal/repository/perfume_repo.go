package repository

import (
	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PerfumeRepository interface {
	Create(perfume *model.Perfume) error
	FindAll() ([]model.Perfume, error)
	FindByID(id uuid.UUID) (*model.Perfume, error)
	FindBySKU(sku string) (*model.Perfume, error)
	Update(perfume *model.Perfume) error
	AddStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error

	// Dashboard aggregates
	Count() (int64, error)
	CountLowStock() (int64, error)
	TotalValuation() (decimal.Decimal, error)
}

type perfumeRepo struct {
	db *gorm.DB
}

func NewPerfumeRepo(db *gorm.DB) PerfumeRepository {
	return &perfumeRepo{db}
}

func (r *perfumeRepo) Create(perfume *model.Perfume) error {
	return r.db.Create(perfume).Error
}

func (r *perfumeRepo) FindAll() ([]model.Perfume, error) {
	var perfumes []model.Perfume
	err := r.db.Preload("CreatedByUser").Preload("UpdatedByUser").Order("name ASC").Find(&perfumes).Error
	return perfumes, err
}

func (r *perfumeRepo) FindByID(id uuid.UUID) (*model.Perfume, error) {
	var perfume model.Perfume
	err := r.db.First(&perfume, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &perfume, nil
}

func (r *perfumeRepo) FindBySKU(sku string) (*model.Perfume, error) {
	var perfume model.Perfume
	err := r.db.First(&perfume, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &perfume, nil
}

func (r *perfumeRepo) Update(perfume *model.Perfume) error {
	return r.db.Save(perfume).Error
}

// AddStock increments stock in place; it never overwrites an absolute value.
// Takes tx so it can run inside the posting transaction.
func (r *perfumeRepo) AddStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Perfume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_by": updatedBy,
		}).Error
}

func (r *perfumeRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Perfume{}).Count(&count).Error
	return count, err
}

func (r *perfumeRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Perfume{}).Where("stock < min_stock").Count(&count).Error
	return count, err
}

func (r *perfumeRepo) TotalValuation() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Perfume{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Scan(&total).Error
	return total, err
}
