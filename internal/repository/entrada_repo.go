package repository

import (
	"time"

	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntradaRepository interface {
	Create(entrada *model.Entrada) error
	FindAll() ([]model.Entrada, error)
	FindByID(id uuid.UUID) (*model.Entrada, error)
	FindByNumber(number string) (*model.Entrada, error)
	FindByStatus(status model.EntradaStatus) ([]model.Entrada, error)
	FindBetween(start, end time.Time) ([]model.Entrada, error)
	Update(entrada *model.Entrada) error

	// Dashboard aggregates
	CountByStatus(status model.EntradaStatus) (int64, error)
	CountValidatedBetween(start, end time.Time) (int64, error)
	GetEntradaFlow(start, end time.Time) ([]EntradaFlowData, error)
}

// EntradaFlowData aggregates received quantity per day for chart data.
type EntradaFlowData struct {
	Date      string `json:"date"`
	Compras   int    `json:"compras"`
	Traspasos int    `json:"traspasos"`
}

type entradaRepo struct {
	db *gorm.DB
}

func NewEntradaRepo(db *gorm.DB) EntradaRepository {
	return &entradaRepo{db}
}

func (r *entradaRepo) Create(entrada *model.Entrada) error {
	return r.db.Create(entrada).Error
}

func (r *entradaRepo) FindAll() ([]model.Entrada, error) {
	var entradas []model.Entrada
	err := r.db.Preload("Perfume").Preload("RegisteredByUser").
		Order("receipt_date DESC").
		Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepo) FindByID(id uuid.UUID) (*model.Entrada, error) {
	var entrada model.Entrada
	if err := r.db.Preload("Perfume").Preload("RegisteredByUser").First(&entrada, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entrada, nil
}

func (r *entradaRepo) FindByNumber(number string) (*model.Entrada, error) {
	var entrada model.Entrada
	if err := r.db.Preload("Perfume").Preload("RegisteredByUser").First(&entrada, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &entrada, nil
}

func (r *entradaRepo) FindByStatus(status model.EntradaStatus) ([]model.Entrada, error) {
	var entradas []model.Entrada
	err := r.db.Preload("Perfume").Preload("RegisteredByUser").
		Where("status = ?", status).
		Order("receipt_date ASC").
		Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepo) FindBetween(start, end time.Time) ([]model.Entrada, error) {
	var entradas []model.Entrada
	err := r.db.Preload("Perfume").
		Where("receipt_date BETWEEN ? AND ?", start, end).
		Order("receipt_date ASC").
		Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepo) Update(entrada *model.Entrada) error {
	return r.db.Save(entrada).Error
}

func (r *entradaRepo) CountByStatus(status model.EntradaStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Entrada{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *entradaRepo) CountValidatedBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Entrada{}).
		Where("status = ? AND validated_at BETWEEN ? AND ?", model.EntradaValidated, start, end).
		Count(&count).Error
	return count, err
}

func (r *entradaRepo) GetEntradaFlow(start, end time.Time) ([]EntradaFlowData, error) {
	var results []EntradaFlowData

	rows, err := r.db.Model(&model.Entrada{}).
		Select(`
			DATE(receipt_date) as date,
			COALESCE(SUM(CASE WHEN kind = 'COMPRA' THEN quantity ELSE 0 END), 0) as compras,
			COALESCE(SUM(CASE WHEN kind = 'TRASPASO' THEN quantity ELSE 0 END), 0) as traspasos
		`).
		Where("receipt_date BETWEEN ? AND ?", start, end).
		Group("DATE(receipt_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data EntradaFlowData
		if err := rows.Scan(&data.Date, &data.Compras, &data.Traspasos); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
