package repository

import (
	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindByNumber(number string) (*model.PurchaseOrder, error)
	FindByStatus(status model.OrderStatus) ([]model.PurchaseOrder, error)
	Update(order *model.PurchaseOrder) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(order *model.PurchaseOrder) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Perfume").Preload("Supplier").Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.db.Preload("Perfume").Preload("Supplier").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(number string) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.db.Preload("Perfume").Preload("Supplier").First(&order, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByStatus(status model.OrderStatus) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Perfume").Preload("Supplier").
		Where("status = ?", status).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) Update(order *model.PurchaseOrder) error {
	return r.db.Save(order).Error
}
