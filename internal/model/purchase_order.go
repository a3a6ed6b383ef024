package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDIENTE"
	OrderProcessing OrderStatus = "EN_PROCESO"
	OrderCompleted  OrderStatus = "COMPLETADA"
	OrderCancelled  OrderStatus = "CANCELADA"
)

// Postable reports whether an entrada may still be posted against this
// status. COMPLETADA and CANCELADA are terminal.
func (s OrderStatus) Postable() bool {
	return s == OrderPending || s == OrderProcessing
}

type PurchaseOrder struct {
	BaseModel
	Number     string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero_orden" validate:"required"`
	PerfumeID  uuid.UUID       `gorm:"type:uuid;not null" json:"perfume_id" validate:"uuid_required"`
	Perfume    *Perfume        `json:"perfume,omitempty" validate:"-"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null" json:"proveedor_id" validate:"uuid_required"`
	Supplier   *Supplier       `json:"proveedor,omitempty" validate:"-"`
	Quantity   int             `gorm:"not null" json:"cantidad" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"precio_unitario"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"precio_total"`
	OrderDate  time.Time       `gorm:"not null" json:"fecha_orden"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDIENTE'" json:"estado"`
	Notes      string          `gorm:"type:text" json:"notas"`

	// Stamped by the posting engine when the backing entrada is validated.
	ReceivedBy *string    `gorm:"type:varchar(255)" json:"recibido_por,omitempty"`
	ReceivedAt *time.Time `json:"recibido_en,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
