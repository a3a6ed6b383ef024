package model

import (
	"time"

	"github.com/google/uuid"
)

type TraspasoStatus string

const (
	TraspasoPending   TraspasoStatus = "PENDIENTE"
	TraspasoValidated TraspasoStatus = "VALIDADO"
	TraspasoRejected  TraspasoStatus = "RECHAZADO"
)

// Postable reports whether an entrada may still be posted against this
// status. VALIDADO is terminal; RECHAZADO blocks posting outright.
func (s TraspasoStatus) Postable() bool {
	return s == TraspasoPending
}

// Traspaso is an internal stock movement between two warehouses.
type Traspaso struct {
	BaseModel
	Number    string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero_traspaso" validate:"required"`
	PerfumeID uuid.UUID `gorm:"type:uuid;not null" json:"perfume_id" validate:"uuid_required"`
	Perfume   *Perfume  `json:"perfume,omitempty" validate:"-"`
	Quantity  int       `gorm:"not null" json:"cantidad" validate:"required,gt=0"`

	// uuid or free-text supplier name, same artifact as Entrada.SupplierRef
	SupplierRef string `gorm:"type:varchar(255);not null" json:"proveedor" validate:"required"`

	Status        TraspasoStatus `gorm:"type:varchar(15);not null;default:'PENDIENTE'" json:"estado"`
	DepartureDate time.Time      `gorm:"not null" json:"fecha_salida"`

	SourceWarehouseID uuid.UUID  `gorm:"type:uuid;not null" json:"almacen_origen_id" validate:"uuid_required"`
	SourceWarehouse   *Warehouse `json:"almacen_origen,omitempty" validate:"-"`

	ValidatedBy *string    `gorm:"type:varchar(255)" json:"validado_por,omitempty"`
	ValidatedAt *time.Time `json:"validado_en,omitempty"`
	Notes       string     `gorm:"type:text" json:"notas"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
