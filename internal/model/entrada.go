package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntradaStatus string

const (
	EntradaRegistered EntradaStatus = "REGISTRADA"
	EntradaValidated  EntradaStatus = "VALIDADA"
	EntradaRejected   EntradaStatus = "RECHAZADA"
)

type EntradaKind string

const (
	EntradaCompra   EntradaKind = "COMPRA"
	EntradaTraspaso EntradaKind = "TRASPASO"
)

// Entrada is a goods receipt pending auditor validation. Several reference
// fields are strings that may hold either a uuid or a legacy natural key
// (supplier name, warehouse code); see audit.ParseRef.
type Entrada struct {
	BaseModel
	Number   string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"numero_entrada" validate:"required"`
	Kind     EntradaKind `gorm:"type:varchar(10);not null" json:"tipo" validate:"required,oneof=COMPRA TRASPASO"`
	Quantity int         `gorm:"not null" json:"cantidad" validate:"required,gt=0"`

	PerfumeID uuid.UUID `gorm:"type:uuid;not null" json:"perfume_id" validate:"uuid_required"`
	Perfume   *Perfume  `json:"perfume,omitempty" validate:"-"`

	// uuid or free-text supplier name (schema-migration artifact)
	SupplierRef string `gorm:"type:varchar(255);not null" json:"proveedor" validate:"required"`

	UnitPrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"precio_unitario,omitempty"`
	ReceiptDate time.Time        `gorm:"not null" json:"fecha_recepcion"`
	LogicalDate time.Time        `gorm:"not null" json:"fecha_registro"`

	Status       EntradaStatus `gorm:"type:varchar(15);not null;default:'REGISTRADA'" json:"estado"`
	ValidatedBy  *string       `gorm:"type:varchar(255)" json:"validado_por,omitempty"`
	ValidatedAt  *time.Time    `json:"validado_en,omitempty"`
	AuditorNotes string        `gorm:"type:text" json:"notas_auditor"`

	// Link to the backing commercial document. OrderID is the primary path
	// for COMPRA entradas; OrderNumber is a legacy textual link kept for old
	// records. TransferNumber is set iff Kind is TRASPASO (old records left
	// it empty and reused Number as the traspaso number).
	OrderID        *uuid.UUID `gorm:"type:uuid" json:"orden_id,omitempty"`
	OrderNumber    string     `gorm:"type:varchar(30)" json:"numero_orden,omitempty"`
	TransferNumber string     `gorm:"type:varchar(30)" json:"numero_traspaso,omitempty"`

	// uuid or warehouse code. Destination is required and is normalized to a
	// uuid by the posting engine; source is optional.
	SourceWarehouseRef string `gorm:"type:varchar(255)" json:"almacen_origen,omitempty"`
	DestWarehouseRef   string `gorm:"type:varchar(255);not null" json:"almacen_destino" validate:"required"`

	// User tracking
	RegisteredByUserID *string `gorm:"type:varchar(255)" json:"registered_by_user_id,omitempty"`
	RegisteredByUser   *User   `gorm:"foreignKey:RegisteredByUserID;references:ID" json:"registered_by_user,omitempty"`
}
