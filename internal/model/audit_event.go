package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEvent records one state mutation made by the posting engine.
// One row per touched document, all written inside the posting transaction.
// Never updated or deleted.
type AuditEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Actor        string    `gorm:"type:varchar(255);not null" json:"actor"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	DocumentType string    `gorm:"type:varchar(30);not null;index" json:"document_type"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	PriorState   string    `gorm:"type:varchar(30)" json:"prior_state"`
	NewState     string    `gorm:"type:varchar(30)" json:"new_state"`
	Note         string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *AuditEvent) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}
