package repository

import (
	"go-perfumeria-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditEventRepository interface {
	// Create takes tx so events land inside the posting transaction.
	Create(tx *gorm.DB, event *model.AuditEvent) error
	FindByDocument(documentID uuid.UUID) ([]model.AuditEvent, error)
}

type auditEventRepo struct {
	db *gorm.DB
}

func NewAuditEventRepo(db *gorm.DB) AuditEventRepository {
	return &auditEventRepo{db}
}

func (r *auditEventRepo) Create(tx *gorm.DB, event *model.AuditEvent) error {
	return tx.Create(event).Error
}

func (r *auditEventRepo) FindByDocument(documentID uuid.UUID) ([]model.AuditEvent, error) {
	var events []model.AuditEvent
	err := r.db.Where("document_id = ?", documentID).Order("created_at ASC").Find(&events).Error
	return events, err
}
