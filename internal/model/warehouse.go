package model

// Warehouse is a reference entity. Code is the natural key legacy records
// used instead of the uuid.
type Warehouse struct {
	BaseModel
	Code     string `gorm:"type:varchar(20);uniqueIndex;not null" json:"codigo" validate:"required"`
	Name     string `gorm:"type:varchar(255);not null" json:"nombre" validate:"required"`
	City     string `gorm:"type:varchar(100)" json:"ciudad"`
	IsActive bool   `gorm:"default:true" json:"activo"`
}
