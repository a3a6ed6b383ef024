package model

// Supplier is a reference entity. Name doubles as a natural key because
// older entradas/traspasos stored the supplier as free text instead of an id.
type Supplier struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"nombre" validate:"required"`
	TaxID    string `gorm:"type:varchar(50)" json:"rfc"`
	Email    string `gorm:"type:varchar(255)" json:"email"`
	Phone    string `gorm:"type:varchar(20)" json:"telefono"`
	City     string `gorm:"type:varchar(100)" json:"ciudad"`
	IsActive bool   `gorm:"default:true" json:"activo"`
}
