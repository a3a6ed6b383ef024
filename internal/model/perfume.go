package model

import "github.com/shopspring/decimal"

// Perfume is the stock item. Stock only ever increases through entrada
// posting; sales/decrements live in a different system.
type Perfume struct {
	BaseModel
	SKU      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string          `gorm:"type:varchar(255);not null" json:"nombre" validate:"required"`
	Brand    string          `gorm:"type:varchar(100)" json:"marca"`
	ML       int             `gorm:"default:0" json:"ml"`
	Stock    int             `gorm:"default:0" json:"stock"`
	MinStock int             `gorm:"default:5" json:"stock_minimo"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"precio"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}
