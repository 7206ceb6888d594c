package models

import "time"

// CatalogDocument is one raw catalog payload stored verbatim.
type CatalogDocument struct {
	ProductID string    `gorm:"column:product_id;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (CatalogDocument) TableName() string {
	return "catalog_documents"
}
