package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderFile represents a production file attached to an order, stored
// in object storage under {folio}/{area folder}/
type OrderFile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	Order      Order          `gorm:"foreignKey:OrderID" json:"-"` // don't include full order in JSON
	Name       string         `gorm:"not null" json:"name"`
	StorageKey string         `gorm:"not null" json:"storage_key"`
	Size       int64          `gorm:"not null" json:"size"`
	MimeType   string         `gorm:"not null" json:"mime_type"`
	Area       string         `gorm:"not null" json:"area"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderFile model
func (OrderFile) TableName() string {
	return "order_files"
}
