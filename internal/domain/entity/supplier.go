package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Supplier is a vendor goods are purchased from, usually abroad
type Supplier struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByID *uuid.UUID        `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Email       *string           `gorm:"size:255" json:"email,omitempty"`
	Phone       *string           `gorm:"size:50" json:"phone,omitempty"`
	Address     *string           `gorm:"type:text" json:"address,omitempty"`
	Country     *string           `gorm:"size:100" json:"country,omitempty"`
	ShopURL     *string           `gorm:"size:512;column:shop_url" json:"shop_url,omitempty"`
	Type        enum.SupplierType `gorm:"size:50;default:'wholesaler'" json:"type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	Orders []SupplierOrder `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
