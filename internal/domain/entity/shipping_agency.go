package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingAgency is a freight forwarder and its price quote per transport mode.
// Names are unique among agencies that are not soft-deleted. The index keeps
// gorm's default name so AutoMigrate does not also add a UNIQUE(name) constraint.
// A zero price means the mode is not offered.
type ShippingAgency struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name              string              `gorm:"size:255;not null;uniqueIndex:idx_shipping_agencies_name,where:deleted_at IS NULL" json:"name"`
	ContactPhone      *string             `gorm:"size:50" json:"contact_phone,omitempty"`
	ContactEmail      *string             `gorm:"size:255" json:"contact_email,omitempty"`
	AirPricePerKg     decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"air_price_per_kg"`
	SeaPricePerCbm    decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"sea_price_per_cbm"`
	ExpressPricePerKg decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"express_price_per_kg"`
	Notes             *string             `gorm:"type:text" json:"notes,omitempty"`
	IsActive          bool                `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	DeletedAt         gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new shipping agency
func (a *ShippingAgency) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (ShippingAgency) TableName() string {
	return "shipping_agencies"
}
