package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierOrder is a purchase order placed with a supplier. Amounts suffixed
// Source are in the order's currency; ExchangeRate converts one source unit
// into local currency.
type SupplierOrder struct {
	ID                 uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo            string                   `gorm:"size:100;unique;not null" json:"order_no"`
	SupplierID         *uuid.UUID               `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	CreatedByID        *uuid.UUID               `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	Status             enum.SupplierOrderStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Currency           string                   `gorm:"size:3;not null;default:'USD'" json:"currency"`
	ExchangeRate       decimal.NullDecimal      `gorm:"type:decimal(20,6)" json:"exchange_rate"`
	BankFeesSource     decimal.Decimal          `gorm:"type:decimal(20,4);not null;default:0" json:"bank_fees_source"`
	ShippingFeesSource decimal.Decimal          `gorm:"type:decimal(20,4);not null;default:0" json:"shipping_fees_source"`
	Notes              *string                  `gorm:"type:text" json:"notes,omitempty"`
	OrderedAt          *time.Time               `json:"ordered_at,omitempty"`
	ReceivedAt         *time.Time               `json:"received_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
	DeletedAt          gorm.DeletedAt           `gorm:"index" json:"-"`

	// Relationships
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Lines      []SupplierOrderLine `gorm:"foreignKey:SupplierOrderID" json:"lines,omitempty"`
	Deliveries []Delivery          `gorm:"foreignKey:SupplierOrderID" json:"deliveries,omitempty"`
}

// BeforeCreate generates a UUID before creating a new supplier order
func (o *SupplierOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (SupplierOrder) TableName() string {
	return "supplier_orders"
}

// IsEditable reports whether lines, deliveries and fees may still change
func (o *SupplierOrder) IsEditable() bool {
	return !o.Status.IsFinal()
}

// SupplierOrderLine is one product line of a supplier order
type SupplierOrderLine struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SupplierOrderID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_order_id"`
	DeliveryID      *uuid.UUID          `gorm:"type:uuid;index" json:"delivery_id,omitempty"`
	ProductName     string              `gorm:"size:255;not null" json:"product_name"`
	ProductSKU      *string             `gorm:"size:100;column:product_sku" json:"product_sku,omitempty"`
	Quantity        int                 `gorm:"not null" json:"quantity"`
	UnitPriceSource decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"unit_price_source"`
	UnitWeightKg    decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"unit_weight_kg"`
	UnitVolumeCbm   decimal.NullDecimal `gorm:"type:decimal(20,6)" json:"unit_volume_cbm"`
	Position        int                 `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order line
func (l *SupplierOrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (SupplierOrderLine) TableName() string {
	return "supplier_order_lines"
}

// Delivery is one shipment of a supplier order through a shipping agency.
// ShippingFeeLocal is re-quoted from the agency rates on every save unless
// FeeIsManual is set.
type Delivery struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SupplierOrderID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_order_id"`
	ShippingAgencyID *uuid.UUID          `gorm:"type:uuid;index" json:"shipping_agency_id,omitempty"`
	TransportType    enum.TransportType  `gorm:"size:20;not null;default:'air'" json:"transport_type"`
	ExpressSurcharge bool                `gorm:"not null;default:false" json:"express_surcharge"`
	WeightKg         decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"weight_kg"`
	VolumeCbm        decimal.NullDecimal `gorm:"type:decimal(20,6)" json:"volume_cbm"`
	ShippingFeeLocal decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"shipping_fee_local"`
	FeeIsManual      bool                `gorm:"not null;default:false" json:"fee_is_manual"`
	FeeTrace         string              `gorm:"type:text" json:"fee_trace"`
	TrackingNo       *string             `gorm:"size:100" json:"tracking_no,omitempty"`
	Status           enum.DeliveryStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Position         int                 `gorm:"not null;default:0" json:"position"`
	ShippedAt        *time.Time          `json:"shipped_at,omitempty"`
	ArrivedAt        *time.Time          `json:"arrived_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"-"`

	ShippingAgency *ShippingAgency `gorm:"foreignKey:ShippingAgencyID" json:"shipping_agency,omitempty"`
}

// BeforeCreate generates a UUID before creating a new delivery
func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Delivery) TableName() string {
	return "deliveries"
}
