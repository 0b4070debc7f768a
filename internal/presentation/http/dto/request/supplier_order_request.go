package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts accept JSON numbers or strings; null or an omitted field means unset.

// OrderLineRequest represents a product line
type OrderLineRequest struct {
	ProductName     string              `json:"product_name" binding:"required,max=255"`
	ProductSKU      *string             `json:"product_sku" binding:"omitempty,max=100"`
	Quantity        int                 `json:"quantity" binding:"min=1"`
	UnitPriceSource decimal.NullDecimal `json:"unit_price_source"`
	UnitWeightKg    decimal.NullDecimal `json:"unit_weight_kg"`
	UnitVolumeCbm   decimal.NullDecimal `json:"unit_volume_cbm"`
	DeliveryID      *uuid.UUID          `json:"delivery_id"`
	DeliveryIndex   *int                `json:"delivery_index"`
}

// DeliveryRequest represents a delivery
type DeliveryRequest struct {
	ShippingAgencyID *uuid.UUID          `json:"shipping_agency_id"`
	TransportType    string              `json:"transport_type" binding:"required"`
	ExpressSurcharge bool                `json:"express_surcharge"`
	WeightKg         decimal.NullDecimal `json:"weight_kg"`
	VolumeCbm        decimal.NullDecimal `json:"volume_cbm"`
	ShippingFeeLocal decimal.NullDecimal `json:"shipping_fee_local"`
	FeeIsManual      bool                `json:"fee_is_manual"`
	TrackingNo       *string             `json:"tracking_no" binding:"omitempty,max=100"`
	Status           string              `json:"status"`
}

// OrderHeaderRequest holds the order-level fields
type OrderHeaderRequest struct {
	SupplierID         *uuid.UUID          `json:"supplier_id"`
	Currency           string              `json:"currency" binding:"required"`
	ExchangeRate       decimal.NullDecimal `json:"exchange_rate"`
	BankFeesSource     decimal.Decimal     `json:"bank_fees_source"`
	ShippingFeesSource decimal.Decimal     `json:"shipping_fees_source"`
	Notes              *string             `json:"notes"`
}

// CreateSupplierOrderRequest represents a supplier order creation request
type CreateSupplierOrderRequest struct {
	OrderHeaderRequest
	Lines      []OrderLineRequest `json:"lines" binding:"dive"`
	Deliveries []DeliveryRequest  `json:"deliveries" binding:"dive"`
}

// ChangeStatusRequest moves an order to another status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ShippingAgencyRequest represents a shipping agency create/update request
type ShippingAgencyRequest struct {
	Name              string              `json:"name" binding:"required,min=2,max=255"`
	ContactPhone      *string             `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail      *string             `json:"contact_email" binding:"omitempty,email"`
	AirPricePerKg     decimal.Decimal     `json:"air_price_per_kg"`
	SeaPricePerCbm    decimal.Decimal     `json:"sea_price_per_cbm"`
	ExpressPricePerKg decimal.NullDecimal `json:"express_price_per_kg"`
	Notes             *string             `json:"notes"`
	IsActive          *bool               `json:"is_active"`
}

// ShippingEstimateRequest asks for a quote with either a stored agency or
// inline rates.
type ShippingEstimateRequest struct {
	ShippingAgencyID *uuid.UUID          `json:"shipping_agency_id"`
	Rates            *RatesRequest       `json:"rates"`
	TransportType    string              `json:"transport_type"`
	ExpressSurcharge bool                `json:"express_surcharge"`
	WeightKg         decimal.NullDecimal `json:"weight_kg"`
	VolumeCbm        decimal.NullDecimal `json:"volume_cbm"`
}

// RatesRequest is an agency price quote sent inline
type RatesRequest struct {
	AirPricePerKg     decimal.Decimal     `json:"air_price_per_kg"`
	SeaPricePerCbm    decimal.Decimal     `json:"sea_price_per_cbm"`
	ExpressPricePerKg decimal.NullDecimal `json:"express_price_per_kg"`
}

// SupplierRequest represents a supplier create/update request
type SupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	Country *string `json:"country" binding:"omitempty,max=100"`
	ShopURL *string `json:"shop_url" binding:"omitempty,url"`
	Type    string  `json:"type"`
}
