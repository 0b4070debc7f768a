package costing

import (
	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Line is one product line of a supplier order
type Line struct {
	ID              uuid.UUID           `json:"id"`
	ProductName     string              `json:"product_name"`
	Quantity        int                 `json:"quantity"`
	UnitPriceSource decimal.NullDecimal `json:"unit_price_source"`
	UnitWeightKg    decimal.NullDecimal `json:"unit_weight_kg"`
	UnitVolumeCbm   decimal.NullDecimal `json:"unit_volume_cbm"`
	// DeliveryID pins the line to the delivery its goods travel on. When
	// empty the order's first delivery is used.
	DeliveryID *uuid.UUID `json:"delivery_id,omitempty"`
}

func (l Line) quantity() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(l.Quantity))
}

// WeightTotal is unit weight times quantity
func (l Line) WeightTotal() decimal.Decimal {
	return orZero(l.UnitWeightKg).Mul(l.quantity())
}

// VolumeTotal is unit volume times quantity
func (l Line) VolumeTotal() decimal.Decimal {
	return orZero(l.UnitVolumeCbm).Mul(l.quantity())
}

// ValueSource is unit price times quantity, in source currency
func (l Line) ValueSource() decimal.Decimal {
	return orZero(l.UnitPriceSource).Mul(l.quantity())
}

// Delivery is a shipment of the order together with its agency's rates
type Delivery struct {
	ID               uuid.UUID           `json:"id"`
	TransportType    enum.TransportType  `json:"transport_type"`
	ExpressSurcharge bool                `json:"express_surcharge"`
	WeightKg         decimal.NullDecimal `json:"weight_kg"`
	VolumeCbm        decimal.NullDecimal `json:"volume_cbm"`
	Rates            *Rates              `json:"rates,omitempty"`
	// ShippingFeeLocal is the stored (quoted or manually edited) fee
	ShippingFeeLocal decimal.NullDecimal `json:"shipping_fee_local"`
}

// ShippingRequest returns the delivery as an input to EstimateShippingFee
func (d Delivery) ShippingRequest() ShippingRequest {
	return ShippingRequest{
		TransportType:    d.TransportType,
		ExpressSurcharge: d.ExpressSurcharge,
		WeightKg:         d.WeightKg,
		VolumeCbm:        d.VolumeCbm,
	}
}

// ResolveDelivery picks the delivery driving a line's shipping cost: the one
// the line names, else the first delivery of the order.
func ResolveDelivery(line Line, deliveries []Delivery) *Delivery {
	if len(deliveries) == 0 {
		return nil
	}
	if line.DeliveryID != nil {
		for i := range deliveries {
			if deliveries[i].ID == *line.DeliveryID {
				return &deliveries[i]
			}
		}
	}
	return &deliveries[0]
}

// LineShippingCost returns the shipping cost attributable to the whole line
func (e *Engine) LineShippingCost(line Line, d *Delivery) decimal.Decimal {
	if d == nil || d.Rates == nil || line.Quantity <= 0 {
		return decimal.Zero
	}

	qty := line.quantity()
	weight, hasWeight := positive(line.UnitWeightKg)
	volume, hasVolume := positive(line.UnitVolumeCbm)

	switch {
	case d.TransportType == enum.TransportSea && hasVolume:
		return volume.Mul(qty).Mul(d.Rates.SeaPricePerCbm)
	case d.TransportType == enum.TransportAir && hasWeight:
		return weight.Mul(qty).Mul(d.Rates.AirPricePerKg)
	case d.TransportType == enum.TransportExpress && hasWeight:
		return weight.Mul(qty).Mul(d.Rates.ExpressRate())
	case d.TransportType == enum.TransportSea && hasWeight:
		totalCbm := weight.Mul(qty).Div(kgPerCbm)
		return totalCbm.Mul(d.Rates.SeaPricePerCbm)
	}
	return decimal.Zero
}

// LineShippingCostPerUnit spreads the line's shipping cost over its quantity.
// A zero quantity yields zero.
func (e *Engine) LineShippingCostPerUnit(line Line, d *Delivery) decimal.Decimal {
	if line.Quantity <= 0 {
		return decimal.Zero
	}
	return e.LineShippingCost(line, d).Div(line.quantity())
}

// FeesPerLine splits the order's bank and shipping fees equally across lines,
// converted to local currency.
func (e *Engine) FeesPerLine(bankFeesSource, shippingFeesSource decimal.Decimal, exchangeRate decimal.NullDecimal, lineCount int) LocalAmount {
	rate, ok := positive(exchangeRate)
	if !ok {
		return Undefined()
	}
	if lineCount <= 0 {
		return Defined(decimal.Zero)
	}
	pool := bankFeesSource.Add(shippingFeesSource).Mul(rate)
	return Defined(pool.Div(decimal.NewFromInt(int64(lineCount))))
}

// UnitCostPrice is the landed cost of one unit in local currency: purchase
// price converted, plus per-unit shipping, plus the line's fee share per unit.
func (e *Engine) UnitCostPrice(line Line, d *Delivery, exchangeRate decimal.NullDecimal, feesPerLine LocalAmount) LocalAmount {
	rate, ok := positive(exchangeRate)
	if !ok {
		return Undefined()
	}
	fees, ok := feesPerLine.Value()
	if !ok {
		return Undefined()
	}

	cost := orZero(line.UnitPriceSource).Mul(rate).
		Add(e.LineShippingCostPerUnit(line, d))
	if line.Quantity > 0 {
		cost = cost.Add(fees.Div(line.quantity()))
	}
	return Defined(cost)
}

// LineCostTotal is the landed unit cost times quantity
func (e *Engine) LineCostTotal(line Line, d *Delivery, exchangeRate decimal.NullDecimal, feesPerLine LocalAmount) LocalAmount {
	return e.UnitCostPrice(line, d, exchangeRate, feesPerLine).Mul(line.quantity())
}
