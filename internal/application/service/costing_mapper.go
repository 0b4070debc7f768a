package service

import (
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
)

// ratesFromAgency returns nil when no agency is attached
func ratesFromAgency(a *entity.ShippingAgency) *costing.Rates {
	if a == nil {
		return nil
	}
	return &costing.Rates{
		AirPricePerKg:     a.AirPricePerKg,
		SeaPricePerCbm:    a.SeaPricePerCbm,
		ExpressPricePerKg: a.ExpressPricePerKg,
	}
}

func costingDelivery(d *entity.Delivery) costing.Delivery {
	return costing.Delivery{
		ID:               d.ID,
		TransportType:    d.TransportType,
		ExpressSurcharge: d.ExpressSurcharge,
		WeightKg:         d.WeightKg,
		VolumeCbm:        d.VolumeCbm,
		Rates:            ratesFromAgency(d.ShippingAgency),
		ShippingFeeLocal: d.ShippingFeeLocal,
	}
}

func costingLine(l *entity.SupplierOrderLine) costing.Line {
	return costing.Line{
		ID:              l.ID,
		ProductName:     l.ProductName,
		Quantity:        l.Quantity,
		UnitPriceSource: l.UnitPriceSource,
		UnitWeightKg:    l.UnitWeightKg,
		UnitVolumeCbm:   l.UnitVolumeCbm,
		DeliveryID:      l.DeliveryID,
	}
}

// costingOrder maps an order loaded with its lines, deliveries and agencies
func costingOrder(o *entity.SupplierOrder) costing.Order {
	order := costing.Order{
		ID:                 o.ID,
		Currency:           o.Currency,
		ExchangeRate:       o.ExchangeRate,
		BankFeesSource:     o.BankFeesSource,
		ShippingFeesSource: o.ShippingFeesSource,
		Lines:              make([]costing.Line, 0, len(o.Lines)),
		Deliveries:         make([]costing.Delivery, 0, len(o.Deliveries)),
	}
	for i := range o.Lines {
		order.Lines = append(order.Lines, costingLine(&o.Lines[i]))
	}
	for i := range o.Deliveries {
		order.Deliveries = append(order.Deliveries, costingDelivery(&o.Deliveries[i]))
	}
	return order
}
