package costing

import (
	"fmt"

	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultLocalCurrency is the label printed after local-currency amounts
const DefaultLocalCurrency = "F CFA"

// EstimateStatus explains why an estimate does or does not carry a fee
type EstimateStatus string

const (
	EstimateComputed           EstimateStatus = "computed"
	EstimateAgencyMissing      EstimateStatus = "agency_missing"
	EstimateMeasurementMissing EstimateStatus = "measurement_missing"
	EstimateNotOffered         EstimateStatus = "not_offered"
	EstimateUnknownTransport   EstimateStatus = "unknown_transport"
)

const hintSelectAgency = "Select a shipping agency to calculate the shipping fee"

// ShippingRequest is the transport being costed. Weight and volume are
// order-level quantities, not per unit.
type ShippingRequest struct {
	TransportType    enum.TransportType  `json:"transport_type"`
	ExpressSurcharge bool                `json:"express_surcharge"`
	WeightKg         decimal.NullDecimal `json:"weight_kg"`
	VolumeCbm        decimal.NullDecimal `json:"volume_cbm"`
}

// ShippingEstimate is the outcome of a shipping-fee calculation. An empty Fee
// (Valid == false) is distinct from a computed fee of zero.
type ShippingEstimate struct {
	Fee    decimal.NullDecimal `json:"fee"`
	Trace  string              `json:"trace"`
	Hint   string              `json:"hint,omitempty"`
	Status EstimateStatus      `json:"status"`
}

// HasFee reports whether a fee was computed
func (s ShippingEstimate) HasFee() bool {
	return s.Fee.Valid
}

// Engine computes shipping fees and landed costs. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	currency string
}

// NewEngine creates an engine printing amounts in the given local currency
func NewEngine(localCurrency string) *Engine {
	if localCurrency == "" {
		localCurrency = DefaultLocalCurrency
	}
	return &Engine{currency: localCurrency}
}

// LocalCurrency returns the label used for local-currency amounts
func (e *Engine) LocalCurrency() string {
	return e.currency
}

// EstimateShippingFee computes the aggregate shipping fee for a delivery
// using the agency's rates. rates is nil when no agency is selected.
func (e *Engine) EstimateShippingFee(req ShippingRequest, rates *Rates) ShippingEstimate {
	if rates == nil {
		return ShippingEstimate{Status: EstimateAgencyMissing, Hint: hintSelectAgency}
	}

	weight, hasWeight := positive(req.WeightKg)
	volume, hasVolume := positive(req.VolumeCbm)

	var fee decimal.Decimal
	var trace string

	switch req.TransportType {
	case enum.TransportAir, enum.TransportExpress:
		rate := rates.RateFor(req.TransportType)
		if !rate.IsPositive() {
			return e.notOffered(req.TransportType)
		}
		if !hasWeight {
			return e.measurementMissing(rate, "kg", "weight")
		}
		fee = weight.Mul(rate)
		trace = fmt.Sprintf("%s kg × %s = %s", weight.String(), e.perUnit(rate, "kg"), e.amount(fee))

	case enum.TransportSea:
		rate := rates.SeaPricePerCbm
		if !rate.IsPositive() {
			return e.notOffered(req.TransportType)
		}
		switch {
		case hasVolume:
			fee = volume.Mul(rate)
			trace = fmt.Sprintf("%s CBM × %s = %s", volume.String(), e.perUnit(rate, "CBM"), e.amount(fee))
		case hasWeight:
			cbm := weight.Div(kgPerCbm)
			fee = cbm.Mul(rate)
			trace = fmt.Sprintf("%s kg ÷ %d kg/CBM ≈ %s CBM × %s = %s",
				weight.String(), KgPerCbm, cbm.Round(3).String(), e.perUnit(rate, "CBM"), e.amount(fee))
		default:
			return e.measurementMissing(rate, "CBM", "volume")
		}

	default:
		return ShippingEstimate{Status: EstimateUnknownTransport, Hint: "Select a transport type (air, sea or express)"}
	}

	if req.ExpressSurcharge && req.TransportType != enum.TransportExpress {
		fee = fee.Mul(expressSurchargeRate)
		trace += fmt.Sprintf(" + 30%% express = %s", e.amount(fee))
	}

	return ShippingEstimate{
		Fee:    decimal.NewNullDecimal(fee),
		Trace:  trace,
		Status: EstimateComputed,
	}
}

func (e *Engine) measurementMissing(rate decimal.Decimal, unit, measurement string) ShippingEstimate {
	return ShippingEstimate{
		Trace:  fmt.Sprintf("Price: %s - enter %s to calculate", e.perUnit(rate, unit), measurement),
		Hint:   fmt.Sprintf("Enter the %s to calculate the shipping fee", measurement),
		Status: EstimateMeasurementMissing,
	}
}

func (e *Engine) notOffered(t enum.TransportType) ShippingEstimate {
	return ShippingEstimate{
		Hint:   fmt.Sprintf("This agency does not offer %s freight", t),
		Status: EstimateNotOffered,
	}
}

func (e *Engine) perUnit(rate decimal.Decimal, unit string) string {
	return fmt.Sprintf("%s %s/%s", rate.String(), e.currency, unit)
}

func (e *Engine) amount(v decimal.Decimal) string {
	return v.StringFixed(2) + " " + e.currency
}
