package costing

import (
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// KgPerCbm is the volumetric-weight ratio used when a sea shipment has no
// recorded volume.
const KgPerCbm = 167

var (
	kgPerCbm              = decimal.NewFromInt(KgPerCbm)
	expressFallbackFactor = decimal.RequireFromString("1.5")
	expressSurchargeRate  = decimal.RequireFromString("1.3")
)

// Rates is a shipping agency's price quote. Zero means the mode is not offered.
type Rates struct {
	AirPricePerKg     decimal.Decimal     `json:"air_price_per_kg"`
	SeaPricePerCbm    decimal.Decimal     `json:"sea_price_per_cbm"`
	ExpressPricePerKg decimal.NullDecimal `json:"express_price_per_kg"`
}

// ExpressRate returns the express price per kg, falling back to 1.5x the air
// price when the agency has no express quote.
func (r Rates) ExpressRate() decimal.Decimal {
	if r.ExpressPricePerKg.Valid && r.ExpressPricePerKg.Decimal.IsPositive() {
		return r.ExpressPricePerKg.Decimal
	}
	return r.AirPricePerKg.Mul(expressFallbackFactor)
}

// RateFor returns the unit price applied to the given transport type
func (r Rates) RateFor(t enum.TransportType) decimal.Decimal {
	switch t {
	case enum.TransportAir:
		return r.AirPricePerKg
	case enum.TransportSea:
		return r.SeaPricePerCbm
	case enum.TransportExpress:
		return r.ExpressRate()
	}
	return decimal.Zero
}

// positive unwraps an optional measurement, treating absent and non-positive
// values alike.
func positive(d decimal.NullDecimal) (decimal.Decimal, bool) {
	if d.Valid && d.Decimal.IsPositive() {
		return d.Decimal, true
	}
	return decimal.Zero, false
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}
