package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is everything the engine needs to cost a supplier order. Callers build
// it from persisted records; the engine never reads anything else.
type Order struct {
	ID                 uuid.UUID           `json:"id"`
	Currency           string              `json:"currency"`
	ExchangeRate       decimal.NullDecimal `json:"exchange_rate"`
	BankFeesSource     decimal.Decimal     `json:"bank_fees_source"`
	ShippingFeesSource decimal.Decimal     `json:"shipping_fees_source"`
	Lines              []Line              `json:"lines"`
	Deliveries         []Delivery          `json:"deliveries"`
}

// LineCost is the landed cost breakdown of one line
type LineCost struct {
	LineID              uuid.UUID       `json:"line_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int             `json:"quantity"`
	DeliveryID          *uuid.UUID      `json:"delivery_id,omitempty"`
	WeightTotalKg       decimal.Decimal `json:"weight_total_kg"`
	VolumeTotalCbm      decimal.Decimal `json:"volume_total_cbm"`
	ValueSource         decimal.Decimal `json:"value_source"`
	ShippingCostLocal   decimal.Decimal `json:"shipping_cost_local"`
	ShippingCostPerUnit decimal.Decimal `json:"shipping_cost_per_unit"`
	UnitCostPrice       LocalAmount     `json:"unit_cost_price"`
	LineCostTotal       LocalAmount     `json:"line_cost_total"`
}

// Totals are the order-wide rollups
type Totals struct {
	TotalItems               int             `json:"total_items"`
	TotalWeightKg            decimal.Decimal `json:"total_weight_kg"`
	TotalVolumeCbm           decimal.Decimal `json:"total_volume_cbm"`
	TotalProductsValueSource decimal.Decimal `json:"total_products_value_source"`
	TotalValueWithFeesSource decimal.Decimal `json:"total_value_with_fees_source"`
	TotalOrderValueLocal     LocalAmount     `json:"total_order_value_local"`
	TotalDeliveryFeesLocal   decimal.Decimal `json:"total_delivery_fees_local"`
	TotalFeesLocal           LocalAmount     `json:"total_fees_local"`
	FeesPerLine              LocalAmount     `json:"fees_per_line"`
	TotalLineShippingLocal   decimal.Decimal `json:"total_line_shipping_local"`
	TotalCostPriceLocal      LocalAmount     `json:"total_cost_price_local"`
}

// Reconciliation compares the shipping cost recomputed from agency rates,
// which feeds landed cost, against the sum of the fees stored on deliveries.
// The stored figure is informational only.
type Reconciliation struct {
	RecomputedShippingLocal decimal.Decimal `json:"recomputed_shipping_local"`
	StoredDeliveryFeesLocal decimal.Decimal `json:"stored_delivery_fees_local"`
	Difference              decimal.Decimal `json:"difference"`
	Reconciled              bool            `json:"reconciled"`
}

// DeliveryQuote is the fresh rate-based estimate of one delivery next to the
// fee stored on it.
type DeliveryQuote struct {
	DeliveryID  uuid.UUID           `json:"delivery_id"`
	Estimate    ShippingEstimate    `json:"estimate"`
	StoredFee   decimal.NullDecimal `json:"stored_fee"`
	LinesServed int                 `json:"lines_served"`
}

// Report is the full cost breakdown of a supplier order
type Report struct {
	OrderID        uuid.UUID           `json:"order_id"`
	Currency       string              `json:"currency"`
	LocalCurrency  string              `json:"local_currency"`
	ExchangeRate   decimal.NullDecimal `json:"exchange_rate"`
	RateDefined    bool                `json:"rate_defined"`
	Lines          []LineCost          `json:"lines"`
	Deliveries     []DeliveryQuote     `json:"deliveries"`
	Totals         Totals              `json:"totals"`
	Reconciliation Reconciliation      `json:"reconciliation"`
}

// Summarize derives every per-line and order-level figure from the order.
// It is deterministic: the same order always yields the same report.
func (e *Engine) Summarize(order Order) Report {
	rate, rateDefined := positive(order.ExchangeRate)
	feesPerLine := e.FeesPerLine(order.BankFeesSource, order.ShippingFeesSource, order.ExchangeRate, len(order.Lines))

	report := Report{
		OrderID:       order.ID,
		Currency:      order.Currency,
		LocalCurrency: e.currency,
		ExchangeRate:  order.ExchangeRate,
		RateDefined:   rateDefined,
		Lines:         make([]LineCost, 0, len(order.Lines)),
		Deliveries:    make([]DeliveryQuote, 0, len(order.Deliveries)),
	}

	served := make(map[uuid.UUID]int, len(order.Deliveries))
	totals := Totals{
		FeesPerLine:         feesPerLine,
		TotalCostPriceLocal: Defined(decimal.Zero),
	}
	if !rateDefined {
		totals.TotalCostPriceLocal = Undefined()
	}

	for _, line := range order.Lines {
		d := ResolveDelivery(line, order.Deliveries)
		lc := LineCost{
			LineID:              line.ID,
			ProductName:         line.ProductName,
			Quantity:            line.Quantity,
			WeightTotalKg:       line.WeightTotal(),
			VolumeTotalCbm:      line.VolumeTotal(),
			ValueSource:         line.ValueSource(),
			ShippingCostLocal:   e.LineShippingCost(line, d),
			ShippingCostPerUnit: e.LineShippingCostPerUnit(line, d),
			UnitCostPrice:       e.UnitCostPrice(line, d, order.ExchangeRate, feesPerLine),
			LineCostTotal:       e.LineCostTotal(line, d, order.ExchangeRate, feesPerLine),
		}
		if d != nil {
			id := d.ID
			lc.DeliveryID = &id
			served[d.ID]++
		}
		report.Lines = append(report.Lines, lc)

		if line.Quantity > 0 {
			totals.TotalItems += line.Quantity
		}
		totals.TotalWeightKg = totals.TotalWeightKg.Add(lc.WeightTotalKg)
		totals.TotalVolumeCbm = totals.TotalVolumeCbm.Add(lc.VolumeTotalCbm)
		totals.TotalProductsValueSource = totals.TotalProductsValueSource.Add(lc.ValueSource)
		totals.TotalLineShippingLocal = totals.TotalLineShippingLocal.Add(lc.ShippingCostLocal)
		totals.TotalCostPriceLocal = totals.TotalCostPriceLocal.Add(lc.LineCostTotal)
	}

	for _, d := range order.Deliveries {
		report.Deliveries = append(report.Deliveries, DeliveryQuote{
			DeliveryID:  d.ID,
			Estimate:    e.EstimateShippingFee(d.ShippingRequest(), d.Rates),
			StoredFee:   d.ShippingFeeLocal,
			LinesServed: served[d.ID],
		})
		totals.TotalDeliveryFeesLocal = totals.TotalDeliveryFeesLocal.Add(orZero(d.ShippingFeeLocal))
	}

	fees := order.BankFeesSource.Add(order.ShippingFeesSource)
	totals.TotalValueWithFeesSource = totals.TotalProductsValueSource.Add(fees)
	if rateDefined {
		totals.TotalOrderValueLocal = Defined(totals.TotalProductsValueSource.Mul(rate))
		totals.TotalFeesLocal = Defined(fees.Mul(rate))
	}

	report.Totals = totals
	report.Reconciliation = reconcile(totals.TotalLineShippingLocal, totals.TotalDeliveryFeesLocal)
	return report
}

func reconcile(recomputed, stored decimal.Decimal) Reconciliation {
	diff := recomputed.Sub(stored)
	return Reconciliation{
		RecomputedShippingLocal: recomputed,
		StoredDeliveryFeesLocal: stored,
		Difference:              diff,
		Reconciled:              diff.Round(2).IsZero(),
	}
}
