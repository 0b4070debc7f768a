package export

import (
	"fmt"
	"io"

	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetLines   = "Lines"
	SheetSummary = "Summary"
)

var lineHeaders = []string{
	"Product",
	"Quantity",
	"Weight (kg)",
	"Volume (CBM)",
	"Value (source)",
	"Shipping (local)",
	"Shipping / unit",
	"Unit cost price",
	"Line cost total",
}

// CostReportXLSX writes a cost report as a workbook with a Lines sheet of
// raw numbers and a Summary sheet of formatted totals.
type CostReportXLSX struct {
	formatter *money.Formatter
}

// NewCostReportXLSX creates an exporter formatting summary amounts with f
func NewCostReportXLSX(f *money.Formatter) *CostReportXLSX {
	return &CostReportXLSX{formatter: f}
}

// Write renders the report for the named order into w
func (x *CostReportXLSX) Write(w io.Writer, orderNo string, report *costing.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetLines); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := x.writeLines(f, report, bold); err != nil {
		return err
	}
	if err := x.writeSummary(f, orderNo, report, bold); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func (x *CostReportXLSX) writeLines(f *excelize.File, report *costing.Report, headerStyle int) error {
	header := make([]interface{}, len(lineHeaders))
	for i, h := range lineHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetLines, "A1", &header); err != nil {
		return fmt.Errorf("write line header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(lineHeaders), 1)
	if err := f.SetCellStyle(SheetLines, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style line header: %w", err)
	}

	for i, lc := range report.Lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			lc.ProductName,
			lc.Quantity,
			number(lc.WeightTotalKg),
			number(lc.VolumeTotalCbm),
			number(lc.ValueSource),
			number(lc.ShippingCostLocal),
			number(lc.ShippingCostPerUnit),
			local(lc.UnitCostPrice),
			local(lc.LineCostTotal),
		}
		if err := f.SetSheetRow(SheetLines, cell, &row); err != nil {
			return fmt.Errorf("write line %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(SheetLines, "A", "A", 32)
}

func (x *CostReportXLSX) writeSummary(f *excelize.File, orderNo string, report *costing.Report, headerStyle int) error {
	t := report.Totals
	exchangeRate := "rate not set"
	if report.RateDefined {
		exchangeRate = report.ExchangeRate.Decimal.String()
	}

	rows := [][2]string{
		{"Order", orderNo},
		{"Currency", report.Currency},
		{"Exchange rate", exchangeRate},
		{"Total items", fmt.Sprint(t.TotalItems)},
		{"Total weight (kg)", x.formatter.Quantity(t.TotalWeightKg)},
		{"Total volume (CBM)", x.formatter.Quantity(t.TotalVolumeCbm)},
		{"Products value (" + report.Currency + ")", x.formatter.Amount(t.TotalProductsValueSource)},
		{"Value with fees (" + report.Currency + ")", x.formatter.Amount(t.TotalValueWithFeesSource)},
		{"Order value", x.formatLocal(t.TotalOrderValueLocal)},
		{"Delivery fees", x.formatter.Format(t.TotalDeliveryFeesLocal)},
		{"Bank and shipping fees", x.formatLocal(t.TotalFeesLocal)},
		{"Fees per line", x.formatLocal(t.FeesPerLine)},
		{"Line shipping", x.formatter.Format(t.TotalLineShippingLocal)},
		{"Total cost price", x.formatLocal(t.TotalCostPriceLocal)},
		{"Stored delivery fees difference", x.formatter.Format(report.Reconciliation.Difference)},
	}

	for i, r := range rows {
		row := i + 1
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), r[0]); err != nil {
			return fmt.Errorf("write summary label: %w", err)
		}
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return fmt.Errorf("write summary value: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("style summary labels: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 34)
}

func (x *CostReportXLSX) formatLocal(a costing.LocalAmount) string {
	v, ok := a.Value()
	if !ok {
		return a.String()
	}
	return x.formatter.Format(v)
}

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// local leaves undefined amounts as text so they never read as zero
func local(a costing.LocalAmount) interface{} {
	v, ok := a.Value()
	if !ok {
		return a.String()
	}
	return v.InexactFloat64()
}
