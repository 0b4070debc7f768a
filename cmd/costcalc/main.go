// Command costcalc prints landed-cost reports and shipping quotes without a
// database.
//
//	costcalc report -input order.json [-currency "F CFA"] [-locale fr]
//	costcalc estimate -transport air -weight 12.5 -air-rate 5000
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/pkg/money"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("usage: costcalc <report|estimate> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "report":
		return report(args[1:], stdin, stdout)
	case "estimate":
		return estimate(args[1:], stdout)
	default:
		return errUsage
	}
}

func report(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	input := fs.String("input", "-", "order JSON file, - for stdin")
	currency := fs.String("currency", costing.DefaultLocalCurrency, "local currency label")
	locale := fs.String("locale", "fr", "display locale")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var order costing.Order
	if err := json.NewDecoder(r).Decode(&order); err != nil {
		return fmt.Errorf("decode order: %w", err)
	}

	rep := costing.NewEngine(*currency).Summarize(order)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	printReport(stdout, money.NewFormatter(*locale, *currency), &rep)
	return nil
}

func printReport(w io.Writer, f *money.Formatter, rep *costing.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tWEIGHT KG\tSHIPPING\tUNIT COST\tLINE TOTAL\t")
	for _, l := range rep.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n",
			l.ProductName,
			l.Quantity,
			f.Quantity(l.WeightTotalKg),
			f.Amount(l.ShippingCostLocal),
			local(f, l.UnitCostPrice),
			local(f, l.LineCostTotal),
		)
	}
	tw.Flush()

	t := rep.Totals
	rate := "rate not set"
	if rep.RateDefined {
		rate = rep.ExchangeRate.Decimal.String()
	}

	fmt.Fprintln(w)
	sw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(sw, "Exchange rate (%s -> %s)\t%s\n", rep.Currency, rep.LocalCurrency, rate)
	fmt.Fprintf(sw, "Items\t%d\n", t.TotalItems)
	fmt.Fprintf(sw, "Products value (%s)\t%s\n", rep.Currency, f.Amount(t.TotalProductsValueSource))
	fmt.Fprintf(sw, "Delivery fees\t%s\n", f.Format(t.TotalDeliveryFeesLocal))
	fmt.Fprintf(sw, "Fees\t%s\n", local(f, t.TotalFeesLocal))
	fmt.Fprintf(sw, "Total cost price\t%s\n", local(f, t.TotalCostPriceLocal))
	if !rep.Reconciliation.Reconciled {
		fmt.Fprintf(sw, "Stored delivery fees differ by\t%s\n", f.Format(rep.Reconciliation.Difference))
	}
	sw.Flush()
}

func local(f *money.Formatter, a costing.LocalAmount) string {
	v, ok := a.Value()
	if !ok {
		return a.String()
	}
	return f.Format(v)
}

func estimate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	transport := fs.String("transport", "air", "air, sea or express")
	express := fs.Bool("express", false, "apply the express surcharge")
	weight := fs.String("weight", "", "weight in kg")
	volume := fs.String("volume", "", "volume in cbm")
	air := fs.String("air-rate", "0", "air price per kg")
	sea := fs.String("sea-rate", "0", "sea price per cbm")
	expressRate := fs.String("express-rate", "", "express price per kg")
	currency := fs.String("currency", costing.DefaultLocalCurrency, "local currency label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, _ := enum.ParseTransportType(*transport)
	req := costing.ShippingRequest{TransportType: t, ExpressSurcharge: *express}

	var err error
	if req.WeightKg, err = optionalDecimal("weight", *weight); err != nil {
		return err
	}
	if req.VolumeCbm, err = optionalDecimal("volume", *volume); err != nil {
		return err
	}

	rates := &costing.Rates{}
	if rates.AirPricePerKg, err = decimal.NewFromString(*air); err != nil {
		return fmt.Errorf("air-rate: %w", err)
	}
	if rates.SeaPricePerCbm, err = decimal.NewFromString(*sea); err != nil {
		return fmt.Errorf("sea-rate: %w", err)
	}
	if rates.ExpressPricePerKg, err = optionalDecimal("express-rate", *expressRate); err != nil {
		return err
	}

	est := costing.NewEngine(*currency).EstimateShippingFee(req, rates)
	if !est.HasFee() {
		fmt.Fprintf(stdout, "no fee (%s): %s\n", est.Status, est.Hint)
		return nil
	}
	fmt.Fprintf(stdout, "%s\n%s\n", est.Fee.Decimal.StringFixed(2), est.Trace)
	return nil
}

func optionalDecimal(name, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", name, err)
	}
	return decimal.NewNullDecimal(d), nil
}
