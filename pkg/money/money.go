package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts with locale-aware digit grouping
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "fr-CI" or "en".
// Unknown locales fall back to English.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Currency returns the label appended by Format
func (f *Formatter) Currency() string {
	return f.currency
}

// Amount formats a value with two decimals and no currency label
func (f *Formatter) Amount(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Format formats a value with two decimals followed by the currency label
func (f *Formatter) Format(d decimal.Decimal) string {
	if f.currency == "" {
		return f.Amount(d)
	}
	return f.Amount(d) + " " + f.currency
}

// Quantity formats a measurement with up to three decimals
func (f *Formatter) Quantity(d decimal.Decimal) string {
	v, _ := d.Round(3).Float64()
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
