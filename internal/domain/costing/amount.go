package costing

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LocalAmount is a local-currency figure that depends on the order's exchange
// rate. The zero value is undefined ("rate not set") and is never equal to a
// defined zero.
type LocalAmount struct {
	value   decimal.Decimal
	defined bool
}

// Defined wraps a computed local-currency value
func Defined(v decimal.Decimal) LocalAmount {
	return LocalAmount{value: v, defined: true}
}

// Undefined returns the "rate not set" sentinel
func Undefined() LocalAmount {
	return LocalAmount{}
}

// IsDefined reports whether the amount carries a value
func (a LocalAmount) IsDefined() bool {
	return a.defined
}

// Value returns the amount and whether it is defined
func (a LocalAmount) Value() (decimal.Decimal, bool) {
	return a.value, a.defined
}

// Add sums two amounts; the result is undefined if either side is
func (a LocalAmount) Add(b LocalAmount) LocalAmount {
	if !a.defined || !b.defined {
		return Undefined()
	}
	return Defined(a.value.Add(b.value))
}

// AddDecimal adds a plain local-currency value
func (a LocalAmount) AddDecimal(d decimal.Decimal) LocalAmount {
	if !a.defined {
		return a
	}
	return Defined(a.value.Add(d))
}

// Mul scales the amount
func (a LocalAmount) Mul(d decimal.Decimal) LocalAmount {
	if !a.defined {
		return a
	}
	return Defined(a.value.Mul(d))
}

// Sub subtracts b from a; undefined if either side is
func (a LocalAmount) Sub(b LocalAmount) LocalAmount {
	if !a.defined || !b.defined {
		return Undefined()
	}
	return Defined(a.value.Sub(b.value))
}

// String renders the amount with two decimals, or "rate not set"
func (a LocalAmount) String() string {
	if !a.defined {
		return "rate not set"
	}
	return a.value.StringFixed(2)
}

func (a LocalAmount) MarshalJSON() ([]byte, error) {
	if !a.defined {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

func (a *LocalAmount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Undefined()
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Defined(v)
	return nil
}
