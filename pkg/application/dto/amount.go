package dto

import (
	"bytes"
	"math"

	"github.com/shopspring/decimal"
)

// Amount is a monetary or statistical figure. NaN and ±Inf are legal values
// meaning "undefined" (for example a cost per unit over a zero quantity);
// they encode as JSON null instead of failing the whole document.
type Amount float64

// JSONPrecision is the number of decimal places kept when encoding
const JSONPrecision = 6

// Float64 returns the raw value
func (a Amount) Float64() float64 {
	return float64(a)
}

// IsDefined is false for NaN and ±Inf
func (a Amount) IsDefined() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Decimal converts a defined amount; undefined amounts become zero
func (a Amount) Decimal() decimal.Decimal {
	if !a.IsDefined() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(float64(a))
}

// StringFixed renders the amount with a fixed number of places, or
// "undefined" when it is NaN/Inf
func (a Amount) StringFixed(places int32) string {
	if !a.IsDefined() {
		return "undefined"
	}
	return a.Decimal().StringFixed(places)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.IsDefined() {
		return []byte("null"), nil
	}
	return []byte(a.Decimal().Round(JSONPrecision).String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = Amount(math.NaN())
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	*a = Amount(d.InexactFloat64())
	return nil
}
