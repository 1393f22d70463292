// Package money provides currency helpers: minor-unit quotes, display
// formatting and exact weighted-average arithmetic.
package money

import (
	"fmt"
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// minorUnits maps quote codes expressed in minor units to their major
// currency. Exchanges quote e.g. London listings in pence.
var minorUnits = map[string]string{
	"GBX": "GBP",
	"GBp": "GBP",
	"ZAc": "ZAR",
	"ZAC": "ZAR",
	"ILA": "ILS",
	"ILa": "ILS",
}

// MajorCurrency returns the major currency for a minor-unit quote code.
func MajorCurrency(code string) (string, bool) {
	major, ok := minorUnits[code]
	return major, ok
}

// IsMinorUnit reports whether code denotes a minor-unit quote.
func IsMinorUnit(code string) bool {
	_, ok := minorUnits[code]
	return ok
}

// Known reports whether code is an ISO 4217 currency known to go-money.
func Known(code string) bool {
	return code != "" && gomoney.GetCurrency(code) != nil
}

// fraction returns the number of minor digits of a currency, two when the
// currency is unknown.
func fraction(code string) int {
	if c := gomoney.GetCurrency(code); c != nil {
		return c.Fraction
	}
	return 2
}

// ToMajorUnits converts a price quoted in currency code to major units.
// Prices in major currencies are returned unchanged.
func ToMajorUnits(price float64, code string) float64 {
	major, ok := MajorCurrency(code)
	if !ok {
		return price
	}
	divisor := decimal.New(1, int32(fraction(major)))
	return decimal.NewFromFloat(price).Div(divisor).InexactFloat64()
}

// Format renders amount in currency code, e.g. "£1,234.50".
func Format(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	if gomoney.GetCurrency(code) == nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	return gomoney.NewFromFloat(amount, code).Display()
}

// WeightedAverage returns (qty*avg + addQty*addPrice) / (qty + addQty),
// or zero when the combined quantity is zero.
func WeightedAverage(qty, avg, addQty, addPrice float64) float64 {
	q := decimal.NewFromFloat(qty)
	aq := decimal.NewFromFloat(addQty)
	total := q.Add(aq)
	if total.IsZero() {
		return 0
	}
	cost := q.Mul(decimal.NewFromFloat(avg)).Add(aq.Mul(decimal.NewFromFloat(addPrice)))
	return cost.Div(total).InexactFloat64()
}

// Sub returns a-b computed in decimal to avoid float drift on quantities.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

// Add returns a+b computed in decimal.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
