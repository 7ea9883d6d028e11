// Package format renders amounts the way the dashboard shows them: whole
// numbers grouped by thousands with a space, followed by the currency symbol.
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

const (
	wholeLayout    = "# ###."
	hundredsLayout = "# ###.##"
)

// SeparateNumber groups the digits of n by thousands with spaces
// (e.g., "-1 234 567").
func SeparateNumber(n int64) string {
	return humanize.FormatFloat(wholeLayout, float64(n))
}

// Amount rounds value to an integer and appends the symbol of c
// (e.g., "12 345 rub.").
func Amount(value decimal.Decimal, c currency.Currency) string {
	return SeparateNumber(mathutil.RoundHalfUp(value).IntPart()) + c.Symbol()
}

// Whole renders a value already rounded to an integer with the symbol of c.
func Whole(n int64, c currency.Currency) string {
	return SeparateNumber(n) + c.Symbol()
}

// Fraction renders value with two decimal places and grouped thousands
// (e.g., "1 234.57").
func Fraction(value decimal.Decimal) string {
	return humanize.FormatFloat(hundredsLayout, value.Round(2).InexactFloat64())
}

// Percent renders a whole percentage.
func Percent(p int64) string {
	return fmt.Sprintf("%d%%", p)
}
