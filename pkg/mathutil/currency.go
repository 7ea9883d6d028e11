// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// RoundHalfUp rounds to the nearest integer with halves going toward positive
// infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(val decimal.Decimal) decimal.Decimal {
	return val.Add(half).Floor()
}

// RoundToNearest rounds val to the nearest multiple of step using RoundHalfUp.
// A non-positive step falls back to plain RoundHalfUp.
func RoundToNearest(val decimal.Decimal, step int64) decimal.Decimal {
	if step <= 0 {
		return RoundHalfUp(val)
	}
	s := decimal.NewFromInt(step)
	return RoundHalfUp(val.Div(s)).Mul(s)
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp limits val to the closed interval [lo, hi].
func Clamp(val, lo, hi decimal.Decimal) decimal.Decimal {
	if val.LessThan(lo) {
		return lo
	}
	if val.GreaterThan(hi) {
		return hi
	}
	return val
}

// CalculatePercentage calculates what percentage value is of total.
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Mul(decimal.NewFromInt(constants.PercentageMultiplier)).Div(total)
}
