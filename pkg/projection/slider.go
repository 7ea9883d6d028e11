package projection

import (
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// AllocationTip is the hint shown next to the allocation slider at its ends.
type AllocationTip string

// Allocation tips.
const (
	TipNone         AllocationTip = "none"
	TipAllKept      AllocationTip = "all-kept"
	TipAllDeposited AllocationTip = "all-deposited"
)

var sliderEpsilon = decimal.RequireFromString(constants.SliderEpsilon)

func tipFor(allocation decimal.Decimal, sliderEnabled bool) AllocationTip {
	if !sliderEnabled {
		return TipNone
	}
	switch {
	case allocation.IsZero():
		return TipAllKept
	case allocation.Equal(one):
		return TipAllDeposited
	}
	return TipNone
}

// ClampFraction limits an allocation fraction to [0, 1] for callers that
// prefer clamping over ErrInvalidFraction.
func ClampFraction(fraction decimal.Decimal) decimal.Decimal {
	return mathutil.Clamp(fraction, decimal.Zero, one)
}

// SliderStep is the amount one slider notch moves for a monthly delta.
func SliderStep(delta decimal.Decimal) decimal.Decimal {
	return delta.Div(decimal.NewFromInt(constants.SliderSteps))
}

// FractionFromSlider converts a slider position, expressed as the amount
// routed into the deposit, into an allocation fraction rounded to hundredths.
// A non-positive delta has no slider range and yields zero.
func FractionFromSlider(value, delta decimal.Decimal) decimal.Decimal {
	span := delta.Add(sliderEpsilon)
	if !delta.IsPositive() || !span.IsPositive() {
		return decimal.Zero
	}
	percent := mathutil.RoundHalfUp(value.Div(span).Mul(hundred))
	return ClampFraction(percent.Div(hundred))
}

// SliderLabel is the handle caption for a slider position, rounded to tens.
func SliderLabel(value decimal.Decimal) int64 {
	return mathutil.RoundToNearest(value, constants.HeadlineRounding).IntPart()
}
