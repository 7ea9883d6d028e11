package ranking

import (
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	hoursPerMonth = decimal.NewFromInt(constants.HoursPerMonth)
	daysPerMonth  = decimal.RequireFromString(constants.DaysPerMonth)
	yearFactor    = decimal.RequireFromString("1.2")
)

// Rates expresses a monthly amount per hour, per day and per year.
type Rates struct {
	Hourly decimal.Decimal
	Daily  decimal.Decimal
	Yearly decimal.Decimal
}

// RatesFor derives the hourly (two places), daily (one place) and yearly
// (nearest ten) figures of a monthly amount.
func RatesFor(monthly decimal.Decimal) Rates {
	return Rates{
		Hourly: monthly.Div(hoursPerMonth).Round(2),
		Daily:  monthly.Div(daysPerMonth).Round(1),
		Yearly: mathutil.RoundHalfUp(monthly.Mul(yearFactor)).Mul(decimal.NewFromInt(10)),
	}
}
