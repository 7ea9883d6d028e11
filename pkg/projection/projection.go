// Package projection computes the 13-point monthly savings forecast for a
// snapshot of income, expenses and deposit settings.
//
// Every call recomputes the whole series from its input. Balances are
// accumulated at full decimal precision; rounding only happens in the
// display accessors of Result.
package projection

import (
	"errors"
	"fmt"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidFraction is returned when the allocation fraction is outside [0, 1].
	ErrInvalidFraction = errors.New("allocation fraction must be within [0, 1]")

	// ErrInvalidInterestRate is returned for a negative annual percent rate.
	ErrInvalidInterestRate = errors.New("annual percent rate must not be negative")
)

var (
	one                   = decimal.NewFromInt(1)
	hundred               = decimal.NewFromInt(100)
	daysPerMonth          = decimal.RequireFromString(constants.DaysPerMonth)
	dailyRateDivisor      = decimal.NewFromInt(constants.DailyRateDivisor)
	simpleInterestDivisor = decimal.NewFromInt(constants.SimpleInterestDivisor)
)

// SavingsState is the caller-owned deposit configuration. The engine only
// reads it.
type SavingsState struct {
	FreeMoney             decimal.Decimal
	AnnualPercentRate     decimal.Decimal
	DepositEnabled        bool
	CapitalizationEnabled bool
}

// Input is everything a projection depends on. Income and Expense are the
// monthly totals in the display currency; Allocation is the share of the
// monthly delta routed into the deposit.
type Input struct {
	Savings    SavingsState
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Allocation decimal.Decimal
}

// Delta returns income minus expense.
func (in Input) Delta() decimal.Decimal {
	return in.Income.Sub(in.Expense)
}

// Validate checks the allocation fraction and the interest rate.
func (in Input) Validate() error {
	if in.Allocation.IsNegative() || in.Allocation.GreaterThan(one) {
		return fmt.Errorf("%w: got %s", ErrInvalidFraction, in.Allocation)
	}
	if in.Savings.AnnualPercentRate.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidInterestRate, in.Savings.AnnualPercentRate)
	}
	return nil
}

// Result is a computed projection.
type Result struct {
	Branch          Branch
	Shape           ChartShape
	Delta           decimal.Decimal
	DepositShare    decimal.Decimal
	NonDepositShare decimal.Decimal

	// Months holds the balance for month 0 (today) through month 12.
	Months []decimal.Decimal
	// DepositBucket is the compounding deposit balance per month; it is only
	// populated by BranchCompounding.
	DepositBucket []decimal.Decimal
	// InterestAccrued is the month-weighted interest of BranchSimpleInterest.
	InterestAccrued decimal.Decimal

	Midpoint      decimal.Decimal
	Final         decimal.Decimal
	SliderEnabled bool
	Tip           AllocationTip
}

// StartDisplay is the current balance rounded to an integer.
func (r Result) StartDisplay() int64 {
	return mathutil.RoundHalfUp(r.Months[0]).IntPart()
}

// MonthDisplay is the balance of month m rounded to an integer.
func (r Result) MonthDisplay(m int) int64 {
	return mathutil.RoundHalfUp(r.Months[m]).IntPart()
}

// DisplayMonths rounds every month of the series to an integer.
func (r Result) DisplayMonths() []int64 {
	out := make([]int64, len(r.Months))
	for m := range r.Months {
		out[m] = r.MonthDisplay(m)
	}
	return out
}

// MidpointDisplay is the month 6 balance rounded to an integer.
func (r Result) MidpointDisplay() int64 {
	return mathutil.RoundHalfUp(r.Midpoint).IntPart()
}

// FinalDisplay is the month 12 headline figure rounded to the nearest ten.
func (r Result) FinalDisplay() int64 {
	return mathutil.RoundToNearest(r.Final, constants.HeadlineRounding).IntPart()
}

// Engine runs projections and logs each computed branch.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a projection engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Project computes the forecast for in using a no-op logger.
func Project(in Input) (Result, error) {
	return NewEngine(nil).Project(in)
}

// Project validates in, selects the branch for its delta and deposit
// switches, and computes the 13-point series.
func (e *Engine) Project(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	delta := in.Delta()
	r := Result{
		Branch:          SelectBranch(delta, in.Savings.DepositEnabled, in.Savings.CapitalizationEnabled),
		Delta:           delta,
		DepositShare:    delta.Mul(in.Allocation),
		NonDepositShare: delta.Mul(one.Sub(in.Allocation)),
		Months:          make([]decimal.Decimal, constants.ProjectionMonths+1),
		InterestAccrued: decimal.Zero,
	}
	r.Months[0] = in.Savings.FreeMoney

	switch r.Branch {
	case BranchDeficit:
		projectLinear(&r, delta)
		r.Shape = ShapeDecreasing
	case BranchFlat:
		projectLinear(&r, decimal.Zero)
		r.Shape = ShapeFlatPositive
		if in.Savings.FreeMoney.IsZero() {
			r.Shape = ShapeFlatAtZero
		}
	case BranchNoDeposit:
		projectLinear(&r, delta)
		r.Shape = ShapeIncreasing
	case BranchCompounding:
		projectCompounding(&r, in.Savings.AnnualPercentRate)
		r.Shape = ShapeIncreasingCompounding
	case BranchSimpleInterest:
		projectSimpleInterest(&r, in.Savings.AnnualPercentRate)
		r.Shape = ShapeIncreasingSimple
	default:
		return Result{}, fmt.Errorf("no projection branch for delta %s", delta)
	}

	r.Midpoint = r.Months[constants.MidpointMonth]
	r.Final = r.Months[constants.ProjectionMonths]
	r.SliderEnabled = r.Branch.DepositActive()
	r.Tip = tipFor(in.Allocation, r.SliderEnabled)

	e.logger.Debug("projection computed",
		zap.String("op", "projection.Project"),
		zap.String("branch", r.Branch.String()),
		zap.String("shape", string(r.Shape)),
		zap.String("delta", delta.String()),
		zap.String("final", r.Final.String()),
	)

	return r, nil
}

// projectLinear adds step to the balance every month.
func projectLinear(r *Result, step decimal.Decimal) {
	for m := 1; m <= constants.ProjectionMonths; m++ {
		r.Months[m] = r.Months[m-1].Add(step)
	}
}

// projectCompounding grows the deposit bucket by the deposit share plus one
// month of interest at the daily-equivalent rate, and adds the kept share
// linearly on top.
func projectCompounding(r *Result, annualPercentRate decimal.Decimal) {
	monthlyGrowth := annualPercentRate.Div(dailyRateDivisor).Mul(daysPerMonth)

	r.DepositBucket = make([]decimal.Decimal, constants.ProjectionMonths+1)
	r.DepositBucket[0] = r.Months[0]
	for m := 1; m <= constants.ProjectionMonths; m++ {
		prev := r.DepositBucket[m-1]
		r.DepositBucket[m] = r.DepositShare.Add(prev).Add(prev.Mul(monthlyGrowth))
		r.Months[m] = r.DepositBucket[m].Add(r.NonDepositShare.Mul(decimal.NewFromInt(int64(m))))
	}
}

// projectSimpleInterest adds the deposit share for months 1..11 while
// accruing month-weighted interest, then settles everything in month 12.
func projectSimpleInterest(r *Result, annualPercentRate decimal.Decimal) {
	last := constants.ProjectionMonths
	for m := 1; m < last; m++ {
		r.Months[m] = r.Months[m-1].Add(r.DepositShare)
		accrual := r.DepositShare.Mul(annualPercentRate).Mul(decimal.NewFromInt(int64(m))).Div(simpleInterestDivisor)
		r.InterestAccrued = r.InterestAccrued.Add(accrual)
	}

	months := decimal.NewFromInt(int64(last))
	r.Months[last] = r.Months[0].Mul(one.Add(annualPercentRate.Div(hundred))).
		Add(r.DepositShare.Mul(months)).
		Add(r.NonDepositShare.Mul(months)).
		Add(r.InterestAccrued)
}
