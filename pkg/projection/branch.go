package projection

import "github.com/shopspring/decimal"

// Branch identifies which of the five projection models produced a result.
type Branch int

const (
	// BranchDeficit is a linear drawdown while expenses exceed income.
	BranchDeficit Branch = iota + 1
	// BranchFlat keeps the balance unchanged when income equals expenses.
	BranchFlat
	// BranchNoDeposit is linear growth with the deposit switched off.
	BranchNoDeposit
	// BranchCompounding grows the deposit bucket monthly at a daily-equivalent rate.
	BranchCompounding
	// BranchSimpleInterest accrues month-weighted interest paid once at month 12.
	BranchSimpleInterest
)

// String returns the branch name used in logs and API responses.
func (b Branch) String() string {
	switch b {
	case BranchDeficit:
		return "deficit"
	case BranchFlat:
		return "flat"
	case BranchNoDeposit:
		return "no-deposit"
	case BranchCompounding:
		return "compounding"
	case BranchSimpleInterest:
		return "simple-interest"
	}
	return "unknown"
}

// DepositActive reports whether the branch routes money into the deposit bucket.
func (b Branch) DepositActive() bool {
	return b == BranchCompounding || b == BranchSimpleInterest
}

// ChartShape selects the curve template used to draw a projection.
type ChartShape string

// Chart shapes, one per visual template.
const (
	ShapeDecreasing            ChartShape = "decreasing"
	ShapeFlatAtZero            ChartShape = "flat-at-zero"
	ShapeFlatPositive          ChartShape = "flat-positive"
	ShapeIncreasing            ChartShape = "increasing"
	ShapeIncreasingCompounding ChartShape = "increasing-compounding"
	ShapeIncreasingSimple      ChartShape = "increasing-simple"
)

// branchKey is the (sign of delta, deposit, capitalization) tuple.
type branchKey struct {
	sign           int
	deposit        bool
	capitalization bool
}

// branchTable lists every combination explicitly. A deficit or a zero delta
// ignores both switches.
var branchTable = map[branchKey]Branch{
	{-1, false, false}: BranchDeficit,
	{-1, false, true}:  BranchDeficit,
	{-1, true, false}:  BranchDeficit,
	{-1, true, true}:   BranchDeficit,
	{0, false, false}:  BranchFlat,
	{0, false, true}:   BranchFlat,
	{0, true, false}:   BranchFlat,
	{0, true, true}:    BranchFlat,
	{1, false, false}:  BranchNoDeposit,
	{1, false, true}:   BranchNoDeposit,
	{1, true, false}:   BranchSimpleInterest,
	{1, true, true}:    BranchCompounding,
}

// SelectBranch picks the projection model for the given monthly delta and
// deposit switches.
func SelectBranch(delta decimal.Decimal, depositEnabled, capitalizationEnabled bool) Branch {
	return branchTable[branchKey{
		sign:           delta.Sign(),
		deposit:        depositEnabled,
		capitalization: capitalizationEnabled,
	}]
}
