// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/projection"
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Status tells whether a month leaves money to spare or runs at a loss.
type Status string

const (
	StatusSpare Status = "spare"
	StatusLoss  Status = "loss"
)

// Balance summarizes one month of income against expenses in the display
// currency.
type Balance struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Delta   decimal.Decimal
	Status  Status
}

// Forecast holds all information shown for a single dashboard snapshot.
type Forecast struct {
	Currency   currency.Currency
	Rates      currency.Rates
	FreeMoney  decimal.Decimal
	Incomes    []ranking.RankedCategory
	Expenses   []ranking.RankedCategory
	Balance    Balance
	Allocation decimal.Decimal
	Projection projection.Result
}

// Options override parts of a configuration for a single computation.
type Options struct {
	Currency   string   `json:"currency,omitempty" yaml:"currency,omitempty"`
	Allocation *float64 `json:"allocation,omitempty" yaml:"allocation,omitempty"`
}

// Apply returns a copy of conf with the overrides of o applied.
func (o Options) Apply(conf config.Configuration) config.Configuration {
	if o.Currency != "" {
		conf.DisplayCurrency = strings.ToUpper(o.Currency)
	}
	if o.Allocation != nil {
		conf.Savings.Allocation = *o.Allocation
	}
	return conf
}

// GetForecast converts every amount of the snapshot into the display
// currency, ranks both sides of the budget and projects the balance a year
// ahead.
func GetForecast(logger *zap.Logger, conf config.Configuration) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rates, err := conf.ToRates()
	if err != nil {
		return Forecast{}, fmt.Errorf("invalid exchange rates: %w", err)
	}
	display, err := conf.ToDisplayCurrency()
	if err != nil {
		return Forecast{}, err
	}

	freeMoney, err := conf.ToFreeMoney()
	if err != nil {
		return Forecast{}, err
	}
	converted, err := freeMoney.To(display, rates)
	if err != nil {
		return Forecast{}, fmt.Errorf("converting free money: %w", err)
	}

	incomes, err := rankSide(conf.Incomes, display, rates)
	if err != nil {
		return Forecast{}, fmt.Errorf("incomes: %w", err)
	}
	expenses, err := rankSide(conf.Expenses, display, rates)
	if err != nil {
		return Forecast{}, fmt.Errorf("expenses: %w", err)
	}

	balance := newBalance(sumConverted(incomes), sumConverted(expenses))
	allocation := conf.ToAllocation()

	engine := projection.NewEngine(logger)
	result, err := engine.Project(projection.Input{
		Savings:    conf.ToSavingsState(converted.Value),
		Income:     balance.Income,
		Expense:    balance.Expense,
		Allocation: allocation,
	})
	if err != nil {
		return Forecast{}, fmt.Errorf("projecting savings: %w", err)
	}

	logger.Debug(fmt.Sprintf("forecast computed in %s", display),
		zap.String("op", "forecast.GetForecast"),
		zap.String("status", string(balance.Status)),
		zap.String("delta", balance.Delta.String()),
		zap.Int("incomes", len(incomes)),
		zap.Int("expenses", len(expenses)),
	)

	return Forecast{
		Currency:   display,
		Rates:      rates,
		FreeMoney:  converted.Value,
		Incomes:    incomes,
		Expenses:   expenses,
		Balance:    balance,
		Allocation: allocation,
		Projection: result,
	}, nil
}

func rankSide(categories []config.Category, display currency.Currency, rates currency.Rates) ([]ranking.RankedCategory, error) {
	byID, err := config.ToCategoryMap(categories)
	if err != nil {
		return nil, err
	}
	converted, err := ranking.ConvertAll(byID, display, rates)
	if err != nil {
		return nil, err
	}
	return ranking.Breakdown(converted), nil
}

func sumConverted(ranked []ranking.RankedCategory) decimal.Decimal {
	total := decimal.Zero
	for _, rc := range ranked {
		total = total.Add(rc.Converted)
	}
	return total
}

func newBalance(income, expense decimal.Decimal) Balance {
	b := Balance{
		Income:  income,
		Expense: expense,
		Delta:   income.Sub(expense),
		Status:  StatusLoss,
	}
	if income.GreaterThan(expense) {
		b.Status = StatusSpare
	}
	return b
}

// Display holds the forecast currently shown to the user. Computations may
// finish in any order; the one that publishes last wins.
type Display struct {
	current atomic.Pointer[Forecast]
}

// Publish replaces the displayed forecast.
func (d *Display) Publish(f Forecast) {
	d.current.Store(&f)
}

// Current returns the displayed forecast, or false when nothing has been
// published yet.
func (d *Display) Current() (Forecast, bool) {
	f := d.current.Load()
	if f == nil {
		return Forecast{}, false
	}
	return *f, true
}
