// Package currency converts monetary amounts between the three supported
// currencies using two exchange rates expressed in RUB.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Currency is one of the supported display currencies.
type Currency string

// Supported currencies.
const (
	RUB Currency = "RUB"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

var (
	// ErrInvalidRate is returned when an exchange rate is zero, negative or not finite.
	ErrInvalidRate = errors.New("invalid exchange rate")

	// ErrUnknownCurrency is returned for currencies outside RUB, EUR and USD.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// All lists the supported currencies in display order.
var All = []Currency{RUB, EUR, USD}

// ParseCurrency parses a currency code, ignoring case and surrounding space.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case RUB, EUR, USD:
		return true
	}
	return false
}

// Symbol returns the suffix appended to amounts shown in c.
func (c Currency) Symbol() string {
	switch c {
	case RUB:
		return " rub."
	case EUR:
		return " €"
	case USD:
		return " $"
	}
	return ""
}

// Label returns the long name shown next to headline figures.
func (c Currency) Label() string {
	switch c {
	case RUB:
		return "Rubles"
	case EUR:
		return "Eur"
	case USD:
		return "USD"
	}
	return string(c)
}

// Rates holds the price of one USD and one EUR in RUB.
type Rates struct {
	USD decimal.Decimal
	EUR decimal.Decimal
}

// NewRates builds Rates from floating point inputs, rejecting values that
// are zero, negative or not finite.
func NewRates(usd, eur float64) (Rates, error) {
	if !mathutil.IsFinite(usd) || !mathutil.IsFinite(eur) {
		return Rates{}, fmt.Errorf("%w: usd=%v eur=%v", ErrInvalidRate, usd, eur)
	}
	rates := Rates{USD: decimal.NewFromFloat(usd), EUR: decimal.NewFromFloat(eur)}
	if err := rates.Validate(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

// Validate checks that both rates are strictly positive.
func (r Rates) Validate() error {
	if !r.USD.IsPositive() {
		return fmt.Errorf("%w: usd rate must be positive, got %s", ErrInvalidRate, r.USD)
	}
	if !r.EUR.IsPositive() {
		return fmt.Errorf("%w: eur rate must be positive, got %s", ErrInvalidRate, r.EUR)
	}
	return nil
}

// toRUB returns the RUB price of one unit of c.
func (r Rates) toRUB(c Currency) decimal.Decimal {
	switch c {
	case USD:
		return r.USD
	case EUR:
		return r.EUR
	}
	return decimal.NewFromInt(1)
}

// Convert rebases amount from one currency to another. Identity conversions
// return amount untouched; every other result is rounded to three decimals.
func Convert(amount decimal.Decimal, from, to Currency, rates Rates) (decimal.Decimal, error) {
	if !from.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, from)
	}
	if !to.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, to)
	}
	if err := rates.Validate(); err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return amount, nil
	}

	var result decimal.Decimal
	switch {
	case from == RUB:
		result = amount.Div(rates.toRUB(to))
	case to == RUB:
		result = amount.Mul(rates.toRUB(from))
	default:
		result = amount.Mul(rates.toRUB(from)).Div(rates.toRUB(to))
	}
	return result.Round(constants.ConversionPrecision), nil
}

// MonetaryAmount is a value tagged with its currency.
type MonetaryAmount struct {
	Value    decimal.Decimal
	Currency Currency
}

// To converts the amount into target.
func (m MonetaryAmount) To(target Currency, rates Rates) (MonetaryAmount, error) {
	value, err := Convert(m.Value, m.Currency, target, rates)
	if err != nil {
		return MonetaryAmount{}, err
	}
	return MonetaryAmount{Value: value, Currency: target}, nil
}

// String renders the amount with its currency code.
func (m MonetaryAmount) String() string {
	return m.Value.String() + " " + string(m.Currency)
}
