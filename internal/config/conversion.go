package config

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/projection"
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"github.com/shopspring/decimal"
)

// ToRates converts the configured exchange rates, rejecting invalid values.
func (c *Configuration) ToRates() (currency.Rates, error) {
	return currency.NewRates(c.Rates.USD, c.Rates.EUR)
}

// ToDisplayCurrency returns the configured display currency, RUB when unset.
func (c *Configuration) ToDisplayCurrency() (currency.Currency, error) {
	if c.DisplayCurrency == "" {
		return currency.RUB, nil
	}
	return currency.ParseCurrency(c.DisplayCurrency)
}

// ToFreeMoney returns the current balance tagged with its currency.
func (c *Configuration) ToFreeMoney() (currency.MonetaryAmount, error) {
	cur, err := parseOrigin(c.Savings.Currency)
	if err != nil {
		return currency.MonetaryAmount{}, fmt.Errorf("savings: %w", err)
	}
	return currency.MonetaryAmount{
		Value:    decimal.NewFromFloat(c.Savings.FreeMoney),
		Currency: cur,
	}, nil
}

// ToSavingsState builds the projection state using a free money amount
// already expressed in the display currency.
func (c *Configuration) ToSavingsState(freeMoney decimal.Decimal) projection.SavingsState {
	return projection.SavingsState{
		FreeMoney:             freeMoney,
		AnnualPercentRate:     decimal.NewFromFloat(c.Savings.AnnualPercentRate),
		DepositEnabled:        c.Savings.Deposit,
		CapitalizationEnabled: c.Savings.Capitalization,
	}
}

// ToAllocation returns the configured allocation fraction.
func (c *Configuration) ToAllocation() decimal.Decimal {
	return decimal.NewFromFloat(c.Savings.Allocation)
}

// ToCategoryMap converts a category list into the id-keyed map used for
// ranking. Categories without an id are keyed by their position ("#2"), which
// cannot collide with a configured numeric id; a repeated id keeps the last
// definition.
func ToCategoryMap(categories []Category) (map[string]ranking.Category, error) {
	out := make(map[string]ranking.Category, len(categories))
	for i, category := range categories {
		cur, err := parseOrigin(category.Currency)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category.ID, err)
		}
		id := category.ID
		if id == "" {
			id = "#" + strconv.Itoa(i)
		}
		out[id] = ranking.Category{
			ID:        id,
			Title:     category.Title,
			Icon:      category.Icon,
			RawAmount: decimal.NewFromFloat(category.Amount),
			Currency:  cur,
		}
	}
	return out, nil
}

func parseOrigin(code string) (currency.Currency, error) {
	if code == "" {
		return currency.RUB, nil
	}
	return currency.ParseCurrency(code)
}
