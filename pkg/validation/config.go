// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/savings-forecast/pkg/currency"
)

// ValidateRates checks that both exchange rates are positive.
func ValidateRates(usd, eur float64) string {
	if usd <= 0 || eur <= 0 {
		return fmt.Sprintf("Exchange rates must be positive (usd=%v, eur=%v)", usd, eur)
	}
	return ""
}

// ValidateCurrencyCode reports a warning for an unsupported currency code.
// An empty code is accepted and means RUB.
func ValidateCurrencyCode(subject, code string) string {
	if code == "" {
		return ""
	}
	if _, err := currency.ParseCurrency(code); err != nil {
		return fmt.Sprintf("%s uses unsupported currency %q", subject, code)
	}
	return ""
}

// ValidateDeposit checks the allocation fraction and the annual percent rate.
func ValidateDeposit(allocation, annualPercentRate float64, depositEnabled bool) []string {
	var warnings []string

	if allocation < 0 || allocation > 1 {
		warnings = append(warnings, fmt.Sprintf("Savings allocation %v is outside [0, 1]", allocation))
	}
	if annualPercentRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Annual percent rate %v is negative", annualPercentRate))
	}
	if annualPercentRate == 0 && depositEnabled {
		warnings = append(warnings, "Deposit is enabled with a zero annual percent rate")
	}

	return warnings
}

// ConfigValidator performs validation of a whole budget snapshot.
type ConfigValidator struct {
	DisplayCurrency   string
	USD               float64
	EUR               float64
	Allocation        float64
	AnnualPercentRate float64
	DepositEnabled    bool
	Incomes           []CategoryConfig
	Expenses          []CategoryConfig
}

// CategoryConfig is the part of a category checked by the validator.
type CategoryConfig struct {
	ID       string
	Title    string
	Amount   float64
	Currency string
}

// ValidateCategories checks ids, titles, amounts and currencies of one side
// of the budget.
func ValidateCategories(kind string, categories []CategoryConfig) []string {
	var warnings []string
	seen := make(map[string]bool, len(categories))
	for i, category := range categories {
		if category.ID == "" {
			warnings = append(warnings, fmt.Sprintf("%s category #%d has no id", kind, i))
		} else if seen[category.ID] {
			warnings = append(warnings, fmt.Sprintf("%s category '%s' is defined more than once, the last definition wins", kind, category.ID))
		}
		seen[category.ID] = true

		if category.Title == "" {
			warnings = append(warnings, fmt.Sprintf("%s category '%s' has no title", kind, category.ID))
		}
		if category.Amount < 0 {
			warnings = append(warnings, fmt.Sprintf("%s category '%s' has a negative amount", kind, category.ID))
		}
		if w := ValidateCurrencyCode(fmt.Sprintf("%s category '%s'", kind, category.ID), category.Currency); w != "" {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// ValidateAll validates the entire snapshot and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.DisplayCurrency != "" {
		if _, err := currency.ParseCurrency(cv.DisplayCurrency); err != nil {
			warnings = append(warnings, fmt.Sprintf("Display currency %q is not supported", cv.DisplayCurrency))
		}
	}
	if w := ValidateRates(cv.USD, cv.EUR); w != "" {
		warnings = append(warnings, w)
	}
	warnings = append(warnings, ValidateDeposit(cv.Allocation, cv.AnnualPercentRate, cv.DepositEnabled)...)
	warnings = append(warnings, ValidateCategories("Income", cv.Incomes)...)
	warnings = append(warnings, ValidateCategories("Expense", cv.Expenses)...)

	return warnings
}
