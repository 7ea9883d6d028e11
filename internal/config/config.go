// Package config defines the data structures related to configuration and
// includes functions for loading and validating the dashboard snapshot.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds a full dashboard snapshot plus runtime options.
type Configuration struct {
	DisplayCurrency string        `yaml:"displayCurrency,omitempty"`
	Rates           RatesConfig   `yaml:"rates"`
	Savings         SavingsConfig `yaml:"savings"`
	Incomes         []Category    `yaml:"incomes,omitempty"`
	Expenses        []Category    `yaml:"expenses,omitempty"`
	Logging         LoggingConfig `yaml:"logging,omitempty"`
	Output          OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// RatesConfig holds the price of one USD and one EUR in RUB.
type RatesConfig struct {
	USD float64 `yaml:"usd"`
	EUR float64 `yaml:"eur"`
}

// SavingsConfig holds the current balance and deposit settings.
type SavingsConfig struct {
	FreeMoney         float64 `yaml:"freeMoney"`
	Currency          string  `yaml:"currency,omitempty"` // currency of freeMoney, defaults to RUB
	AnnualPercentRate float64 `yaml:"annualPercentRate"`
	Deposit           bool    `yaml:"deposit"`
	Capitalization    bool    `yaml:"capitalization"`
	Allocation        float64 `yaml:"allocation"` // share of the monthly delta sent to the deposit
}

// Category is one monthly income or expense line item.
type Category struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Icon     string  `yaml:"icon,omitempty"`
	Amount   float64 `yaml:"amount"`
	Currency string  `yaml:"currency,omitempty"` // currency of origin, defaults to RUB
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for problems that do not stop a forecast from running.
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		DisplayCurrency:   c.DisplayCurrency,
		USD:               c.Rates.USD,
		EUR:               c.Rates.EUR,
		Allocation:        c.Savings.Allocation,
		AnnualPercentRate: c.Savings.AnnualPercentRate,
		DepositEnabled:    c.Savings.Deposit,
		Incomes:           toValidatorCategories(c.Incomes),
		Expenses:          toValidatorCategories(c.Expenses),
	}
	return validator.ValidateAll()
}

func toValidatorCategories(categories []Category) []validation.CategoryConfig {
	out := make([]validation.CategoryConfig, 0, len(categories))
	for _, category := range categories {
		out = append(out, validation.CategoryConfig{
			ID:       category.ID,
			Title:    category.Title,
			Amount:   category.Amount,
			Currency: category.Currency,
		})
	}
	return out
}
