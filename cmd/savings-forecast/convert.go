package main

import (
	"fmt"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var usd, eur float64

	convertCmd := &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between RUB, EUR and USD",
		Example: "  savings-forecast convert 900 RUB USD --usd 90 --eur 100",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			from, err := currency.ParseCurrency(args[1])
			if err != nil {
				return err
			}
			to, err := currency.ParseCurrency(args[2])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("usd") || !cmd.Flags().Changed("eur") {
				conf, err := config.LoadConfiguration(opts.configLocation)
				if err != nil {
					return fmt.Errorf("rates not given and configuration at %s unavailable: %w", opts.configLocation, err)
				}
				if !cmd.Flags().Changed("usd") {
					usd = conf.Rates.USD
				}
				if !cmd.Flags().Changed("eur") {
					eur = conf.Rates.EUR
				}
			}

			rates, err := currency.NewRates(usd, eur)
			if err != nil {
				return err
			}
			converted, err := currency.Convert(amount, from, to, rates)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n",
				format.Amount(amount, from), format.Amount(converted, to), converted.String())
			return err
		},
	}

	convertCmd.Flags().Float64Var(&usd, "usd", 0, "price of one USD in RUB (defaults to the configuration)")
	convertCmd.Flags().Float64Var(&eur, "eur", 0, "price of one EUR in RUB (defaults to the configuration)")

	return convertCmd
}
