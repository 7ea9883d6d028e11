package main

import (
	"fmt"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/iwvelando/savings-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProjectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Print the twelve-month savings forecast (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd, opts)
		},
	}
}

func runProject(cmd *cobra.Command, opts *rootOptions) error {
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := opts.outputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat(conf, cmd.OutOrStdout())
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	overrides := forecast.Options{Currency: opts.currency}
	if cmd.Flags().Changed("allocation") {
		overrides.Allocation = &opts.allocation
	}
	applied := overrides.Apply(*conf)

	for _, warning := range applied.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runProject"),
		)
	}

	result, err := forecast.GetForecast(logger, applied)
	if err != nil {
		return fmt.Errorf("failed to compute forecast: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(cmd.OutOrStdout(), result)
	case constants.OutputFormatCSV:
		return output.CsvFormat(cmd.OutOrStdout(), result)
	}
	return nil
}
