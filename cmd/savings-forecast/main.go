// Command savings-forecast projects a year of savings from a budget snapshot,
// converts amounts between currencies and serves the forecast API.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configLocation string
	envFile        string
	outputFormat   string
	logLevel       string
	currency       string
	allocation     float64
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "savings-forecast",
		Short:         "Project savings a year ahead from monthly incomes and expenses",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.currency, "currency", "", "display currency override: RUB, EUR, USD")
	flags.Float64Var(&opts.allocation, "allocation", 0, "share of the monthly spare money sent to the deposit, 0 to 1")

	rootCmd.AddCommand(
		newProjectCommand(opts),
		newConvertCommand(opts),
		newServeCommand(opts),
	)

	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	return rootCmd
}

// loadEnvFile exports the variables of path so SAVINGS_* overrides apply.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// defaultOutputFormat prefers the table on a terminal and CSV when piped.
func defaultOutputFormat(conf *config.Configuration, w io.Writer) string {
	if conf != nil && conf.Output.Format != "" {
		return conf.Output.Format
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return constants.OutputFormatPretty
	}
	return constants.OutputFormatCSV
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
