// Command tsmodel validates, fits, forecasts and simulates time-series
// models described by YAML files against CSV data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/gotsmodel/config"
	"github.com/sartorproj/gotsmodel/status"
)

var globalFlags struct {
	Data       string
	Column     string
	DateColumn string
	Log        bool
	Last       int
	Model      string
	Format     string
	MaxIter    int
	Alpha      float64
	LogLevel   string
	LogFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "tsmodel",
	Short: "tsmodel - ARIMA family and GARCH family model lifecycle",
	Long: `tsmodel runs the model lifecycle over a CSV series:

  tsmodel validate -m airline.yaml
  tsmodel fit      -m airline.yaml -d airline.csv --log --save fitted.yaml
  tsmodel forecast -m fitted.yaml  -d airline.csv --log --steps 12
  tsmodel simulate -m fitted.yaml  -d airline.csv --steps 24 --paths 100

Defaults come from TSMODEL_MAX_ITER, TSMODEL_ALPHA, TSMODEL_LOG_LEVEL and
TSMODEL_LOG_FORMAT; flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (status %d)\n", err, status.Code(err))
		os.Exit(1)
	}
}

// deps are the resolved settings and logger shared by every command.
type deps struct {
	settings *config.Settings
	log      *zap.Logger
}

// buildDeps resolves environment settings and applies flag overrides.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	s, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("max-iter") {
		s.MaxIter = globalFlags.MaxIter
	}
	if pf.Changed("alpha") {
		s.Alpha = globalFlags.Alpha
	}
	if pf.Changed("log-level") {
		s.Logging.Level = globalFlags.LogLevel
	}
	if pf.Changed("log-format") {
		s.Logging.Format = globalFlags.LogFormat
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log, err := newLogger(s.Logging)
	if err != nil {
		return nil, err
	}
	return &deps{settings: s, log: log}, nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVarP(&globalFlags.Data, "data", "d", "",
		"CSV file holding the series")
	pf.StringVar(&globalFlags.Column, "column", "y",
		"CSV value column")
	pf.StringVar(&globalFlags.DateColumn, "date-column", "",
		"CSV date column (optional)")
	pf.BoolVar(&globalFlags.Log, "log", false,
		"model the natural log of the series (non-positive values become missing)")
	pf.IntVar(&globalFlags.Last, "last", 0,
		"keep only the last N observations (0 keeps all)")
	pf.StringVarP(&globalFlags.Model, "model", "m", "",
		"YAML model file")
	pf.StringVar(&globalFlags.Format, "format", "table",
		"output format: table|json")
	pf.IntVar(&globalFlags.MaxIter, "max-iter", 100,
		"optimizer iteration budget (env TSMODEL_MAX_ITER)")
	pf.Float64Var(&globalFlags.Alpha, "alpha", 0.05,
		"significance level of forecast bounds (env TSMODEL_ALPHA)")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "info",
		"log level: debug|info|warn|error (env TSMODEL_LOG_LEVEL)")
	pf.StringVar(&globalFlags.LogFormat, "log-format", "console",
		"log format: console|json (env TSMODEL_LOG_FORMAT)")

	rootCmd.AddCommand(validateCmd, gofCmd, fitCmd, forecastCmd, simulateCmd, lrvarCmd)
}
