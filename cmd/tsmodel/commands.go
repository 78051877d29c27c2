package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/gotsmodel/config"
	"github.com/sartorproj/gotsmodel/forecast"
	"github.com/sartorproj/gotsmodel/likelihood"
	"github.com/sartorproj/gotsmodel/model"
	"github.com/sartorproj/gotsmodel/simulate"
	"github.com/sartorproj/gotsmodel/status"
	"github.com/sartorproj/gotsmodel/timeseries"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check stationarity, invertibility and parameter domains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadModel()
		if err != nil {
			return err
		}
		if l.mean != nil {
			err = model.Validate(l.mean)
		} else {
			err = model.Validate(l.vari)
		}

		valid := err == nil
		out := cmd.OutOrStdout()
		if jsonOutput() {
			res := map[string]any{"valid": valid, "status": status.Code(err)}
			if err != nil {
				res["reason"] = err.Error()
			}
			return writeJSON(out, res)
		}
		if valid {
			fmt.Fprintln(out, "valid")
		} else {
			fmt.Fprintf(out, "invalid: %v\n", err)
		}
		return nil
	},
}

var gofFlags struct {
	Metric string
}

var gofCmd = &cobra.Command{
	Use:   "gof",
	Short: "Goodness of fit: llf, aic, bic, hqc, rsq or arsq",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := likelihood.ParseMetric(gofFlags.Metric)
		if err != nil {
			return err
		}
		l, s, err := loadBoth()
		if err != nil {
			return err
		}
		var v float64
		if l.mean != nil {
			v, err = model.GOF(s.Values, l.mean, metric)
		} else {
			v, err = model.GOF(s.Values, l.vari, metric)
		}
		if err != nil {
			return err
		}
		return printScalar(cmd.OutOrStdout(), metric.String(), v)
	},
}

var fitFlags struct {
	Save      string
	Residuals string
	Lags      int
	NoSE      bool
	Guess     bool
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Calibrate a model by maximum likelihood",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.log.Sync() //nolint:errcheck
		l, s, err := loadBoth()
		if err != nil {
			return err
		}
		if l.mean != nil {
			return runFit(cmd.OutOrStdout(), d, s, l.mean)
		}
		return runFit(cmd.OutOrStdout(), d, s, l.vari)
	},
}

// fitReport is the JSON form of a calibration.
type fitReport struct {
	Family      string            `json:"family"`
	Method      string            `json:"method"`
	Iterations  int               `json:"iterations"`
	Converged   bool              `json:"converged"`
	Params      map[string]number `json:"params"`
	StdErrors   map[string]number `json:"std_errors,omitempty"`
	Criteria    map[string]number `json:"criteria"`
	Diagnostics *diagnostics      `json:"diagnostics"`
}

func runFit[M model.Model](w io.Writer, d *deps, s *timeseries.Series, m M) error {
	y := s.Values
	var fitted M
	report := fitReport{Params: map[string]number{}, Criteria: map[string]number{}}

	if fitFlags.Guess {
		g, err := model.EstimateInitial(y, m, model.WithLogger(d.log))
		if err != nil {
			return err
		}
		fitted, report.Method = g, "quick-guess"
	} else {
		cal, err := model.Calibrate(y, m, model.WithMaxIter(d.settings.MaxIter), model.WithLogger(d.log))
		if err != nil {
			return err
		}
		fitted = cal.Model
		report.Method, report.Iterations, report.Converged = cal.Method, cal.Iterations, cal.Converged
		d.log.Info("calibrated",
			zap.String("method", cal.Method),
			zap.Int("iterations", cal.Iterations),
			zap.Float64("llf", cal.LLF),
		)
	}

	params := fitted.Parameters()
	var ses []model.Parameter
	if !fitFlags.NoSE && !fitFlags.Guess {
		se, err := model.StandardErrors(y, fitted)
		if err != nil {
			d.log.Warn("standard errors unavailable", zap.Error(err))
		} else {
			ses = se.Parameters()
			report.StdErrors = map[string]number{}
		}
	}
	for i, p := range params {
		report.Params[p.Name] = number(p.Value)
		if ses != nil {
			report.StdErrors[p.Name] = number(ses[i].Value)
		}
	}

	for _, metric := range []likelihood.Metric{likelihood.LLF, likelihood.AIC, likelihood.BIC, likelihood.HQC} {
		v, err := model.GOF(y, fitted, metric)
		if err != nil {
			return err
		}
		report.Criteria[metric.String()] = number(v)
	}

	std, err := model.Fitted(y, fitted, model.FitStdResid)
	if err != nil {
		return err
	}
	report.Diagnostics = diagnose(std, fitFlags.Lags, armaTerms(params))

	if fitFlags.Residuals != "" {
		out := &timeseries.Series{Timestamps: s.Timestamps, Values: std, Name: "std_resid"}
		if err := timeseries.SaveCSV(out, fitFlags.Residuals, true); err != nil {
			return err
		}
		d.log.Info("saved standardized residuals", zap.String("path", fitFlags.Residuals))
	}
	if fitFlags.Save != "" {
		if err := config.SaveModelFile(fitFlags.Save, toFile(fitted)); err != nil {
			return err
		}
		d.log.Info("saved model", zap.String("path", fitFlags.Save))
	}

	if jsonOutput() {
		report.Family = toFile(fitted).Family
		return writeJSON(w, report)
	}

	printSimpleTable(w, []string{"Parameter", "Estimate", "Std. Error"}, func(add func(...string)) {
		for i, p := range params {
			se := "-"
			if ses != nil {
				se = formatFloat(ses[i].Value)
			}
			add(p.Name, formatFloat(p.Value), se)
		}
	})
	printSimpleTable(w, []string{"Criterion", "Value"}, func(add func(...string)) {
		for _, metric := range []likelihood.Metric{likelihood.LLF, likelihood.AIC, likelihood.BIC, likelihood.HQC} {
			add(metric.String(), formatFloat(float64(report.Criteria[metric.String()])))
		}
	})
	report.Diagnostics.print(w)
	return nil
}

var forecastFlags struct {
	Steps int
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast with confidence bounds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		l, s, err := loadBoth()
		if err != nil {
			return err
		}
		var r *forecast.Result
		if l.mean != nil {
			r, err = model.Forecast(s.Values, l.mean, forecastFlags.Steps, d.settings.Alpha)
		} else {
			r, err = model.Forecast(s.Values, l.vari, forecastFlags.Steps, d.settings.Alpha)
		}
		if err != nil {
			return err
		}
		return printForecast(cmd.OutOrStdout(), r)
	},
}

func printForecast(w io.Writer, r *forecast.Result) error {
	if jsonOutput() {
		return writeJSON(w, map[string]any{
			"alpha":          r.Alpha,
			"mean":           numbers(r.Mean),
			"std_error":      numbers(r.StdErr),
			"term_structure": numbers(r.TermStructure),
			"lower":          numbers(r.Lower),
			"upper":          numbers(r.Upper),
		})
	}
	printSimpleTable(w, []string{"h", "Mean", "Std. Error", "Volatility", "Lower", "Upper"}, func(add func(...string)) {
		for i := range r.Mean {
			add(strconv.Itoa(i+1),
				formatFloat(r.Mean[i]),
				formatFloat(r.StdErr[i]),
				formatFloat(r.TermStructure[i]),
				formatFloat(r.Lower[i]),
				formatFloat(r.Upper[i]),
			)
		}
	})
	return nil
}

var simulateFlags struct {
	Steps int
	Seed  uint64
	Paths int
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate sample paths continuing the series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateFlags.Paths < 1 {
			return fmt.Errorf("--paths %d: %w", simulateFlags.Paths, status.ErrInvalidArgument)
		}
		l, err := loadModel()
		if err != nil {
			return err
		}
		var history []float64
		if globalFlags.Data != "" {
			s, err := loadSeries()
			if err != nil {
				return err
			}
			history = s.Values
		}

		seeds := make([]uint64, simulateFlags.Paths)
		for i := range seeds {
			seeds[i] = simulateFlags.Seed + uint64(i)
		}
		var paths [][]float64
		if l.mean != nil {
			paths, err = model.SimulateBatch(cmd.Context(), l.mean, history, simulateFlags.Steps, seeds)
		} else {
			paths, err = model.SimulateBatch(cmd.Context(), l.vari, history, simulateFlags.Steps, seeds)
		}
		if err != nil {
			return err
		}

		// Cross-sectional moments are the Monte Carlo check against forecast.
		var mcMean, mcVar []float64
		if len(paths) > 1 {
			mcMean, mcVar = simulate.Moments(paths)
		}

		w := cmd.OutOrStdout()
		if jsonOutput() {
			out := make([][]number, len(paths))
			for i, p := range paths {
				out[i] = numbers(p)
			}
			res := map[string]any{"seeds": seeds, "paths": out}
			if mcMean != nil {
				res["mc_mean"], res["mc_variance"] = numbers(mcMean), numbers(mcVar)
			}
			return writeJSON(w, res)
		}
		headers := []string{"h"}
		for _, seed := range seeds {
			headers = append(headers, "seed "+strconv.FormatUint(seed, 10))
		}
		if mcMean != nil {
			headers = append(headers, "MC mean", "MC std")
		}
		printSimpleTable(w, headers, func(add func(...string)) {
			for h := 0; h < simulateFlags.Steps; h++ {
				row := []string{strconv.Itoa(h + 1)}
				for _, p := range paths {
					row = append(row, formatFloat(p[h]))
				}
				if mcMean != nil {
					row = append(row, formatFloat(mcMean[h]), formatFloat(math.Sqrt(mcVar[h])))
				}
				add(row...)
			}
		})
		return nil
	},
}

var lrvarCmd = &cobra.Command{
	Use:   "lrvar",
	Short: "Long-run variance of a GARCH-family model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadModel()
		if err != nil {
			return err
		}
		if l.vari == nil {
			return fmt.Errorf("lrvar needs a variance model: %w", status.ErrNotSupported)
		}
		v, err := model.LongRunVariance(l.vari)
		if err != nil {
			return err
		}
		return printScalar(cmd.OutOrStdout(), "lrvar", v)
	},
}

// armaTerms counts the autoregressive and moving-average coefficients, the
// degrees of freedom a portmanteau test on the residuals loses.
func armaTerms(params []model.Parameter) int {
	n := 0
	for _, p := range params {
		for _, prefix := range []string{"phi", "theta", "sphi", "stheta"} {
			if strings.HasPrefix(p.Name, prefix) {
				n++
				break
			}
		}
	}
	return n
}

func loadBoth() (*loaded, *timeseries.Series, error) {
	l, err := loadModel()
	if err != nil {
		return nil, nil, err
	}
	s, err := loadSeries()
	if err != nil {
		return nil, nil, err
	}
	return l, s, nil
}

func printScalar(w io.Writer, name string, v float64) error {
	if jsonOutput() {
		return writeJSON(w, map[string]any{name: number(v), "status": status.CodeOf(v, nil)})
	}
	fmt.Fprintf(w, "%s: %s\n", name, formatFloat(v))
	return nil
}

func init() {
	gofCmd.Flags().StringVar(&gofFlags.Metric, "metric", "llf", "llf|aic|bic|hqc|rsq|arsq")

	fitCmd.Flags().StringVar(&fitFlags.Save, "save", "", "write the fitted model to this YAML file")
	fitCmd.Flags().StringVar(&fitFlags.Residuals, "residuals", "", "write standardized residuals to this CSV file")
	fitCmd.Flags().IntVar(&fitFlags.Lags, "lags", 10, "Ljung-Box lags on standardized residuals")
	fitCmd.Flags().BoolVar(&fitFlags.NoSE, "no-se", false, "skip standard errors")
	fitCmd.Flags().BoolVar(&fitFlags.Guess, "guess", false, "report the quick guess instead of calibrating")

	forecastCmd.Flags().IntVar(&forecastFlags.Steps, "steps", 12, "forecast horizon")

	simulateCmd.Flags().IntVar(&simulateFlags.Steps, "steps", 12, "path length")
	simulateCmd.Flags().Uint64Var(&simulateFlags.Seed, "seed", 1, "seed of the first path")
	simulateCmd.Flags().IntVar(&simulateFlags.Paths, "paths", 1, "number of paths; path i uses seed+i")
}
