// Package likelihood scores a filtered model run: log-likelihood,
// information criteria and, for mean models, R-squared.
package likelihood

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/stats"
	"github.com/sartorproj/gotsmodel/status"
)

// Metric selects a goodness-of-fit statistic.
type Metric int

// Goodness-of-fit metrics.
const (
	LLF  Metric = 1
	AIC  Metric = 2
	BIC  Metric = 3
	HQC  Metric = 4
	RSQ  Metric = 5
	ARSQ Metric = 6
)

var metricNames = map[Metric]string{
	LLF:  "llf",
	AIC:  "aic",
	BIC:  "bic",
	HQC:  "hqc",
	RSQ:  "rsq",
	ARSQ: "arsq",
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric maps a metric name to its value.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "sic" {
		return BIC, nil
	}
	for m, name := range metricNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q: %w", s, status.ErrInvalidArgument)
}

// Fit is a filtered run together with what is needed to score it.
type Fit struct {
	Filtered *kernel.Filtered
	Y        []float64
	// NumParams counts every free parameter, innovation scale and shape
	// included.
	NumParams int
	// MeanModel enables RSQ and ARSQ.
	MeanModel bool
}

// Criteria returns the log-likelihood and information criteria.
func (f Fit) Criteria() *stats.InformationCriteria {
	return stats.CalculateIC(f.Filtered.LLF, f.Filtered.Obs(), f.NumParams)
}

// Score evaluates metric m.
func (f Fit) Score(m Metric) (float64, error) {
	switch m {
	case LLF:
		return f.Filtered.LLF, nil
	case AIC:
		return f.Criteria().AIC, nil
	case BIC:
		return f.Criteria().BIC, nil
	case HQC:
		return f.Criteria().HQC, nil
	case RSQ, ARSQ:
		if !f.MeanModel {
			return math.NaN(), fmt.Errorf("%s for a variance model: %w", m, status.ErrNotSupported)
		}
		r2, err := f.rsq()
		if err != nil || m == RSQ {
			return r2, err
		}
		n := float64(f.Filtered.Obs())
		k := float64(f.NumParams)
		if n-k <= 0 {
			return math.NaN(), fmt.Errorf("adjusted r-squared with %g observations and %g parameters: %w", n, k, status.ErrInsufficientObs)
		}
		return 1 - (1-r2)*(n-1)/(n-k), nil
	}
	return math.NaN(), fmt.Errorf("metric %d: %w", int(m), status.ErrInvalidArgument)
}

// rsq is 1 - SSR/SST over the observations that entered the likelihood.
func (f Fit) rsq() (float64, error) {
	start := f.Filtered.Start
	y := f.Y[start:]
	resid := f.Filtered.Resid[start:]

	mean := stat.Mean(y, nil)
	sst, ssr := 0.0, 0.0
	for i, v := range y {
		sst += (v - mean) * (v - mean)
		ssr += resid[i] * resid[i]
	}
	if sst == 0 {
		return math.NaN(), fmt.Errorf("constant series: %w", status.ErrNumerical)
	}
	return 1 - ssr/sst, nil
}
