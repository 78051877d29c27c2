package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sartorproj/gotsmodel/stats"
	"github.com/sartorproj/gotsmodel/timeseries"
)

// diagnostics summarises the standardized residuals of a fit.
type diagnostics struct {
	Mean         number                   `json:"mean"`
	Std          number                   `json:"std"`
	DurbinWatson number                   `json:"durbin_watson"`
	LjungBox     *stats.PortmanteauResult `json:"ljung_box,omitempty"`
	BoxPierce    *stats.PortmanteauResult `json:"box_pierce,omitempty"`
	Bound        number                   `json:"bound"`
	ACFLags      []int                    `json:"acf_lags"`
	PACFLags     []int                    `json:"pacf_lags"`
}

// diagnose runs the residual checks on z up to lags, discounting fitdf
// estimated ARMA terms in the portmanteau tests. Missing values are dropped.
func diagnose(z []float64, lags, fitdf int) *diagnostics {
	s := timeseries.New(z)
	obs := s.Observed()
	d := &diagnostics{
		Mean:         number(s.Mean()),
		Std:          number(s.Std()),
		DurbinWatson: number(stats.DurbinWatson(obs)),
		ACFLags:      []int{},
		PACFLags:     []int{},
	}
	if len(obs) <= lags+1 {
		return d
	}
	d.LjungBox = stats.LjungBox(obs, lags, fitdf)
	d.BoxPierce = stats.BoxPierce(obs, lags, fitdf)
	if acf := stats.ACFWithConfidence(obs, lags); acf != nil {
		d.Bound = number(acf.ConfBounds)
		d.ACFLags = append(d.ACFLags, stats.SignificantLags(acf.Values, acf.ConfBounds)...)
		d.PACFLags = append(d.PACFLags, stats.SignificantLags(stats.PACF(obs, lags), acf.ConfBounds)...)
	}
	return d
}

func (d *diagnostics) print(w io.Writer) {
	fmt.Fprintf(w, "Residuals: mean=%s std=%s Durbin-Watson=%s\n",
		formatFloat(float64(d.Mean)), formatFloat(float64(d.Std)), formatFloat(float64(d.DurbinWatson)))
	if lb := d.LjungBox; lb != nil {
		fmt.Fprintf(w, "Ljung-Box(%d): Q=%.4f p=%.4f\n", lb.Lags, lb.Statistic, lb.PValue)
	}
	if bp := d.BoxPierce; bp != nil {
		fmt.Fprintf(w, "Box-Pierce(%d): Q=%.4f p=%.4f\n", bp.Lags, bp.Statistic, bp.PValue)
	}
	if d.LjungBox != nil {
		fmt.Fprintf(w, "Significant ACF lags (|r| > %.4f): %s\n", float64(d.Bound), joinLags(d.ACFLags))
		fmt.Fprintf(w, "Significant PACF lags: %s\n", joinLags(d.PACFLags))
	}
}

func joinLags(lags []int) string {
	if len(lags) == 0 {
		return "none"
	}
	parts := make([]string, len(lags))
	for i, l := range lags {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ", ")
}
