// Package timeseries provides the series buffer used by the model
// operations, along with loading and differencing utilities.
//
// # Creating a Series
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// # Missing Values
//
// A missing observation is stored as the Missing sentinel (NaN). Model
// operations work on the observed core of a buffer: Span reports the range
// left after leading and trailing missing values are dropped, and rejects
// buffers with gaps inside that range.
//
//	first, last, err := timeseries.Span(series.Values)
//
// # Loading from CSV
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.ValueColumn = "population"
//	opts.IDColumn, opts.IDFilter = "country", "Australia"
//	series, err := timeseries.LoadCSV("data.csv", opts)
//
// Empty cells and the tokens NA, NaN, null and #N/A are read as Missing
// unless CSVOptions.DropMissing is set.
//
// # Differencing
//
//	diff := timeseries.Difference(series.Values, 1, 1)    // (1-B)y
//	sdiff := timeseries.Difference(series.Values, 12, 1)  // (1-B^12)y
//
// Difference and Integrate are inverse operations on plain slices given the
// first order*lag values as seed. FracDiff and FracIntegrate do the same for
// the truncated fractional operator (1-B)^d.
package timeseries
