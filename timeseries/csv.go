package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/gotsmodel/status"
)

// missingTokens are cell values read as the Missing sentinel.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"#N/A": true,
}

var (
	dateHeaders  = []string{"ds", "date", "Date", "Month", "Year"}
	valueHeaders = []string{"y", "value", "Value"}
	idHeaders    = []string{"unique_id", "id", "ID"}
	dateLayouts  = []string{"2006-01-02", "2006-01-02T15:04:05", "2006/01/02", "01/02/2006", "02-Jan-2006", "2006-01", "2006"}
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // optional; ds, date, Month or Year are tried otherwise
	ValueColumn string // falls back to y/value and then the last column
	IDColumn    string // column compared against IDFilter
	IDFilter    string // keep only rows whose ID equals this value
	DateFormat  string
	HasHeader   bool
	Delimiter   rune
	SkipRows    int
	DropMissing bool // skip missing cells instead of storing Missing
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// columns are the resolved positions of the date, value and id fields; -1
// means absent.
type columns struct {
	date, value, id int
	name            string
}

func cell(record []string, i int) (string, bool) {
	if i < 0 || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(strings.Trim(record[i], "\"")), true
}

func indexOf(headers []string, names ...string) int {
	for _, name := range names {
		if name == "" {
			continue
		}
		for i := range headers {
			if h, _ := cell(headers, i); h == name {
				return i
			}
		}
	}
	return -1
}

func resolveColumns(headers []string, opts *CSVOptions) columns {
	if headers == nil {
		return columns{date: 0, value: 1, id: -1}
	}
	c := columns{
		date:  indexOf(headers, append([]string{opts.DateColumn}, dateHeaders...)...),
		value: indexOf(headers, opts.ValueColumn),
		id:    indexOf(headers, opts.IDColumn),
	}
	if c.value < 0 && opts.ValueColumn == "" {
		c.value = indexOf(headers, valueHeaders...)
	}
	if c.value < 0 {
		c.value = len(headers) - 1
	}
	if c.id < 0 && opts.IDColumn == "" {
		c.id = indexOf(headers, idHeaders...)
	}
	c.name, _ = cell(headers, c.value)
	return c
}

// LoadCSVFromReader loads a time series from an io.Reader. Timestamps are
// kept only when every retained row carries a parseable date.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	var headers []string
	if opts.HasHeader {
		h, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		headers = h
	}
	cols := resolveColumns(headers, opts)

	s := &Series{Name: cols.name}
	var timestamps []time.Time
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" {
			if id, ok := cell(record, cols.id); ok && id != opts.IDFilter {
				continue
			}
		}
		raw, ok := cell(record, cols.value)
		if !ok {
			continue
		}

		v := Missing
		if !missingTokens[raw] {
			if v, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("row %d: parse %q: %w", row, raw, status.ErrInvalidValue)
			}
		} else if opts.DropMissing {
			continue
		}
		s.Values = append(s.Values, v)

		if d, ok := cell(record, cols.date); ok {
			if ts, ok := parseDate(d, opts.DateFormat); ok {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(s.Values) == 0 {
		return nil, fmt.Errorf("no data rows in CSV: %w", status.ErrEmptySeries)
	}
	if len(timestamps) == len(s.Values) {
		s.Timestamps = timestamps
	}
	return s, nil
}

func parseDate(s, layout string) (time.Time, bool) {
	for _, f := range append([]string{layout}, dateLayouts...) {
		if f == "" {
			continue
		}
		if ts, err := time.Parse(f, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// SaveCSV writes series as a two-column CSV. With includeIndex the first
// column is the date (ds) when timestamps are present and a 1-based index
// otherwise. Missing values are written as NA.
func SaveCSV(series *Series, filename string, includeIndex bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, series, includeIndex); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV is SaveCSV to an io.Writer.
func WriteCSV(w io.Writer, series *Series, includeIndex bool) error {
	dated := len(series.Timestamps) == len(series.Values)
	cw := csv.NewWriter(w)

	header := []string{"y"}
	switch {
	case includeIndex && dated:
		header = []string{"ds", "y"}
	case includeIndex:
		header = []string{"index", "y"}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, v := range series.Values {
		val := "NA"
		if !IsMissing(v) {
			val = strconv.FormatFloat(v, 'f', -1, 64)
		}
		rec := []string{val}
		if includeIndex {
			idx := strconv.Itoa(i + 1)
			if dated {
				idx = series.Timestamps[i].Format("2006-01-02")
			}
			rec = []string{idx, val}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
