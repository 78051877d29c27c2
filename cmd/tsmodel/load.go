package main

import (
	"errors"
	"fmt"

	"github.com/sartorproj/gotsmodel/config"
	"github.com/sartorproj/gotsmodel/model"
	"github.com/sartorproj/gotsmodel/status"
	"github.com/sartorproj/gotsmodel/timeseries"
)

// loaded holds exactly one of a mean or a variance model.
type loaded struct {
	mean *model.MeanModel
	vari *model.VarianceModel
}

func loadModel() (*loaded, error) {
	if globalFlags.Model == "" {
		return nil, errors.New("--model is required")
	}
	f, err := config.LoadModelFile(globalFlags.Model)
	if err != nil {
		return nil, err
	}
	fam, _, err := f.Kind()
	if err != nil {
		return nil, err
	}
	if fam.IsMean() {
		m, err := f.Mean()
		return &loaded{mean: m}, err
	}
	m, err := f.Variance()
	return &loaded{vari: m}, err
}

func loadSeries() (*timeseries.Series, error) {
	if globalFlags.Data == "" {
		return nil, errors.New("--data is required")
	}
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = globalFlags.Column
	opts.DateColumn = globalFlags.DateColumn
	s, err := timeseries.LoadCSV(globalFlags.Data, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", globalFlags.Data, err)
	}
	return transform(s, globalFlags.Last, globalFlags.Log)
}

// transform keeps the last n observations when n > 0 and then takes logs.
func transform(s *timeseries.Series, last int, logs bool) (*timeseries.Series, error) {
	if last < 0 {
		return nil, fmt.Errorf("--last %d: %w", last, status.ErrInvalidArgument)
	}
	if last > 0 && last < s.Len() {
		s = s.Slice(s.Len()-last, s.Len())
	}
	if logs {
		s = s.Log()
	}
	return s, nil
}

func toFile[M model.Model](m M) *config.ModelFile {
	switch v := any(m).(type) {
	case *model.MeanModel:
		return config.FromMean(v)
	case *model.VarianceModel:
		return config.FromVariance(v)
	}
	return nil
}
