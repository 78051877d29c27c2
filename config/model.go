package config

import (
	"fmt"

	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/model"
	"github.com/sartorproj/gotsmodel/status"
)

// ModelFile is the YAML form of a model. Mean families use the mean block,
// variance families the omega/alpha/gamma/beta block.
//
//	family: airline
//	season: 12
//	sigma: 0.04
//	theta: [-0.4]
//	stheta: [-0.6]
type ModelFile struct {
	Family       string  `yaml:"family"`
	Distribution string  `yaml:"distribution,omitempty"`
	Nu           float64 `yaml:"nu,omitempty"`
	Mu           float64 `yaml:"mu"`

	Sigma    float64     `yaml:"sigma,omitempty"`
	Phi      []float64   `yaml:"phi,omitempty"`
	Theta    []float64   `yaml:"theta,omitempty"`
	D        int         `yaml:"d,omitempty"`
	Season   int         `yaml:"season,omitempty"`
	SPhi     []float64   `yaml:"sphi,omitempty"`
	STheta   []float64   `yaml:"stheta,omitempty"`
	SD       int         `yaml:"sd,omitempty"`
	FracD    float64     `yaml:"frac_d,omitempty"`
	Loadings []float64   `yaml:"loadings,omitempty"`
	Exog     [][]float64 `yaml:"exog,omitempty"`

	Lambda float64   `yaml:"lambda,omitempty"`
	Omega  float64   `yaml:"omega,omitempty"`
	Alpha  []float64 `yaml:"alpha,omitempty"`
	Gamma  []float64 `yaml:"gamma,omitempty"`
	Beta   []float64 `yaml:"beta,omitempty"`
}

// Kind returns the model family and innovation distribution.
func (f *ModelFile) Kind() (model.Family, innovation.Kind, error) {
	fam, err := model.ParseFamily(f.Family)
	if err != nil {
		return 0, 0, err
	}
	dist, err := innovation.ParseKind(f.Distribution)
	if err != nil {
		return 0, 0, err
	}
	return fam, dist, nil
}

// Mean builds the mean model described by f.
func (f *ModelFile) Mean() (*model.MeanModel, error) {
	fam, dist, err := f.Kind()
	if err != nil {
		return nil, err
	}
	if !fam.IsMean() {
		return nil, fmt.Errorf("%s is not a mean family: %w", fam, status.ErrInvalidArgument)
	}
	if fam == model.Airline {
		if len(f.Theta) != 1 || len(f.STheta) != 1 {
			return nil, fmt.Errorf("airline needs one theta and one stheta: %w", status.ErrInvalidArgument)
		}
		return model.NewAirline(f.Mu, f.Sigma, f.Season, f.Theta[0], f.STheta[0]).WithInnovation(dist, f.Nu), nil
	}
	m := &model.MeanModel{
		Family: fam,
		Mu:     f.Mu,
		Sigma:  f.Sigma,
		Phi:    f.Phi,
		Theta:  f.Theta,
		D:      f.D,
		Season: f.Season,
		SPhi:   f.SPhi,
		STheta: f.STheta,
		SD:     f.SD,
		FracD:  f.FracD,
		Beta:   f.Loadings,
		Exog:   f.Exog,
	}
	return m.WithInnovation(dist, f.Nu), nil
}

// Variance builds the variance model described by f.
func (f *ModelFile) Variance() (*model.VarianceModel, error) {
	fam, dist, err := f.Kind()
	if err != nil {
		return nil, err
	}
	if !fam.IsVariance() {
		return nil, fmt.Errorf("%s is not a variance family: %w", fam, status.ErrInvalidArgument)
	}
	m := &model.VarianceModel{
		Family: fam,
		Mu:     f.Mu,
		Lambda: f.Lambda,
		Omega:  f.Omega,
		Alpha:  f.Alpha,
		Gamma:  f.Gamma,
		Beta:   f.Beta,
	}
	return m.WithInnovation(dist, f.Nu), nil
}

// FromMean is the inverse of ModelFile.Mean. Exogenous rows are not
// written.
func FromMean(m *model.MeanModel) *ModelFile {
	f := &ModelFile{
		Family:   m.Family.String(),
		Mu:       m.Mu,
		Sigma:    m.Sigma,
		Phi:      m.Phi,
		Theta:    m.Theta,
		D:        m.D,
		Season:   m.Season,
		SPhi:     m.SPhi,
		STheta:   m.STheta,
		SD:       m.SD,
		FracD:    m.FracD,
		Loadings: m.Beta,
	}
	setDistribution(f, m.Dist, m.Nu)
	return f
}

// FromVariance is the inverse of ModelFile.Variance.
func FromVariance(m *model.VarianceModel) *ModelFile {
	f := &ModelFile{
		Family: m.Family.String(),
		Mu:     m.Mu,
		Lambda: m.Lambda,
		Omega:  m.Omega,
		Alpha:  m.Alpha,
		Gamma:  m.Gamma,
		Beta:   m.Beta,
	}
	setDistribution(f, m.Dist, m.Nu)
	return f
}

func setDistribution(f *ModelFile, kind innovation.Kind, nu float64) {
	if kind == 0 || kind == innovation.Gaussian {
		return
	}
	f.Distribution = kind.String()
	f.Nu = nu
}
