package model

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sartorproj/gotsmodel/calibrate"
	"github.com/sartorproj/gotsmodel/innovation"
	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/status"
)

// Family names a model family.
type Family int

// Model families.
const (
	ARMA Family = iota + 1
	ARIMA
	SARIMA
	SARIMAX
	FARIMA
	Airline
	GARCH
	EGARCH
	GARCHM
)

var familyNames = map[Family]string{
	ARMA:    "arma",
	ARIMA:   "arima",
	SARIMA:  "sarima",
	SARIMAX: "sarimax",
	FARIMA:  "farima",
	Airline: "airline",
	GARCH:   "garch",
	EGARCH:  "egarch",
	GARCHM:  "garch-m",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// IsMean reports whether f is a conditional-mean family.
func (f Family) IsMean() bool { return f >= ARMA && f <= Airline }

// IsVariance reports whether f is a conditional-variance family.
func (f Family) IsVariance() bool { return f >= GARCH && f <= GARCHM }

// ParseFamily maps a family name to its value.
func ParseFamily(s string) (Family, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "garchm", "garch_m":
		return GARCHM, nil
	case "sarima-x", "sarima_x":
		return SARIMAX, nil
	}
	for f, name := range familyNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown model family %q: %w", s, status.ErrInvalidArgument)
}

// Parameter is one named entry of a model's parameter vector.
type Parameter struct {
	Name  string
	Value float64
}

// Model is satisfied by *MeanModel and *VarianceModel. Every lifecycle
// operation is written once against it.
type Model interface {
	*MeanModel | *VarianceModel
	model
}

type model interface {
	Parameters() []Parameter
	family() Family
	check() error
	validate() error
	process(offset, n, steps int) (*kernel.Process, error)
	guess(y []float64, offset int, log *zap.Logger) error
	pack() []float64
	unpack(v []float64)
	encode() ([]float64, error)
	decode(x []float64, target float64)
	onBoundary() bool
	clone() model
}

func copyOf[M Model](m M) M {
	return m.clone().(M)
}

func numParams[M Model](m M) int {
	return len(m.pack())
}

// Option configures calibration.
type Option func(*options)

type options struct {
	maxIter int
	logger  *zap.Logger
}

// WithMaxIter bounds the optimizer's major iterations. The default is 100.
func WithMaxIter(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithLogger routes calibration progress to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

func newOptions(opts []Option) *options {
	o := &options{maxIter: calibrate.DefaultMaxIter, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

func distribution(kind innovation.Kind, nu float64) (innovation.Distribution, error) {
	if kind == 0 {
		kind = innovation.Gaussian
	}
	return innovation.New(kind, nu)
}
