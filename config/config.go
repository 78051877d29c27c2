// Package config loads run-time settings from the environment and model
// definitions from YAML files.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/gotsmodel/status"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "TSMODEL"

// Settings are the run-time defaults of the command line tool.
type Settings struct {
	MaxIter int           `yaml:"max_iter" envconfig:"MAX_ITER" default:"100"`
	Alpha   float64       `yaml:"alpha" envconfig:"ALPHA" default:"0.05"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// LoggingConfig selects the logger built by the command line tool.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"console"`
}

// LoadEnv reads Settings from TSMODEL_* variables, for example
// TSMODEL_MAX_ITER or TSMODEL_LOG_LEVEL.
func LoadEnv() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to load settings from env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings ranges.
func (s *Settings) Validate() error {
	if s.MaxIter <= 0 {
		return fmt.Errorf("max_iter %d must be positive: %w", s.MaxIter, status.ErrInvalidValue)
	}
	if !(s.Alpha > 0 && s.Alpha < 1) {
		return fmt.Errorf("alpha %g outside (0, 1): %w", s.Alpha, status.ErrInvalidValue)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format %q: %w", s.Logging.Format, status.ErrInvalidValue)
	}
	return nil
}

// LoadModelFile reads a model definition from a YAML file.
func LoadModelFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseModel(data)
}

// ParseModel decodes a YAML model definition.
func ParseModel(data []byte) (*ModelFile, error) {
	var f ModelFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse model: %v: %w", err, status.ErrInvalidArgument)
	}
	return &f, nil
}

// SaveModelFile writes f to path as YAML.
func SaveModelFile(path string, f *ModelFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
