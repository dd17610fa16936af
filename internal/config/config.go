package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ljsim/internal/dynamo"
)

const (
	DefaultParticles      = 108
	DefaultSimulationTime = 1.0
	DefaultDt             = 0.001
	DefaultTemperature    = 1.0
	DefaultDensity        = 0.8
	DefaultPrecision      = 0.01
	DefaultFraction       = 0.2
	DefaultMaxIterations  = 100
	DefaultBins           = 1000
	DefaultReport         = 100
)

type Config struct {
	Particles                  int     `yaml:"particles"`
	SimulationTime             float64 `yaml:"simulation_time"`
	Dt                         float64 `yaml:"dt"`
	Temperature                float64 `yaml:"temperature"`
	Density                    float64 `yaml:"density"`
	Dimension                  int     `yaml:"dimension"`
	Precision                  float64 `yaml:"precision"`
	EquilibrationFraction      float64 `yaml:"equilibration_fraction"`
	MaxEquilibrationIterations int     `yaml:"max_equilibration_iterations"`
	Seed                       uint64  `yaml:"seed"`
	Workers                    int     `yaml:"workers"`
	HistogramBins              int     `yaml:"histogram_bins"`
	KeepDistances              bool    `yaml:"keep_distances"`
	ReportInterval             int     `yaml:"report_interval"`
	RemoveDrift                bool    `yaml:"remove_drift"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:                  DefaultParticles,
		SimulationTime:             DefaultSimulationTime,
		Dt:                         DefaultDt,
		Temperature:                DefaultTemperature,
		Density:                    DefaultDensity,
		Dimension:                  dynamo.Dimension,
		Precision:                  DefaultPrecision,
		EquilibrationFraction:      DefaultFraction,
		MaxEquilibrationIterations: DefaultMaxIterations,
		Seed:                       1,
		HistogramBins:              DefaultBins,
		ReportInterval:             DefaultReport,
	}
}

// Load reads a configuration file. .ini, .cfg and .gcfg files are parsed as
// gcfg with a [Simulation] section; anything else is parsed as yaml. Keys
// missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".gcfg":
		return loadGcfg(path)
	default:
		return loadYAML(path)
	}
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToParams converts the file representation into run parameters.
func (c *Config) ToParams() dynamo.Params {
	return dynamo.Params{
		Particles:                  c.Particles,
		SimulationTime:             c.SimulationTime,
		TimeStep:                   c.Dt,
		Temperature:                c.Temperature,
		Density:                    c.Density,
		Dimension:                  c.Dimension,
		Precision:                  c.Precision,
		EquilibrationFraction:      c.EquilibrationFraction,
		MaxEquilibrationIterations: c.MaxEquilibrationIterations,
		Seed:                       c.Seed,
		Workers:                    c.Workers,
		HistogramBins:              c.HistogramBins,
		KeepDistances:              c.KeepDistances,
		ReportInterval:             c.ReportInterval,
		RemoveDrift:                c.RemoveDrift,
	}
}

func FromParams(p dynamo.Params) *Config {
	return &Config{
		Particles:                  p.Particles,
		SimulationTime:             p.SimulationTime,
		Dt:                         p.TimeStep,
		Temperature:                p.Temperature,
		Density:                    p.Density,
		Dimension:                  p.Dimension,
		Precision:                  p.Precision,
		EquilibrationFraction:      p.EquilibrationFraction,
		MaxEquilibrationIterations: p.MaxEquilibrationIterations,
		Seed:                       p.Seed,
		Workers:                    p.Workers,
		HistogramBins:              p.HistogramBins,
		KeepDistances:              p.KeepDistances,
		ReportInterval:             p.ReportInterval,
		RemoveDrift:                p.RemoveDrift,
	}
}
