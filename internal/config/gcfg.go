package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const ExampleGcfgFile = `[Simulation]

# Number of particles. Must be 4*a^3 for integer a (32, 108, 256, 500, ...).
Particles = 108
# Simulation time and time step in reduced units.
SimulationTime = 1.0
Dt = 0.001
Temperature = 1.0
Density = 0.8

# Lambda equilibration. Each test burst uses EquilibrationFraction of the
# production steps; iteration stops once |Lambda-1| <= Precision.
# Precision = 0.01
# EquilibrationFraction = 0.2
# MaxEquilibrationIterations = 100

# Seed = 1
# Workers = 0
# HistogramBins = 1000
# KeepDistances = false
# ReportInterval = 100
# RemoveDrift = false`

type gcfgFile struct {
	Simulation struct {
		Particles                  int
		SimulationTime             float64
		Dt                         float64
		Temperature                float64
		Density                    float64
		Dimension                  int
		Precision                  float64
		EquilibrationFraction      float64
		MaxEquilibrationIterations int
		Seed                       int64
		Workers                    int
		HistogramBins              int
		KeepDistances              bool
		ReportInterval             int
		RemoveDrift                bool
	}
}

func loadGcfg(path string) (*Config, error) {
	def := DefaultConfig()

	var f gcfgFile
	s := &f.Simulation
	s.Particles = def.Particles
	s.SimulationTime = def.SimulationTime
	s.Dt = def.Dt
	s.Temperature = def.Temperature
	s.Density = def.Density
	s.Dimension = def.Dimension
	s.Precision = def.Precision
	s.EquilibrationFraction = def.EquilibrationFraction
	s.MaxEquilibrationIterations = def.MaxEquilibrationIterations
	s.Seed = int64(def.Seed)
	s.Workers = def.Workers
	s.HistogramBins = def.HistogramBins
	s.KeepDistances = def.KeepDistances
	s.ReportInterval = def.ReportInterval
	s.RemoveDrift = def.RemoveDrift

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if s.Seed < 0 {
		return nil, fmt.Errorf("config: seed must be non-negative, got %d", s.Seed)
	}

	return &Config{
		Particles:                  s.Particles,
		SimulationTime:             s.SimulationTime,
		Dt:                         s.Dt,
		Temperature:                s.Temperature,
		Density:                    s.Density,
		Dimension:                  s.Dimension,
		Precision:                  s.Precision,
		EquilibrationFraction:      s.EquilibrationFraction,
		MaxEquilibrationIterations: s.MaxEquilibrationIterations,
		Seed:                       uint64(s.Seed),
		Workers:                    s.Workers,
		HistogramBins:              s.HistogramBins,
		KeepDistances:              s.KeepDistances,
		ReportInterval:             s.ReportInterval,
		RemoveDrift:                s.RemoveDrift,
	}, nil
}
