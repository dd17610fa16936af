// Package automation runs batches of simulations: scripted scenarios,
// equation-of-state sweeps and seed replicas.
package automation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/sim"
	"github.com/san-kum/ljsim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Params override the preset, which defaults to
// argon/liquid.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	Save   bool               `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step's preset and parameter overrides.
func (s ScenarioStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "argon/liquid"
	}
	system, name, ok := strings.Cut(preset, "/")
	if !ok {
		return nil, fmt.Errorf("preset %q must be system/name", preset)
	}
	cfg := config.GetPreset(system, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	for k, v := range s.Params {
		if err := SetParam(cfg, k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SetParam sets one numeric configuration value by its yaml name.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "particles":
		cfg.Particles = int(v)
	case "simulation_time":
		cfg.SimulationTime = v
	case "dt":
		cfg.Dt = v
	case "temperature":
		cfg.Temperature = v
	case "density":
		cfg.Density = v
	case "precision":
		cfg.Precision = v
	case "equilibration_fraction":
		cfg.EquilibrationFraction = v
	case "seed":
		cfg.Seed = uint64(v)
	case "workers":
		cfg.Workers = int(v)
	case "histogram_bins":
		cfg.HistogramBins = int(v)
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// RunScenario executes all steps in order. obs and store may be nil; steps
// marked save are written to store.
func RunScenario(ctx context.Context, scenario *Scenario, obs dynamo.Observer, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s := sim.New(cfg.ToParams())
		if obs != nil {
			s.AddObserver(obs)
		}

		result, err := s.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: step.Name, Result: result}
		if sr.Name == "" {
			sr.Name = fmt.Sprintf("step%d", i+1)
		}
		if step.Save && store != nil {
			if sr.RunID, err = store.Save(result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of one parameter: an
// equation-of-state scan when the parameter is density or temperature.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// Parallel bounds concurrent runs; <= 0 runs them one at a time.
	Parallel int
}

// SweepResult holds the time averages of one sweep point.
type SweepResult struct {
	ParamValue      float64
	MeanPressure    float64
	MeanTemperature float64
	MeanPotential   float64
	MeanKinetic     float64
	EnergyDrift     float64
}

// Values returns the parameter values a sweep visits.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps == 1 {
		return []float64{sw.ParamMin}
	}
	vals := make([]float64, sw.NumSteps)
	floats.Span(vals, sw.ParamMin, sw.ParamMax)
	return vals
}

// RunSweep executes a parameter sweep. Results are in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, obs dynamo.Observer) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	if err := SetParam(&config.Config{}, sweep.ParamName, 0); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, len(values))

	limit := sweep.Parallel
	if limit <= 0 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			cfg := *base
			if err := SetParam(&cfg, sweep.ParamName, v); err != nil {
				return err
			}

			s := sim.New(cfg.ToParams())
			if obs != nil {
				s.AddObserver(obs)
			}
			result, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
			}

			results[i] = SweepResult{
				ParamValue:      v,
				MeanPressure:    result.Summary.MeanPressure,
				MeanTemperature: result.Summary.MeanTemperature,
				MeanPotential:   result.Summary.MeanPotential,
				MeanKinetic:     result.Summary.MeanKinetic,
				EnergyDrift:     result.Summary.EnergyDrift,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReplicaStats summarizes independent runs of one state point.
type ReplicaStats struct {
	Runs            int
	MeanPressure    float64
	StdPressure     float64
	MeanTemperature float64
	StdTemperature  float64
}

// RunReplicas repeats cfg over consecutive seeds starting at cfg.Seed.
func RunReplicas(ctx context.Context, cfg *config.Config, runs, parallel int) (ReplicaStats, []*sim.Result, error) {
	ens := sim.NewEnsemble(sim.New(cfg.ToParams()), runs, cfg.Seed)
	ens.Parallel = parallel

	results, err := ens.Run(ctx)
	if err != nil {
		return ReplicaStats{}, nil, err
	}
	return Stats(results), results, nil
}

// Stats computes mean and standard deviation of the per-run averages.
func Stats(results []*sim.Result) ReplicaStats {
	stats := ReplicaStats{Runs: len(results)}
	if len(results) == 0 {
		return stats
	}
	pressures := make([]float64, len(results))
	temps := make([]float64, len(results))
	for i, r := range results {
		pressures[i] = r.Summary.MeanPressure
		temps[i] = r.Summary.MeanTemperature
	}
	if len(results) == 1 {
		stats.MeanPressure, stats.MeanTemperature = pressures[0], temps[0]
		return stats
	}
	stats.MeanPressure, stats.StdPressure = stat.MeanStdDev(pressures, nil)
	stats.MeanTemperature, stats.StdTemperature = stat.MeanStdDev(temps, nil)
	return stats
}
