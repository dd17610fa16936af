// Package sim drives a complete Lennard-Jones run: lattice setup, Lambda
// equilibration, production and post-processing.
package sim

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/rand"

	"github.com/san-kum/ljsim/internal/analysis"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/equilibrate"
	"github.com/san-kum/ljsim/internal/forcefield"
	"github.com/san-kum/ljsim/internal/integrators"
	"github.com/san-kum/ljsim/internal/lattice"
)

type Simulator struct {
	params    dynamo.Params
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(params dynamo.Params) *Simulator {
	return &Simulator{
		params:    params,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) Params() dynamo.Params { return s.params }

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Result is everything a run produces. Series are indexed by frame.
type Result struct {
	Params        dynamo.Params
	Length        float64
	Trajectory    *dynamo.Trajectory
	Equilibration equilibrate.Report

	Kinetic   []float64
	Potential []float64
	Total     []float64
	Pressure  []float64

	PairCorrelation *analysis.Histogram
	// Distances is nil unless Params.KeepDistances is set.
	Distances [][]float64

	Summary analysis.Summary
	Metrics map[string]float64
	Elapsed time.Duration
}

func (s *Simulator) OnEvent(e dynamo.Event) {
	for _, o := range s.observers {
		o.OnEvent(e)
	}
}

// Run performs the full pipeline. Parameter errors are returned before
// anything is allocated.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	p := s.params
	if p.Dimension != dynamo.Dimension {
		return nil, dynamo.ErrDimension
	}
	if _, err := lattice.CellsPerSide(p.Particles); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	n := p.Particles
	steps := p.Steps()
	length := p.Length()

	s.OnEvent(dynamo.Event{Stage: dynamo.StageInitialize, Total: steps, Message: "building lattice"})

	traj := dynamo.NewTrajectory(n, steps)
	f0 := traj.Frame(0)

	pos, err := lattice.FCC(n, length)
	if err != nil {
		return nil, err
	}
	copy(f0.Positions, pos)
	copy(f0.Velocities, lattice.MaxwellBoltzmann(n, p.Temperature, rand.NewSource(p.Seed)))
	if p.RemoveDrift {
		lattice.RemoveDrift(f0.Velocities)
	}

	field := forcefield.New(length, forcefield.WithWorkers(p.Workers))
	integ := integrators.NewVelocityVerlet(field, p.TimeStep, length)
	traj.SetPotential(0, integ.Initialize(f0))

	eq := equilibrate.New(integ, p.TestSteps())
	eq.Precision = p.Precision
	eq.MaxIterations = p.MaxEquilibrationIterations
	target := equilibrate.TargetKinetic(n, p.Dimension, p.Temperature)

	report, err := eq.Run(ctx, traj, target, s)
	if err != nil {
		return nil, err
	}

	if err := integ.Run(ctx, traj, steps, dynamo.StageProduce, s, p.ReportInterval); err != nil {
		return nil, err
	}

	s.OnEvent(dynamo.Event{Stage: dynamo.StageAnalyze, Step: steps, Total: steps, Message: "post-processing"})

	obs, err := analysis.Analyze(ctx, traj, analysis.Options{
		Length:        length,
		Bins:          p.HistogramBins,
		Workers:       p.Workers,
		KeepDistances: p.KeepDistances,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Params:          p,
		Length:          length,
		Trajectory:      traj,
		Equilibration:   report,
		Kinetic:         obs.Kinetic,
		Potential:       obs.Potential,
		Total:           analysis.TotalSeries(obs.Kinetic, obs.Potential),
		Pressure:        analysis.PressureSeries(n, p.Density, p.Temperature, obs.Virial),
		PairCorrelation: obs.PairCorrelation,
		Distances:       obs.Distances,
		Metrics:         make(map[string]float64),
	}
	result.Summary = analysis.Summarize(obs, result.Pressure, n, p.Dimension)

	s.observeMetrics(result)

	result.Elapsed = time.Since(start)
	s.OnEvent(dynamo.Event{
		Stage:     dynamo.StageComplete,
		Step:      steps,
		Total:     steps,
		Lambda:    report.FinalLambda,
		Kinetic:   result.Summary.MeanKinetic,
		Potential: result.Summary.MeanPotential,
	})

	return result, nil
}

func (s *Simulator) observeMetrics(r *Result) {
	for _, m := range s.metrics {
		m.Reset()
	}
	for t := 0; t < r.Trajectory.Len(); t++ {
		sample := dynamo.Sample{
			Step:      t,
			Time:      float64(t) * r.Params.TimeStep,
			Frame:     r.Trajectory.Frame(t),
			Kinetic:   r.Kinetic[t],
			Potential: r.Potential[t],
			Length:    r.Length,
		}
		for _, m := range s.metrics {
			m.Observe(sample)
		}
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// Simulate runs one simulation with default precision and seed and keeps
// the per-frame distance matrices.
func Simulate(ctx context.Context, n int, simulationTime, timeStep, temperature, density float64, dim int) (*Result, error) {
	p := dynamo.DefaultParams()
	p.Particles = n
	p.SimulationTime = simulationTime
	p.TimeStep = timeStep
	p.Temperature = temperature
	p.Density = density
	p.Dimension = dim
	p.KeepDistances = true
	return New(p).Run(ctx)
}

// IsCanceled reports whether err came from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, dynamo.ErrCanceled) || errors.Is(err, context.Canceled)
}
