package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/metrics"
)

func shortParams() dynamo.Params {
	p := dynamo.DefaultParams()
	p.Particles = 32
	p.SimulationTime = 0.2
	p.HistogramBins = 100
	p.ReportInterval = 50
	return p
}

func TestSimulatorRun(t *testing.T) {
	sim := New(shortParams())

	result, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Trajectory.Len() != 200 {
		t.Errorf("expected 200 frames, got %d", result.Trajectory.Len())
	}
	for name, series := range map[string][]float64{
		"kinetic":   result.Kinetic,
		"potential": result.Potential,
		"total":     result.Total,
		"pressure":  result.Pressure,
	} {
		if len(series) != 200 {
			t.Errorf("%s: expected 200 values, got %d", name, len(series))
		}
	}
	if result.Distances != nil {
		t.Error("distances retained without KeepDistances")
	}
	if result.PairCorrelation == nil || len(result.PairCorrelation.Values) != 100 {
		t.Error("expected normalized pair correlation with 100 bins")
	}
	if result.Equilibration.Iterations == 0 {
		t.Error("expected at least one equilibration iteration")
	}
}

func TestSimulatorInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*dynamo.Params)
		want   error
	}{
		{"not 4a^3", func(p *dynamo.Params) { p.Particles = 30 }, dynamo.ErrParticleCount},
		{"zero particles", func(p *dynamo.Params) { p.Particles = 0 }, dynamo.ErrParticleCount},
		{"two dimensions", func(p *dynamo.Params) { p.Dimension = 2 }, dynamo.ErrDimension},
		{"zero dt", func(p *dynamo.Params) { p.TimeStep = 0 }, dynamo.ErrParameterBounds},
		{"negative density", func(p *dynamo.Params) { p.Density = -1 }, dynamo.ErrParameterBounds},
		{"too few steps", func(p *dynamo.Params) { p.SimulationTime = 0.005 }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := shortParams()
			tt.modify(&p)
			_, err := New(p).Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(shortParams()).Run(ctx)
	if !IsCanceled(err) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(shortParams())
	sim.AddMetric(metrics.NewContainment())
	sim.AddMetric(metrics.NewTemperature(3))

	result, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["containment"]; !ok || got != 1 {
		t.Errorf("expected containment 1, got %v (present %v)", got, ok)
	}
	if _, ok := result.Metrics["temperature"]; !ok {
		t.Error("metric not found in result")
	}
}

func TestSimulatorEvents(t *testing.T) {
	sim := New(shortParams())

	var stages []dynamo.Stage
	sim.AddObserver(dynamo.ObserverFunc(func(e dynamo.Event) {
		if len(stages) == 0 || stages[len(stages)-1] != e.Stage {
			stages = append(stages, e.Stage)
		}
	}))

	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []dynamo.Stage{
		dynamo.StageInitialize,
		dynamo.StageEquilibrate,
		dynamo.StageProduce,
		dynamo.StageAnalyze,
		dynamo.StageComplete,
	}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d: expected %s, got %s", i, want[i], stages[i])
		}
	}
}

func TestSimulateReproducible(t *testing.T) {
	a, err := Simulate(context.Background(), 32, 0.1, 0.001, 1.0, 0.8, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := Simulate(context.Background(), 32, 0.1, 0.001, 1.0, 0.8, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last := a.Trajectory.Len() - 1
	pa, pb := a.Trajectory.Frame(last).Positions, b.Trajectory.Frame(last).Positions
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs between identical runs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestEnsemble(t *testing.T) {
	p := shortParams()
	p.ReportInterval = 0

	var mu sync.Mutex
	completed := 0
	base := New(p)
	base.AddObserver(dynamo.ObserverFunc(func(e dynamo.Event) {
		if e.Stage == dynamo.StageComplete {
			mu.Lock()
			completed++
			mu.Unlock()
		}
	}))

	ens := NewEnsemble(base, 3, 10)
	ens.Parallel = 2
	ens.MetricFactory = func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewEnergyDrift()}
	}

	results, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 3 || completed != 3 {
		t.Fatalf("expected 3 results and 3 completions, got %d and %d", len(results), completed)
	}
	for i, r := range results {
		if r.Params.Seed != uint64(10+i) {
			t.Errorf("result %d has seed %d", i, r.Params.Seed)
		}
		if _, ok := r.Metrics["energy_drift"]; !ok {
			t.Errorf("result %d missing energy_drift", i)
		}
	}
	if results[0].Kinetic[0] == results[1].Kinetic[0] {
		t.Error("different seeds produced identical initial kinetic energy")
	}
}

func TestSimulatorRemoveDrift(t *testing.T) {
	p := shortParams()
	p.RemoveDrift = true

	result, err := New(p).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last := result.Trajectory.Frame(result.Trajectory.Len() - 1)
	var px, py, pz float64
	for _, v := range last.Velocities {
		px += v.X
		py += v.Y
		pz += v.Z
	}
	if math.Abs(px) > 1e-9 || math.Abs(py) > 1e-9 || math.Abs(pz) > 1e-9 {
		t.Errorf("total momentum (%g, %g, %g), want ~0", px, py, pz)
	}
}
