package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/geometry"
	"github.com/san-kum/ljsim/internal/integrators"
	"github.com/san-kum/ljsim/internal/potential"
)

type Options struct {
	Length  float64
	Bins    int
	Workers int
	// KeepDistances retains the full N×N distance matrix of every frame.
	KeepDistances bool
}

// Report holds the per-frame observables of a trajectory.
type Report struct {
	Kinetic   []float64
	Potential []float64
	// Virial is Σ_{i≠j} ForcePrefactor(d)·d² for each frame.
	Virial          []float64
	PairCorrelation *Histogram
	Distances       [][]float64
}

// FrameObservables returns ½Σ V(d) and Σ ForcePrefactor(d)·d² over a
// row-major distance matrix.
func FrameObservables(dists []float64) (u, virial float64) {
	for _, d := range dists {
		if d == 0 {
			continue
		}
		u += potential.Potential(d)
		virial += potential.Virial(d)
	}
	return u / 2, virial
}

// Analyze recomputes the energies from stored positions and velocities and
// accumulates g(r). Frames are split across workers; each worker keeps its
// own histogram and the results are merged in frame order. The kinetic
// series is computed up front since it needs no distances.
func Analyze(ctx context.Context, traj *dynamo.Trajectory, opts Options) (*Report, error) {
	frames := traj.Len()
	n := traj.Particles()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > frames {
		workers = frames
	}
	if workers < 1 {
		workers = 1
	}

	report := &Report{
		Kinetic:   KineticSeries(traj),
		Potential: make([]float64, frames),
		Virial:    make([]float64, frames),
	}
	if opts.KeepDistances {
		report.Distances = make([][]float64, frames)
	}

	pool := NewDistancePool(n)
	partial := make([]*Histogram, workers)
	chunk := (frames + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start, end := w*chunk, (w+1)*chunk
		if end > frames {
			end = frames
		}
		hist := NewPairHistogram(opts.Bins, opts.Length)
		partial[w] = hist

		g.Go(func() error {
			for t := start; t < end; t++ {
				if err := ctx.Err(); err != nil {
					return &dynamo.SimulationError{Stage: dynamo.StageAnalyze, Step: t, Wrapped: dynamo.ErrCanceled}
				}

				f := traj.Frame(t)
				dists := pool.Get()
				geometry.Distances(f.Positions, opts.Length, dists)

				report.Potential[t], report.Virial[t] = FrameObservables(dists)
				hist.Add(dists)

				if opts.KeepDistances {
					report.Distances[t] = dists
				} else {
					pool.Put(dists)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.PairCorrelation = partial[0]
	for _, h := range partial[1:] {
		report.PairCorrelation.Merge(h)
	}
	report.PairCorrelation.Normalize(n, frames, opts.Length)

	return report, nil
}

// KineticSeries returns ½Σ|v|² for every frame.
func KineticSeries(traj *dynamo.Trajectory) []float64 {
	out := make([]float64, traj.Len())
	dynamo.ParallelFor(len(out), 64, 0, func(start, end int) {
		for t := start; t < end; t++ {
			out[t] = integrators.KineticEnergy(traj.Frame(t).Velocities)
		}
	})
	return out
}

// TotalSeries returns the element-wise sum of kinetic and potential.
func TotalSeries(kinetic, potential []float64) []float64 {
	out := make([]float64, len(kinetic))
	for i := range out {
		out[i] = kinetic[i] + potential[i]
	}
	return out
}
