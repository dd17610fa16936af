package forcefield

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/geometry"
	"github.com/san-kum/ljsim/internal/potential"
)

// DefaultParallelThreshold is the particle count at which Evaluate starts
// fanning rows out to workers.
const DefaultParallelThreshold = 128

// Field is not safe for concurrent use; give each run its own.
type Field struct {
	length    float64
	workers   int
	threshold int

	partial []float64
}

type Option func(*Field)

// WithWorkers caps the number of goroutines used per evaluation.
func WithWorkers(n int) Option {
	return func(f *Field) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithParallelThreshold sets the particle count at which evaluation goes
// parallel. Zero forces the parallel path for any N.
func WithParallelThreshold(n int) Option {
	return func(f *Field) {
		if n >= 0 {
			f.threshold = n
		}
	}
}

func New(length float64, opts ...Option) *Field {
	f := &Field{
		length:    length,
		workers:   runtime.NumCPU(),
		threshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) Length() float64 { return f.length }
func (f *Field) Workers() int    { return f.workers }

// Evaluate overwrites forces with the net force on every particle and
// returns the total potential energy.
func (f *Field) Evaluate(positions, forces []r3.Vec) float64 {
	if len(positions) == 0 {
		return 0
	}
	if len(positions) < f.threshold || f.workers <= 1 {
		return f.evaluateSerial(positions, forces)
	}
	return f.evaluateParallel(positions, forces)
}

func (f *Field) evaluateSerial(pos, forces []r3.Vec) float64 {
	n := len(pos)
	for i := range forces[:n] {
		forces[i] = r3.Vec{}
	}

	u := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rij := geometry.MinimumImage(pos[i], pos[j], f.length)
			d := r3.Norm(rij)

			fij := r3.Scale(potential.ForcePrefactor(d), rij)
			forces[i] = r3.Add(forces[i], fij)
			forces[j] = r3.Sub(forces[j], fij)

			u += potential.Potential(d)
		}
	}

	return u
}

func (f *Field) evaluateParallel(pos, forces []r3.Vec) float64 {
	n := len(pos)
	workers := f.workers
	if workers > n {
		workers = n
	}
	if len(f.partial) != workers {
		f.partial = make([]float64, workers)
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		g.Go(func() error {
			u := 0.0
			for i := start; i < end; i++ {
				var fi r3.Vec
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					rij := pairVector(pos, i, j, f.length)
					d := r3.Norm(rij)

					fi = r3.Add(fi, r3.Scale(potential.ForcePrefactor(d), rij))
					u += potential.Potential(d)
				}
				forces[i] = fi
			}
			f.partial[w] = u / 2
			return nil
		})
	}

	// Workers never fail.
	_ = g.Wait()

	u := 0.0
	for _, p := range f.partial {
		u += p
	}
	return u
}

// pairVector returns the minimum-image vector from j to i, always computed
// from the lower index so that pairVector(i, j) == -pairVector(j, i) even
// for separations of exactly L/2.
func pairVector(pos []r3.Vec, i, j int, length float64) r3.Vec {
	if i < j {
		return geometry.MinimumImage(pos[i], pos[j], length)
	}
	return r3.Scale(-1, geometry.MinimumImage(pos[j], pos[i], length))
}
