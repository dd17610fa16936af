package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dimension is the only spatial dimension the FCC initializer supports.
const Dimension = 3

// Frame is one time slice of the particle state. The slices are views into
// the owning Trajectory and must not be retained across runs.
type Frame struct {
	Positions  []r3.Vec
	Velocities []r3.Vec
	Forces     []r3.Vec
}

// NewFrame allocates a standalone frame for n particles.
func NewFrame(n int) Frame {
	return Frame{
		Positions:  make([]r3.Vec, n),
		Velocities: make([]r3.Vec, n),
		Forces:     make([]r3.Vec, n),
	}
}

// Len returns the number of particles in the frame.
func (f Frame) Len() int { return len(f.Positions) }

// CopyFrom overwrites f with the contents of src.
func (f Frame) CopyFrom(src Frame) {
	copy(f.Positions, src.Positions)
	copy(f.Velocities, src.Velocities)
	copy(f.Forces, src.Forces)
}

// IsValid reports whether every component of every vector is finite.
func (f Frame) IsValid() bool {
	return Finite(f.Positions) && Finite(f.Velocities) && Finite(f.Forces)
}

// Finite reports whether every component of vs is neither NaN nor Inf.
func Finite(vs []r3.Vec) bool {
	for _, v := range vs {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
			math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
			return false
		}
	}
	return true
}

// Trajectory holds every frame of a run in three contiguous backing arrays,
// sized particles × frames before the run begins.
type Trajectory struct {
	n, frames  int
	positions  []r3.Vec
	velocities []r3.Vec
	forces     []r3.Vec
	potential  []float64
}

// NewTrajectory pre-allocates a trajectory of the given shape.
func NewTrajectory(particles, frames int) *Trajectory {
	size := particles * frames
	return &Trajectory{
		n:          particles,
		frames:     frames,
		positions:  make([]r3.Vec, size),
		velocities: make([]r3.Vec, size),
		forces:     make([]r3.Vec, size),
		potential:  make([]float64, frames),
	}
}

func (t *Trajectory) Len() int       { return t.frames }
func (t *Trajectory) Particles() int { return t.n }

// Frame returns views of slice i. Panics if i is out of range.
func (t *Trajectory) Frame(i int) Frame {
	lo, hi := i*t.n, (i+1)*t.n
	return Frame{
		Positions:  t.positions[lo:hi:hi],
		Velocities: t.velocities[lo:hi:hi],
		Forces:     t.forces[lo:hi:hi],
	}
}

// CopyFrame overwrites frame dst with frame src.
func (t *Trajectory) CopyFrame(dst, src int) {
	t.Frame(dst).CopyFrom(t.Frame(src))
	t.potential[dst] = t.potential[src]
}

// Potential returns the potential energy recorded for frame i.
func (t *Trajectory) Potential(i int) float64 { return t.potential[i] }

// SetPotential records the potential energy of frame i.
func (t *Trajectory) SetPotential(i int, u float64) { t.potential[i] = u }

// Params describes one simulation run.
type Params struct {
	Particles      int
	SimulationTime float64
	TimeStep       float64
	Temperature    float64
	Density        float64
	Dimension      int

	// Precision is the tolerance on |Lambda-1| that ends equilibration.
	Precision float64
	// EquilibrationFraction of the production steps used for each test burst.
	EquilibrationFraction      float64
	MaxEquilibrationIterations int

	Seed          uint64
	Workers       int
	HistogramBins int
	// KeepDistances retains every frame's N×N distance matrix in the result.
	KeepDistances bool
	// ReportInterval emits a produce event every ReportInterval steps; 0 disables.
	ReportInterval int
	// RemoveDrift zeros the total momentum of the initial velocities.
	RemoveDrift bool
}

func DefaultParams() Params {
	return Params{
		Particles:                  108,
		SimulationTime:             1.0,
		TimeStep:                   0.001,
		Temperature:                1.0,
		Density:                    0.8,
		Dimension:                  Dimension,
		Precision:                  0.01,
		EquilibrationFraction:      0.2,
		MaxEquilibrationIterations: 100,
		Seed:                       1,
		HistogramBins:              1000,
		ReportInterval:             100,
	}
}

// Steps is the number of time slices, int(SimulationTime/TimeStep).
func (p Params) Steps() int {
	if p.TimeStep <= 0 {
		return 0
	}
	return int(math.Floor(p.SimulationTime/p.TimeStep + 1e-9))
}

// TestSteps is the length of one equilibration burst.
func (p Params) TestSteps() int {
	return int(float64(p.Steps()) * p.EquilibrationFraction)
}

// Length is the side of the cubic box, (N/density)^(1/D).
func (p Params) Length() float64 {
	return math.Pow(float64(p.Particles)/p.Density, 1/float64(p.Dimension))
}

// Validate checks everything except the 4a³ lattice constraint, which the
// lattice package owns.
func (p Params) Validate() error {
	if p.Dimension != Dimension {
		return ErrDimension
	}
	if p.Particles <= 0 {
		return ErrParticleCount
	}
	if p.TimeStep <= 0 {
		return Boundsf("time step must be positive, got %g", p.TimeStep)
	}
	if p.SimulationTime <= 0 {
		return Boundsf("simulation time must be positive, got %g", p.SimulationTime)
	}
	if p.Temperature <= 0 {
		return Boundsf("temperature must be positive, got %g", p.Temperature)
	}
	if p.Density <= 0 {
		return Boundsf("density must be positive, got %g", p.Density)
	}
	if p.Precision <= 0 {
		return Boundsf("precision must be positive, got %g", p.Precision)
	}
	if p.EquilibrationFraction <= 0 || p.EquilibrationFraction > 1 {
		return Boundsf("equilibration fraction must be in (0, 1], got %g", p.EquilibrationFraction)
	}
	if p.MaxEquilibrationIterations <= 0 {
		return Boundsf("max equilibration iterations must be positive, got %d", p.MaxEquilibrationIterations)
	}
	if p.HistogramBins <= 0 {
		return Boundsf("histogram bins must be positive, got %d", p.HistogramBins)
	}
	if p.Steps() < 2 {
		return Boundsf("need at least 2 time steps, got %d", p.Steps())
	}
	if p.TestSteps() < 2 {
		return Boundsf("need at least 2 equilibration steps, got %d", p.TestSteps())
	}
	return nil
}

// Stage identifies the phase of a run an Event belongs to.
type Stage string

const (
	StageInitialize  Stage = "initialize"
	StageEquilibrate Stage = "equilibrate"
	StageProduce     Stage = "produce"
	StageAnalyze     Stage = "analyze"
	StageComplete    Stage = "complete"
)

// Event is a progress notification emitted by the driver.
type Event struct {
	Stage     Stage
	Step      int
	Total     int
	Lambda    float64
	Kinetic   float64
	Potential float64
	Message   string
}

type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Sample is what a Metric sees for each production frame.
type Sample struct {
	Step      int
	Time      float64
	Frame     Frame
	Kinetic   float64
	Potential float64
	Length    float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
