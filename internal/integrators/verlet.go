package integrators

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/geometry"
)

// ForceEvaluator overwrites forces for the given positions and returns the
// potential energy.
type ForceEvaluator interface {
	Evaluate(positions, forces []r3.Vec) float64
}

// VelocityVerlet advances a periodic system by one time step:
//
//	x(t+Δt) = (x + Δt·v + Δt²/2·F) mod L
//	F(t+Δt) = field(x(t+Δt))
//	v(t+Δt) = v + Δt/2·(F(t) + F(t+Δt))
type VelocityVerlet struct {
	field  ForceEvaluator
	dt     float64
	length float64
}

func NewVelocityVerlet(field ForceEvaluator, dt, length float64) *VelocityVerlet {
	return &VelocityVerlet{field: field, dt: dt, length: length}
}

func (v *VelocityVerlet) Dt() float64 { return v.dt }

// Initialize fills f.Forces from f.Positions and returns the potential.
func (v *VelocityVerlet) Initialize(f dynamo.Frame) float64 {
	return v.field.Evaluate(f.Positions, f.Forces)
}

// Step computes next from prev and returns the potential energy of next.
// prev must be complete; next is overwritten.
func (v *VelocityVerlet) Step(prev, next dynamo.Frame) float64 {
	dt := v.dt
	halfDt2 := 0.5 * dt * dt

	for i, x := range prev.Positions {
		x = r3.Add(x, r3.Scale(dt, prev.Velocities[i]))
		x = r3.Add(x, r3.Scale(halfDt2, prev.Forces[i]))
		next.Positions[i] = geometry.Wrap(x, v.length)
	}

	u := v.field.Evaluate(next.Positions, next.Forces)

	halfDt := 0.5 * dt
	for i, vel := range prev.Velocities {
		next.Velocities[i] = r3.Add(vel, r3.Scale(halfDt, r3.Add(prev.Forces[i], next.Forces[i])))
	}

	return u
}

// Run fills frames 1..steps-1 of traj from frame 0. An event for stage is
// sent to obs every `every` steps when obs is non-nil and every > 0.
func (v *VelocityVerlet) Run(ctx context.Context, traj *dynamo.Trajectory, steps int, stage dynamo.Stage, obs dynamo.Observer, every int) error {
	for t := 0; t < steps-1; t++ {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Stage: stage, Step: t, Wrapped: dynamo.ErrCanceled}
		default:
		}

		next := traj.Frame(t + 1)
		u := v.Step(traj.Frame(t), next)
		traj.SetPotential(t+1, u)

		if math.IsNaN(u) || math.IsInf(u, 0) || !next.IsValid() {
			return &dynamo.SimulationError{Stage: stage, Step: t + 1, Wrapped: dynamo.ErrDiverged}
		}

		if obs != nil && every > 0 && (t+1)%every == 0 {
			obs.OnEvent(dynamo.Event{
				Stage:     stage,
				Step:      t + 1,
				Total:     steps,
				Kinetic:   KineticEnergy(next.Velocities),
				Potential: u,
			})
		}
	}

	return nil
}

// KineticEnergy returns ½ Σ|v|² for unit masses.
func KineticEnergy(vs []r3.Vec) float64 {
	ke := 0.0
	for _, v := range vs {
		ke += r3.Norm2(v)
	}
	return 0.5 * ke
}
