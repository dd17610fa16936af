// Package equilibrate brings a freshly initialized system to a target
// temperature by repeated velocity rescaling.
//
// Each iteration integrates a short burst from frame 0, measures the kinetic
// energy of the burst's last frame and computes
//
//	Lambda = sqrt(target / measured)
//
// The last frame then becomes the new frame 0 with its velocities scaled by
// Lambda. Iteration stops once |Lambda-1| is within the precision.
package equilibrate

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/integrators"
)

const (
	DefaultPrecision     = 0.01
	DefaultMaxIterations = 100
)

// TargetKinetic is the equipartition kinetic energy of n particles in dim
// dimensions with the centre-of-mass degrees of freedom removed.
func TargetKinetic(n, dim int, temperature float64) float64 {
	return float64(n-1) * float64(dim) * temperature / 2
}

// Runner integrates frames 1..steps-1 of a trajectory from frame 0.
type Runner interface {
	Run(ctx context.Context, traj *dynamo.Trajectory, steps int, stage dynamo.Stage, obs dynamo.Observer, every int) error
}

type Equilibrator struct {
	Integrator    Runner
	Precision     float64
	MaxIterations int
	TestSteps     int
}

func New(integ Runner, testSteps int) *Equilibrator {
	return &Equilibrator{
		Integrator:    integ,
		Precision:     DefaultPrecision,
		MaxIterations: DefaultMaxIterations,
		TestSteps:     testSteps,
	}
}

// Report summarizes an equilibration run.
type Report struct {
	Iterations  int       `json:"iterations"`
	Lambdas     []float64 `json:"lambdas"`
	FinalLambda float64   `json:"final_lambda"`
}

// Run equilibrates traj in place. Only frames 0..TestSteps-1 are touched;
// on success frame 0 holds the equilibrated state.
func (e *Equilibrator) Run(ctx context.Context, traj *dynamo.Trajectory, target float64, obs dynamo.Observer) (Report, error) {
	var report Report

	if e.TestSteps < 2 {
		return report, dynamo.Boundsf("need at least 2 equilibration steps, got %d", e.TestSteps)
	}
	if e.TestSteps > traj.Len() {
		return report, dynamo.Boundsf("equilibration burst of %d steps exceeds trajectory of %d", e.TestSteps, traj.Len())
	}
	if e.Precision <= 0 {
		return report, dynamo.Boundsf("precision must be positive, got %g", e.Precision)
	}
	maxIter := e.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	last := e.TestSteps - 1
	for iter := 1; iter <= maxIter; iter++ {
		if err := e.Integrator.Run(ctx, traj, e.TestSteps, dynamo.StageEquilibrate, nil, 0); err != nil {
			return report, err
		}

		end := traj.Frame(last)
		measured := integrators.KineticEnergy(end.Velocities)
		if measured == 0 || math.IsNaN(measured) || math.IsInf(measured, 0) {
			return report, &dynamo.SimulationError{Stage: dynamo.StageEquilibrate, Step: last, Wrapped: dynamo.ErrDiverged}
		}

		lambda := math.Sqrt(target / measured)
		report.Iterations = iter
		report.Lambdas = append(report.Lambdas, lambda)
		report.FinalLambda = lambda

		traj.CopyFrame(0, last)
		scale(traj.Frame(0).Velocities, lambda)

		if obs != nil {
			obs.OnEvent(dynamo.Event{
				Stage:     dynamo.StageEquilibrate,
				Step:      iter,
				Total:     maxIter,
				Lambda:    lambda,
				Kinetic:   lambda * lambda * measured,
				Potential: traj.Potential(0),
			})
		}

		if math.Abs(lambda-1) <= e.Precision {
			return report, nil
		}
	}

	return report, fmt.Errorf("%w after %d iterations (lambda %.4f)", dynamo.ErrNotConverged, maxIter, report.FinalLambda)
}

func scale(vs []r3.Vec, f float64) {
	for i, v := range vs {
		vs[i] = r3.Scale(f, v)
	}
}
