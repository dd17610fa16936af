package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/forcefield"
	"github.com/san-kum/ljsim/internal/geometry"
	"github.com/san-kum/ljsim/internal/integrators"
	"github.com/san-kum/ljsim/internal/lattice"
	"github.com/san-kum/ljsim/internal/potential"
)

func randomTrajectory(t *testing.T, n, frames int, length float64) *dynamo.Trajectory {
	t.Helper()
	rng := rand.New(rand.NewSource(17))
	traj := dynamo.NewTrajectory(n, frames)
	for i := 0; i < frames; i++ {
		f := traj.Frame(i)
		for p := 0; p < n; p++ {
			f.Positions[p] = r3.Vec{X: rng.Float64() * length, Y: rng.Float64() * length, Z: rng.Float64() * length}
			f.Velocities[p] = r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		}
	}
	return traj
}

func TestFrameObservables(t *testing.T) {
	d := 1.3
	dists := []float64{0, d, d, 0}
	u, w := FrameObservables(dists)
	assert.InDelta(t, potential.Potential(d), u, 1e-12)
	assert.InDelta(t, 2*potential.Virial(d), w, 1e-12)
}

func TestAnalyze_MatchesForceField(t *testing.T) {
	n, length := 32, 4.0
	pos, err := lattice.FCC(n, length)
	require.NoError(t, err)

	traj := dynamo.NewTrajectory(n, 1)
	copy(traj.Frame(0).Positions, pos)

	report, err := Analyze(context.Background(), traj, Options{Length: length, Bins: 100, Workers: 1})
	require.NoError(t, err)

	field := forcefield.New(length)
	forces := make([]r3.Vec, n)
	assert.InDelta(t, field.Evaluate(pos, forces), report.Potential[0], 1e-9)
	virial := 0.0
	for i := range pos {
		for j := range pos {
			if i != j {
				virial += potential.Virial(r3.Norm(geometry.MinimumImage(pos[i], pos[j], length)))
			}
		}
	}
	assert.InDelta(t, virial, report.Virial[0], 1e-9)
	assert.Equal(t, 0.0, report.Kinetic[0])
	assert.Greater(t, report.PairCorrelation.Total(), 0.0)
	assert.LessOrEqual(t, report.PairCorrelation.Total(), float64(n*(n-1)))
}

func TestAnalyze_WorkersAgree(t *testing.T) {
	n, frames, length := 8, 13, 3.0
	traj := randomTrajectory(t, n, frames, length)

	serial, err := Analyze(context.Background(), traj, Options{Length: length, Bins: 50, Workers: 1})
	require.NoError(t, err)
	parallel, err := Analyze(context.Background(), traj, Options{Length: length, Bins: 50, Workers: 4, KeepDistances: true})
	require.NoError(t, err)

	assert.Equal(t, serial.Kinetic, parallel.Kinetic)
	assert.Equal(t, serial.Potential, parallel.Potential)
	assert.Equal(t, serial.PairCorrelation.Counts, parallel.PairCorrelation.Counts)
	require.Len(t, parallel.Distances, frames)
	assert.Len(t, parallel.Distances[frames-1], n*n)
	assert.Nil(t, serial.Distances)

	for i := 0; i < frames; i++ {
		assert.Equal(t, integrators.KineticEnergy(traj.Frame(i).Velocities), serial.Kinetic[i])
	}
}

func TestAnalyze_PairCorrelationApproachesOne(t *testing.T) {
	// Uncorrelated points: g(r) ≈ 1 inside the inscribed sphere.
	n, frames, length := 40, 200, 5.0
	traj := randomTrajectory(t, n, frames, length)

	report, err := Analyze(context.Background(), traj, Options{Length: length, Bins: 20})
	require.NoError(t, err)

	g := report.PairCorrelation.Values
	for k, r := range report.PairCorrelation.Radii() {
		assert.GreaterOrEqual(t, g[k], 0.0)
		if r > 2.0 && r < length/2 {
			assert.InDelta(t, 1.0, g[k], 0.2, "r=%v", r)
		}
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	traj := randomTrajectory(t, 4, 5, 2)
	_, err := Analyze(ctx, traj, Options{Length: 2, Bins: 10, Workers: 2})
	assert.True(t, errors.Is(err, dynamo.ErrCanceled), "got %v", err)
}

func TestTotalSeries(t *testing.T) {
	assert.Equal(t, []float64{3, -1}, TotalSeries([]float64{1, 2}, []float64{2, -3}))
}
