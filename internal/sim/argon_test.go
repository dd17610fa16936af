package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/ljsim/internal/analysis"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/metrics"
)

var _ = Describe("Liquid argon", Ordered, func() {
	var (
		params dynamo.Params
		result *Result
	)

	BeforeAll(func() {
		params = dynamo.DefaultParams()
		params.Particles = 108
		params.Density = 0.8
		params.Temperature = 1.0
		params.TimeStep = 0.001
		params.SimulationTime = 1.0
		params.Seed = 7

		sim := New(params)
		sim.AddMetric(metrics.NewContainment())
		sim.AddMetric(metrics.NewEnergyDrift())

		var err error
		result, err = sim.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
	})

	It("integrates the requested number of steps", func() {
		Expect(result.Trajectory.Len()).To(Equal(1000))
		Expect(result.Length).To(BeNumerically("~", math.Cbrt(108/0.8), 1e-12))
	})

	It("equilibrates to within the precision", func() {
		Expect(result.Equilibration.Iterations).To(BeNumerically(">=", 1))
		Expect(math.Abs(result.Equilibration.FinalLambda - 1)).To(BeNumerically("<=", params.Precision))
	})

	It("keeps every particle inside the box", func() {
		Expect(result.Metrics["containment"]).To(Equal(1.0))
	})

	It("conserves energy", func() {
		Expect(result.Metrics["energy_drift"]).To(BeNumerically("<", 0.01))
		Expect(result.Summary.EnergyDrift).To(BeNumerically("~", result.Metrics["energy_drift"], 1e-12))
	})

	It("stays near the target temperature", func() {
		Expect(result.Summary.MeanTemperature).To(BeNumerically("~", 1.0, 0.35))
	})

	It("produces finite pressure", func() {
		Expect(floats.HasNaN(result.Pressure)).To(BeFalse())
		for _, p := range result.Pressure {
			Expect(math.IsInf(p, 0)).To(BeFalse())
		}
	})

	It("produces a non-negative g(r) that levels off near one", func() {
		g := result.PairCorrelation.Values
		radii := result.PairCorrelation.Radii()
		for _, v := range g {
			Expect(v).To(BeNumerically(">=", 0))
		}

		var tail []float64
		for k, r := range radii {
			if r > 1.8 && r < result.Length/2 {
				tail = append(tail, g[k])
			}
		}
		Expect(tail).NotTo(BeEmpty())
		Expect(floats.Sum(tail) / float64(len(tail))).To(BeNumerically("~", 1.0, 0.3))
	})

	It("places the first peak stably under bin doubling", func() {
		r1, _ := result.PairCorrelation.Peak()
		Expect(r1).To(BeNumerically("~", 1.1, 0.2))

		fine, err := analysis.Analyze(context.Background(), result.Trajectory, analysis.Options{
			Length: result.Length,
			Bins:   2 * params.HistogramBins,
		})
		Expect(err).NotTo(HaveOccurred())

		r2, _ := fine.PairCorrelation.Peak()
		Expect(r2).To(BeNumerically("~", r1, 0.1))
	})
})

var _ = Describe("Small system", func() {
	It("runs 32 particles for 1000 steps", func() {
		result, err := Simulate(context.Background(), 32, 1.0, 0.001, 1.0, 0.8, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Trajectory.Len()).To(Equal(1000))
		Expect(result.Params.TestSteps()).To(Equal(200))
		Expect(result.Summary.EnergyDrift).To(BeNumerically("<", 1e-3))

		Expect(result.Distances).To(HaveLen(1000))
		Expect(result.Distances[999]).To(HaveLen(32 * 32))

		length := result.Length
		outside := 0
		for t := 0; t < result.Trajectory.Len(); t++ {
			for _, p := range result.Trajectory.Frame(t).Positions {
				if p.X < 0 || p.X >= length || p.Y < 0 || p.Y >= length || p.Z < 0 || p.Z >= length {
					outside++
				}
			}
		}
		Expect(outside).To(BeZero())
	})

	It("rejects particle counts that are not 4a³", func() {
		_, err := Simulate(context.Background(), 30, 1.0, 0.001, 1.0, 0.8, 3)
		Expect(err).To(MatchError(dynamo.ErrParticleCount))
	})
})
