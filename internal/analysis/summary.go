package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds time averages over a production run.
type Summary struct {
	MeanKinetic     float64 `json:"mean_kinetic"`
	MeanPotential   float64 `json:"mean_potential"`
	MeanTotal       float64 `json:"mean_total"`
	MeanPressure    float64 `json:"mean_pressure"`
	MeanTemperature float64 `json:"mean_temperature"`
	// EnergyDrift is the largest |E(t)-E(0)|/|E(0)| over the run.
	EnergyDrift float64 `json:"energy_drift"`
	PeakRadius  float64 `json:"peak_radius"`
	PeakHeight  float64 `json:"peak_height"`
}

// Summarize averages the series of a report. pressure may be nil.
func Summarize(r *Report, pressure []float64, n, dim int) Summary {
	var s Summary
	if len(r.Kinetic) == 0 {
		return s
	}
	total := TotalSeries(r.Kinetic, r.Potential)

	s.MeanKinetic = stat.Mean(r.Kinetic, nil)
	s.MeanPotential = stat.Mean(r.Potential, nil)
	s.MeanTotal = stat.Mean(total, nil)
	if len(pressure) > 0 {
		s.MeanPressure = stat.Mean(pressure, nil)
	}
	s.MeanTemperature = InstantaneousTemperature(s.MeanKinetic, n, dim)

	if e0 := total[0]; e0 != 0 {
		for _, e := range total {
			s.EnergyDrift = math.Max(s.EnergyDrift, math.Abs(e-e0)/math.Abs(e0))
		}
	}
	if r.PairCorrelation != nil {
		s.PeakRadius, s.PeakHeight = r.PairCorrelation.Peak()
	}
	return s
}
