package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBins matches the resolution used for g(r) throughout.
const DefaultBins = 1000

// MaxPairDistance is the largest minimum-image distance in a cubic box of
// side length: half the body diagonal.
func MaxPairDistance(length float64) float64 {
	return math.Sqrt(3) * length / 2
}

// Histogram is a fixed-width histogram over [Edges[0], Edges[len-1]].
// Values is empty until Normalize is called.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
	Values []float64 `json:"values,omitempty"`
	width  float64
}

// NewPairHistogram creates bins of equal width covering [0, √3·L/2].
func NewPairHistogram(bins int, length float64) *Histogram {
	if bins <= 0 {
		bins = DefaultBins
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, 0, MaxPairDistance(length))
	return &Histogram{
		Edges:  edges,
		Counts: make([]float64, bins),
		width:  edges[1] - edges[0],
	}
}

func (h *Histogram) Bins() int { return len(h.Counts) }

// BinWidth returns Δr.
func (h *Histogram) BinWidth() float64 { return h.width }

// Add counts every nonzero distance. The last bin is closed on the right;
// values outside the edges are dropped.
func (h *Histogram) Add(dists []float64) {
	lo, hi := h.Edges[0], h.Edges[len(h.Edges)-1]
	last := len(h.Counts) - 1
	for _, d := range dists {
		if d == 0 || d < lo || d > hi {
			continue
		}
		k := int((d - lo) / h.width)
		if k > last {
			k = last
		}
		h.Counts[k]++
	}
}

// Merge adds the counts of other, which must have identical edges.
func (h *Histogram) Merge(other *Histogram) {
	floats.Add(h.Counts, other.Counts)
}

// Total returns the number of counted distances.
func (h *Histogram) Total() float64 { return floats.Sum(h.Counts) }

// Normalize converts counts into g(r) for n particles observed over frames
// frames in a box of side length, and returns the values.
func (h *Histogram) Normalize(n, frames int, length float64) []float64 {
	h.Values = make([]float64, len(h.Counts))
	if n < 2 || frames <= 0 {
		return h.Values
	}
	norm := 2 * length * length * length / (float64(n) * float64(n-1) * 4 * math.Pi * h.width)
	for k, c := range h.Counts {
		r := h.Edges[k+1]
		h.Values[k] = c / (2 * float64(frames)) * norm / (r * r)
	}
	return h.Values
}

// Radii returns the right edge of every bin, the r each value belongs to.
func (h *Histogram) Radii() []float64 {
	return append([]float64(nil), h.Edges[1:]...)
}

// Peak returns the radius and height of the largest normalized value.
func (h *Histogram) Peak() (r, g float64) {
	if len(h.Values) == 0 {
		return 0, 0
	}
	k := floats.MaxIdx(h.Values)
	return h.Edges[k+1], h.Values[k]
}
