package analysis

import (
	"math"
	"testing"
)

func TestNewPairHistogram(t *testing.T) {
	length := 4.0
	h := NewPairHistogram(10, length)

	if h.Bins() != 10 || len(h.Edges) != 11 {
		t.Fatalf("expected 10 bins and 11 edges, got %d and %d", h.Bins(), len(h.Edges))
	}
	if h.Edges[0] != 0 {
		t.Errorf("first edge = %v, want 0", h.Edges[0])
	}
	if math.Abs(h.Edges[10]-math.Sqrt(3)*2) > 1e-12 {
		t.Errorf("last edge = %v, want %v", h.Edges[10], math.Sqrt(3)*2)
	}
	if math.Abs(h.BinWidth()-math.Sqrt(3)*2/10) > 1e-12 {
		t.Errorf("bin width = %v", h.BinWidth())
	}
}

func TestHistogramAdd(t *testing.T) {
	h := NewPairHistogram(4, 2/math.Sqrt(3)*2) // edges 0, 0.5, 1, 1.5, 2
	h.Add([]float64{0, 0.1, 0.6, 0.6, 1.2, 1.9, 2.5})

	want := []float64{1, 2, 1, 1}
	for k, c := range h.Counts {
		if c != want[k] {
			t.Errorf("bin %d: count %v, want %v", k, c, want[k])
		}
	}
	if h.Total() != 5 {
		t.Errorf("total = %v, want 5 (zero and out-of-range dropped)", h.Total())
	}
}

func TestHistogramMerge(t *testing.T) {
	a := NewPairHistogram(4, 3)
	b := NewPairHistogram(4, 3)
	a.Add([]float64{0.2, 1.0})
	b.Add([]float64{0.2})
	a.Merge(b)

	if a.Total() != 3 || a.Counts[0] != 2 {
		t.Errorf("unexpected merged counts %v", a.Counts)
	}
}

func TestHistogramNormalize(t *testing.T) {
	length := 3.0
	n, frames := 4, 2
	h := NewPairHistogram(5, length)
	h.Counts[2] = 8

	values := h.Normalize(n, frames, length)

	r := h.Edges[3]
	want := 8.0 / 4 * 2 * 27 / (4 * 3 * 4 * math.Pi * h.BinWidth() * r * r)
	if math.Abs(values[2]-want) > 1e-12 {
		t.Errorf("g = %v, want %v", values[2], want)
	}
	if values[0] != 0 || values[4] != 0 {
		t.Errorf("empty bins should normalize to 0: %v", values)
	}

	pr, pg := h.Peak()
	if pr != r || pg != values[2] {
		t.Errorf("Peak = (%v, %v), want (%v, %v)", pr, pg, r, values[2])
	}
}

func TestHistogramNormalizeDegenerate(t *testing.T) {
	h := NewPairHistogram(3, 1)
	h.Counts[0] = 1
	for _, v := range h.Normalize(1, 10, 1) {
		if v != 0 {
			t.Fatal("single particle should give zero g(r)")
		}
	}
}
