package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k| for k in [0, M/2) where X is the FFT of the
// mean-removed series zero-padded to the next power of two M.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	m := nextPow2(len(series))
	mean := stat.Mean(series, nil)

	padded := make([]float64, m)
	for i, v := range series {
		padded[i] = v - mean
	}

	coeffs := fft.FFTReal(padded)
	ps := make([]float64, m/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the largest non-DC component of
// a spectrum computed from samples spaced dt apart.
func DominantFrequency(ps []float64, samples int, dt float64) float64 {
	if len(ps) < 2 || samples < 2 || dt <= 0 {
		return 0
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	m := nextPow2(samples)
	return float64(best) / (float64(m) * dt)
}

func nextPow2(n int) int {
	m := 1
	for m < n {
		m <<= 1
	}
	return m
}
