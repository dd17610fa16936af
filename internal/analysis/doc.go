// Package analysis turns a finished trajectory into observables.
//
// Everything here is derived from the stored frames alone:
//
//   - [Analyze]: per-frame kinetic energy, potential energy and virial, plus
//     the pair correlation histogram, computed over frames in parallel
//   - [Histogram]: g(r) binned up to the half body diagonal of the box
//   - [Pressure]: virial pressure from the pair virial
//   - [PowerSpectrum]: spectrum of an energy series
//   - [Summarize]: time averages of a run
//
// # Pair correlation
//
// Distances are counted for every ordered pair, so each unordered pair
// lands in the histogram twice per frame. [Histogram.Normalize] divides that
// back out:
//
//	g(r) = count/(2·frames) · 2L³ / (N(N-1)·4π·Δr·r²)
//
// with r the right edge of the bin.
package analysis
