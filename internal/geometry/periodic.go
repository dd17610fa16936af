// Package geometry computes minimum-image separations in a cubic box with
// periodic boundaries.
//
// Pair buffers are row-major N×N: entry i*N+j holds the vector from
// particle j to particle i. The diagonal is the zero vector and
// vecs[j*N+i] is the exact negation of vecs[i*N+j].
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoxLength returns the side of a cube holding n particles at the given
// number density in dim dimensions.
func BoxLength(n int, density float64, dim int) float64 {
	return math.Pow(float64(n)/density, 1/float64(dim))
}

// mod is the floored modulo: the result has the sign of length.
func mod(x, length float64) float64 {
	r := math.Mod(x, length)
	if r < 0 {
		r += length
	}
	return r
}

func wrap(x, length float64) float64 {
	r := mod(x, length)
	// r+length can round up to length for tiny negative r.
	if r >= length {
		return 0
	}
	return r
}

// Wrap maps p into [0, length) component-wise.
func Wrap(p r3.Vec, length float64) r3.Vec {
	return r3.Vec{X: wrap(p.X, length), Y: wrap(p.Y, length), Z: wrap(p.Z, length)}
}

func image(d, length float64) float64 {
	half := length / 2
	return mod(d+half, length) - half
}

// MinimumImage returns the shortest periodic vector from pj to pi,
// ((pi − pj + L/2) mod L) − L/2 per component.
func MinimumImage(pi, pj r3.Vec, length float64) r3.Vec {
	return r3.Vec{
		X: image(pi.X-pj.X, length),
		Y: image(pi.Y-pj.Y, length),
		Z: image(pi.Z-pj.Z, length),
	}
}

// Pairs fills vecs and dists, both of length N², for every ordered pair.
// Each unordered pair is computed once and mirrored.
func Pairs(positions []r3.Vec, length float64, vecs []r3.Vec, dists []float64) {
	n := len(positions)
	for i := 0; i < n; i++ {
		vecs[i*n+i] = r3.Vec{}
		dists[i*n+i] = 0
		for j := i + 1; j < n; j++ {
			v := MinimumImage(positions[i], positions[j], length)
			d := r3.Norm(v)
			vecs[i*n+j] = v
			vecs[j*n+i] = r3.Scale(-1, v)
			dists[i*n+j] = d
			dists[j*n+i] = d
		}
	}
}

// Distances fills dst (length N²) with scalar minimum-image distances.
func Distances(positions []r3.Vec, length float64, dst []float64) {
	n := len(positions)
	for i := 0; i < n; i++ {
		dst[i*n+i] = 0
		for j := i + 1; j < n; j++ {
			d := r3.Norm(MinimumImage(positions[i], positions[j], length))
			dst[i*n+j] = d
			dst[j*n+i] = d
		}
	}
}
