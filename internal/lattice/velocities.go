package lattice

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxwellBoltzmann draws n velocities whose components are independent
// normals with mean 0 and variance temperature.
func MaxwellBoltzmann(n int, temperature float64, src rand.Source) []r3.Vec {
	dist := distuv.Normal{Mu: 0, Sigma: math.Sqrt(temperature), Src: src}

	vs := make([]r3.Vec, n)
	for i := range vs {
		vs[i] = r3.Vec{X: dist.Rand(), Y: dist.Rand(), Z: dist.Rand()}
	}
	return vs
}

// RemoveDrift subtracts the mean velocity so total momentum is zero.
func RemoveDrift(vs []r3.Vec) {
	if len(vs) == 0 {
		return
	}
	var mean r3.Vec
	for _, v := range vs {
		mean = r3.Add(mean, v)
	}
	mean = r3.Scale(1/float64(len(vs)), mean)
	for i := range vs {
		vs[i] = r3.Sub(vs[i], mean)
	}
}
