// Package potential implements the dimensionless Lennard-Jones pair
// interaction. A zero distance denotes a particle paired with itself and
// always maps to zero.
package potential

// Potential returns 4(d⁻¹² − d⁻⁶), or 0 when d == 0.
func Potential(d float64) float64 {
	if d == 0 {
		return 0
	}
	inv2 := 1 / (d * d)
	inv6 := inv2 * inv2 * inv2
	return 4 * (inv6*inv6 - inv6)
}

// ForcePrefactor returns 24(2d⁻¹⁴ − d⁻⁸), or 0 when d == 0. Multiplying it by
// the separation vector gives the pair force.
func ForcePrefactor(d float64) float64 {
	if d == 0 {
		return 0
	}
	inv2 := 1 / (d * d)
	inv8 := inv2 * inv2 * inv2 * inv2
	return 24 * (2*inv8*inv2*inv2*inv2 - inv8)
}

// Virial returns ForcePrefactor(d)·d², the pair contribution r·F.
func Virial(d float64) float64 {
	return ForcePrefactor(d) * d * d
}

// PotentialSlice writes Potential(ds[i]) into dst[i]. dst must be at least as
// long as ds; dst is returned.
func PotentialSlice(dst, ds []float64) []float64 {
	dst = dst[:len(ds)]
	for i, d := range ds {
		dst[i] = Potential(d)
	}
	return dst
}

// ForcePrefactorSlice writes ForcePrefactor(ds[i]) into dst[i].
func ForcePrefactorSlice(dst, ds []float64) []float64 {
	dst = dst[:len(ds)]
	for i, d := range ds {
		dst[i] = ForcePrefactor(d)
	}
	return dst
}
