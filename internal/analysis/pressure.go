package analysis

// Pressure is the virial pressure density·(T + virial/(12N)), where virial
// is Σ_{i≠j} ForcePrefactor(d)·d² over ordered pairs.
func Pressure(n int, density, temperature, virial float64) float64 {
	return density * (temperature + virial/(12*float64(n)))
}

// PressureSeries applies Pressure to every frame's virial.
func PressureSeries(n int, density, temperature float64, virial []float64) []float64 {
	out := make([]float64, len(virial))
	for i, w := range virial {
		out[i] = Pressure(n, density, temperature, w)
	}
	return out
}

// InstantaneousTemperature is 2KE/((N-1)·dim) from equipartition.
func InstantaneousTemperature(kinetic float64, n, dim int) float64 {
	if n < 2 || dim <= 0 {
		return 0
	}
	return 2 * kinetic / (float64(n-1) * float64(dim))
}
