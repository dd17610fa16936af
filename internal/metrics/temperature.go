package metrics

import (
	"github.com/san-kum/ljsim/internal/dynamo"
)

// Temperature is the running mean of the instantaneous temperature
// 2KE/((N-1)·D).
type Temperature struct {
	name    string
	dim     int
	sum     float64
	samples int
}

func NewTemperature(dim int) *Temperature {
	return &Temperature{
		name: "temperature",
		dim:  dim,
	}
}

func (m *Temperature) Name() string {
	return m.name
}

func (m *Temperature) Observe(s dynamo.Sample) {
	n := s.Frame.Len()
	if n < 2 || m.dim <= 0 {
		return
	}
	m.sum += 2 * s.Kinetic / (float64(n-1) * float64(m.dim))
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.sum = 0
	m.samples = 0
}
