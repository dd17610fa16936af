package metrics

import (
	"github.com/san-kum/ljsim/internal/dynamo"
)

// Containment is the fraction of frames whose positions all lie in [0, L).
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s dynamo.Sample) {
	c.samples++
	l := s.Length
	for _, p := range s.Frame.Positions {
		if p.X < 0 || p.X >= l || p.Y < 0 || p.Y >= l || p.Z < 0 || p.Z >= l {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
