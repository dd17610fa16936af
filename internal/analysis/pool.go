package analysis

import "sync"

// DistancePool recycles N×N distance buffers between frames.
type DistancePool struct {
	pool sync.Pool
	size int
}

func NewDistancePool(particles int) *DistancePool {
	size := particles * particles
	return &DistancePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *DistancePool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put returns buf to the pool. Buffers of the wrong size are dropped.
func (p *DistancePool) Put(buf []float64) {
	if len(buf) == p.size {
		p.pool.Put(buf)
	}
}
