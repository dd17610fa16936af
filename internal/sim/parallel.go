package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ljsim/internal/dynamo"
)

// Ensemble repeats one configuration over consecutive seeds.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart uint64
	// MetricFactory builds fresh metrics for each run; metrics are stateful.
	MetricFactory func() []dynamo.Metric
	// Parallel bounds concurrent runs; <= 0 means unbounded.
	Parallel int
}

func NewEnsemble(s *Simulator, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart}
}

// Run returns results in seed order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.Parallel > 0 {
		g.SetLimit(e.Parallel)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			params := e.base.params
			params.Seed = e.seedStart + uint64(idx)

			sim := New(params)
			for _, o := range e.base.observers {
				sim.AddObserver(o)
			}
			if e.MetricFactory != nil {
				for _, m := range e.MetricFactory() {
					sim.AddMetric(m)
				}
			}

			res, err := sim.Run(ctx)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
