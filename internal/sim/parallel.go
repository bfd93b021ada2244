package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator for one seed.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs the same configuration over consecutive seeds.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every member concurrently. Each member owns its world, so
// no state is shared between goroutines.
//
// A failing member does not stop its siblings; only ctx does. The results
// slice always has one slot per member and keeps every partial result,
// so a member is nil only if its factory failed. The returned error is the
// first member error, if any.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	var g errgroup.Group
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			results[idx], err = s.Run(ctx, cfg)
			return err
		})
	}

	return results, g.Wait()
}
