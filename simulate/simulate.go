// Package simulate draws sample paths from a process. Each path owns its
// random source, seeded from the caller's seed, so a seed always reproduces
// the same path and concurrent paths never share state.
package simulate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotsmodel/kernel"
	"github.com/sartorproj/gotsmodel/status"
)

// Path simulates steps values continuing history.
func Path(p *kernel.Process, history []float64, steps int, seed uint64) ([]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps %d: %w", steps, status.ErrInvalidArgument)
	}
	return p.Simulate(history, steps, rand.NewSource(seed))
}

// Batch simulates one path per seed on up to GOMAXPROCS goroutines. paths[i]
// is the path for seeds[i]; the first failure cancels the remaining work.
func Batch(ctx context.Context, p *kernel.Process, history []float64, steps int, seeds []uint64) ([][]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps %d: %w", steps, status.ErrInvalidArgument)
	}
	paths := make([][]float64, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := Path(p, history, steps, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Moments returns the cross-sectional mean and variance of paths at every
// step.
func Moments(paths [][]float64) (mean, variance []float64) {
	if len(paths) == 0 {
		return nil, nil
	}
	steps := len(paths[0])
	mean = make([]float64, steps)
	variance = make([]float64, steps)
	col := make([]float64, len(paths))
	for h := 0; h < steps; h++ {
		for i, path := range paths {
			col[i] = path[h]
		}
		mean[h], variance[h] = stat.MeanVariance(col, nil)
	}
	return mean, variance
}
