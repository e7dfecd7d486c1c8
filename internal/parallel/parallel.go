// Package parallel provides the bounded fan-out used by CPU kernels.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of concurrent worker goroutines.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n).
// Falls back to sequential execution if parallelism is disabled or n is too
// small. f must only write to locations owned by index i.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				f(i)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// ForRows runs f over [0, rows) with each call receiving a contiguous block
// [lo, hi). Work is only split when rows*rowCost is large enough to pay for
// the goroutines.
func ForRows(rows, rowCost int, f func(lo, hi int), cfg Config) {
	total := rows * max(rowCost, 1)
	if !cfg.Enabled || cfg.NumWorkers < 2 || rows < 2 || total < 2*cfg.MinChunkSize*cfg.MinChunkSize {
		f(0, rows)
		return
	}

	workers := min(cfg.NumWorkers, rows)
	block := (rows + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < rows; lo += block {
		hi := min(lo+block, rows)
		g.Go(func() error {
			f(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
