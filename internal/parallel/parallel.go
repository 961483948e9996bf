// Package parallel splits independent per-row work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum rows per goroutine to avoid overhead.
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

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{}
}

// chunkSize returns the number of items per goroutine, or n when the work
// should run sequentially.
func (c Config) chunkSize(n int) int {
	if !c.Enabled || c.NumWorkers <= 1 || n < 2*max(c.MinChunkSize, 1) {
		return n
	}
	return max((n+c.NumWorkers-1)/c.NumWorkers, c.MinChunkSize, 1)
}

// ForChunks calls f(start, end) for consecutive half-open ranges covering
// [0, n). Ranges never overlap, so f may write to per-index slots without
// locking.
func ForChunks(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	size := cfg.chunkSize(n)
	if size >= n {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n).
func For(n int, f func(i int), cfg Config) {
	ForChunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForChunksErr is ForChunks for fallible work. Every chunk runs to
// completion; the error of the lowest failing chunk is returned.
func ForChunksErr(n int, f func(start, end int) error, cfg Config) error {
	if n <= 0 {
		return nil
	}
	size := cfg.chunkSize(n)
	errs := make([]error, (n+size-1)/size)
	ForChunks(n, func(start, end int) {
		errs[start/size] = f(start, end)
	}, cfg)
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
