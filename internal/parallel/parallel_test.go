package parallel

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		Sequential(),
		{Enabled: true, NumWorkers: 3, MinChunkSize: 1},
		{Enabled: true, NumWorkers: 0, MinChunkSize: 0},
	} {
		n := 1000
		hits := make([]int32, n)
		For(n, func(i int) { atomic.AddInt32(&hits[i], 1) }, cfg)
		for i, h := range hits {
			require.Equal(t, int32(1), h, "index %d with %+v", i, cfg)
		}
	}
}

func TestForChunksCoverRange(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	var (
		mu     sync.Mutex
		ranges [][2]int
	)
	ForChunks(103, func(s, e int) {
		mu.Lock()
		ranges = append(ranges, [2]int{s, e})
		mu.Unlock()
	}, cfg)

	covered := 0
	for _, r := range ranges {
		assert.Less(t, r[0], r[1])
		assert.GreaterOrEqual(t, r[1]-r[0], 10)
		covered += r[1] - r[0]
	}
	assert.Equal(t, 103, covered)
	assert.Len(t, ranges, 4)
}

func TestSmallWorkRunsSequentially(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}
	calls := 0
	ForChunks(100, func(s, e int) {
		calls++
		assert.Equal(t, 0, s)
		assert.Equal(t, 100, e)
	}, cfg)
	assert.Equal(t, 1, calls)
}

func TestForChunksErrReturnsLowestChunk(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	errLow := errors.New("low")
	errHigh := errors.New("high")

	var ran atomic.Int32
	err := ForChunksErr(8, func(s, _ int) error {
		ran.Add(1)
		switch s {
		case 2:
			return errLow
		case 6:
			return errHigh
		}
		return nil
	}, cfg)
	assert.ErrorIs(t, err, errLow)
	assert.Equal(t, int32(4), ran.Load())

	assert.NoError(t, ForChunksErr(0, func(int, int) error { return errLow }, cfg))
}
