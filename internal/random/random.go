// Package random provides the explicit, reseedable pseudo-random source used
// for parameter initialization, data splitting and batch shuffling.
//
// There is no package-level generator: every randomized call
// takes a *Rand, so two runs with the same seed and the same call order
// produce the same stream.
package random

import "math"

// Multiplier and increment of Knuth's MMIX linear congruential generator.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// Rand is a 64-bit linear congruential generator with a Box–Muller normal
// sampler on top of it.
//
// Rand is not safe for concurrent use.
type Rand struct {
	state     uint64
	spare     float64
	haveSpare bool
}

// New returns a generator seeded with seed.
func New(seed int64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed resets the generator to the state derived from seed and drops any
// cached normal sample.
func (r *Rand) Seed(seed int64) {
	//nolint:gosec // G115: reinterpreting the seed bits is intended
	r.state = uint64(seed)
	r.haveSpare = false
	// Discard the first output so that small seeds do not start near zero.
	r.Uint64()
}

// Uint64 returns the next raw 64-bit value.
//
// The low bits of an LCG have short periods, so the output is the state
// with its high half folded into the low half.
func (r *Rand) Uint64() uint64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	x := r.state
	return x ^ (x >> 32)
}

// Int63 returns a non-negative 63-bit integer. Together with Seed and
// Uint64 it makes *Rand a math/rand.Source64.
func (r *Rand) Int63() int64 {
	//nolint:gosec // G115: masked to 63 bits
	return int64(r.Uint64() >> 1)
}

// Float64 returns a uniform value in [0, 1).
func (r *Rand) Float64() float64 {
	// 53 high bits, the precision of a float64 mantissa.
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Uniform returns a uniform value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int(r.Float64() * float64(n))
}

// Normal returns a sample from N(mean, stddev²) using the Box–Muller
// transform. Samples are produced in pairs; the second one is cached.
func (r *Rand) Normal(mean, stddev float64) float64 {
	if r.haveSpare {
		r.haveSpare = false
		return mean + stddev*r.spare
	}
	u1 := r.Float64()
	for u1 == 0 {
		u1 = r.Float64()
	}
	u2 := r.Float64()
	radius := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	r.spare = radius * math.Sin(theta)
	r.haveSpare = true
	return mean + stddev*radius*math.Cos(theta)
}

// Shuffle permutes n elements with the Fisher–Yates algorithm, calling swap
// for each exchange.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Perm returns a random permutation of [0, n).
func (r *Rand) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}
