package meshmatch

import (
	"math/rand"

	"github.com/banshee-data/pickplace.report/internal/timeutil"
)

// Sampler picks three vertex indices in [0, n). Implementations may repeat
// an index. n is always positive.
type Sampler interface {
	Sample(n int) [3]int
}

// RandomSampler draws indices uniformly with replacement.
type RandomSampler struct {
	RNG *rand.Rand
}

// NewRandomSampler returns a sampler seeded with seed.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{RNG: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededSampler returns a sampler seeded from the wall clock.
func NewTimeSeededSampler() *RandomSampler {
	return NewClockSeededSampler(timeutil.RealClock{})
}

// NewClockSeededSampler returns a sampler seeded with c's current time.
func NewClockSeededSampler(c timeutil.Clock) *RandomSampler {
	return NewRandomSampler(c.Now().UnixNano())
}

// Sample implements Sampler.
func (s *RandomSampler) Sample(n int) [3]int {
	return [3]int{s.RNG.Intn(n), s.RNG.Intn(n), s.RNG.Intn(n)}
}

// FixedSampler always returns the same indices, reduced modulo n.
type FixedSampler struct {
	A, B, C int
}

// Sample implements Sampler.
func (s FixedSampler) Sample(n int) [3]int {
	return [3]int{wrap(s.A, n), wrap(s.B, n), wrap(s.C, n)}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
