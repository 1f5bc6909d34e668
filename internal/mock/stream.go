// Package mock synthesizes realistic record values for extracted entities.
// All randomness flows through a single seeded stream threaded across the
// whole batch, so a fixed seed reproduces byte-identical output.
package mock

import (
	"math/rand"

	"github.com/google/uuid"
)

// Stream is the shared pseudo-random source for one generation run. Every
// synthesize call advances it; nothing else may.
type Stream struct {
	rand    *rand.Rand
	counter int
}

// NewStream returns a stream seeded for reproducible output.
func NewStream(seed int64) *Stream {
	return &Stream{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Intn draws an int in [0, n). n <= 0 yields 0 without advancing.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rand.Intn(n)
}

// IntBetween draws an int in [min, max].
func (s *Stream) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rand.Intn(max-min+1)
}

// Chance draws once and reports whether the draw fell under p.
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return s.rand.Float64() < p
}

// Pick returns a uniformly drawn element of choices.
func (s *Stream) Pick(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[s.rand.Intn(len(choices))]
}

// NextCounter returns a monotonically increasing sequence number, used to
// keep values like email addresses unique across a run.
func (s *Stream) NextCounter() int {
	s.counter++
	return s.counter
}

// UUID builds a version 4 UUID from stream bytes, so identifiers stay
// reproducible under a fixed seed.
func (s *Stream) UUID() string {
	var b [16]byte
	_, _ = s.rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}
