package battle

import "math/rand"

// Stream is a deterministic uniform draw source. The same seed always yields
// the same sequence of draws, across calls and across processes; it is the
// only source of nondeterminism in the core.
type Stream struct {
	r *rand.Rand
}

// NewStream creates a draw stream from an integer seed.
func NewStream(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))} // #nosec G404 -- deterministic simulation stream
}

// Next returns the next draw in [0, 1).
func (s *Stream) Next() float64 {
	return s.r.Float64()
}
