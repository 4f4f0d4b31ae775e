package sim

import "math/rand"

// BitSource yields uniformly distributed bits. Implementations are not
// required to be safe for concurrent use; parallel callers must give
// each worker its own source.
type BitSource interface {
	Bit() bool
}

type randSource struct {
	rng *rand.Rand
}

// NewRandSource returns a deterministic BitSource seeded from the given
// value.
func NewRandSource(seed int64) BitSource {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Bit() bool {
	return s.rng.Int63()&1 == 1
}

// RandomVector draws an independent uniform bit for each name.
func RandomVector(names []string, src BitSource) map[string]bool {
	vec := make(map[string]bool, len(names))
	for _, name := range names {
		vec[name] = src.Bit()
	}
	return vec
}
