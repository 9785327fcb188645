package workload

import (
	"hash/fnv"
	"math/rand"
)

// Stream names used by Generate.
const (
	streamArrival  = "arrival"
	streamBurst    = "burst"
	streamPriority = "priority"
	streamOrder    = "order"
)

// seedStreams provides deterministic, isolated RNG instances per stream.
// Each stream is seeded with seed XOR fnv1a64(name), so drawing more values
// from one stream never shifts the values of another.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type seedStreams struct {
	seed    int64
	streams map[string]*rand.Rand
}

func newSeedStreams(seed int64) *seedStreams {
	return &seedStreams{seed: seed, streams: make(map[string]*rand.Rand)}
}

// stream returns the cached RNG for name. Never returns nil.
func (s *seedStreams) stream(name string) *rand.Rand {
	if rng, ok := s.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(s.seed ^ fnv1a64(name)))
	s.streams[name] = rng
	return rng
}

// fnv1a64 computes FNV-1a 64-bit hash of a string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
