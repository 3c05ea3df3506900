package reneel

import (
	"crypto/rand"
	"encoding/binary"
)

// SeedSource yields seeds for the executable's random number generator,
// either by cycling a fixed list indefinitely or by producing a fresh
// random seed on every call.
type SeedSource struct {
	seeds []uint32
	next  int
}

// FixedSeeds cycles through the given seeds forever
func FixedSeeds(seeds []uint32) *SeedSource {
	return &SeedSource{seeds: seeds}
}

// RandomSeeds produces a new random 32-bit seed on every call
func RandomSeeds() *SeedSource {
	return &SeedSource{}
}

// Next returns the next seed
func (s *SeedSource) Next() uint32 {
	if len(s.seeds) == 0 {
		return randomSeed()
	}
	seed := s.seeds[s.next]
	s.next = (s.next + 1) % len(s.seeds)
	return seed
}

func randomSeed() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is broken
		panic(err)
	}
	return binary.BigEndian.Uint32(buf[:])
}
