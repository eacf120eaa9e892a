package core

import (
	"math/rand/v2"
	"strconv"
	"unicode/utf16"
)

// An Rng returns floats in [0, 1)
type Rng func() float64

const (
	groupsSeedLabel   = "groups_seed"
	knockoutSeedLabel = "ko_round_1"
)

// Creates the random stream for one purpose in a tournament.
//
// Without a seed the stream is not reproducible. With a seed the
// same (seed, discriminator) pair always yields the same stream.
func NewRng(seed *int64, discriminator string) Rng {
	if seed == nil {
		return rand.Float64
	}
	key := strconv.FormatInt(*seed, 10) + ":" + discriminator
	return mulberry32(xmur3(key))
}

// Order sensitive 32 bit string hash. Characters are mixed in
// as UTF-16 code units.
func xmur3(s string) uint32 {
	units := utf16.Encode([]rune(s))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, c := range units {
		h = (h ^ uint32(c)) * 3432918353
		h = h<<13 | h>>19
	}

	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	return h
}

func mulberry32(seed uint32) Rng {
	t := seed
	return func() float64 {
		t += 0x6d2b79f5
		x := (t ^ t>>15) * (1 | t)
		x ^= x + (x^x>>7)*(61|x)
		return float64(x^x>>14) / 4294967296
	}
}
