// Package stdrand exposes a randgen generator through the standard library's
// math/rand and math/rand/v2 interfaces.
package stdrand

import (
	"math/rand"
	randv2 "math/rand/v2"
)

// Uint64er is the single draw the adapters need.
type Uint64er interface {
	Uint64() uint64
}

// Source adapts a generator to rand.Source64 and randv2.Source.
type Source struct {
	g Uint64er
}

var (
	_ rand.Source64 = (*Source)(nil)
	_ randv2.Source = (*Source)(nil)
)

// NewSource wraps g. The caller owns any locking g needs.
func NewSource(g Uint64er) *Source {
	return &Source{g: g}
}

// Int63 returns a non-negative 63-bit value.
func (s *Source) Int63() int64 {
	return int64(s.g.Uint64() >> 1)
}

func (s *Source) Uint64() uint64 {
	return s.g.Uint64()
}

// Seed is a no-op. Seeding belongs to the engine's provider.
func (s *Source) Seed(int64) {}

// New returns a math/rand Rand that draws from g.
func New(g Uint64er) *rand.Rand {
	return rand.New(NewSource(g))
}

// NewV2 returns a math/rand/v2 Rand that draws from g.
func NewV2(g Uint64er) *randv2.Rand {
	return randv2.New(NewSource(g))
}
