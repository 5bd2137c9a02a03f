// Package well512 implements the WELL512a generator: 16 words of state,
// one 32-bit output per step. It is fast and well distributed but not
// cryptographically secure.
package well512

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	stateWords = 16
	stateBytes = stateWords*4 + 4
)

// ErrBadState is returned when restoring from a malformed state blob.
var ErrBadState = errors.New("well512: bad state")

// Seeder supplies raw words for unseeded construction.
type Seeder interface {
	Uint32() uint32
}

// Source is a Well512 generator. It is not safe for concurrent use.
type Source struct {
	state [stateWords]uint32
	index int
}

// New creates a generator whose state is drawn from seeder.
func New(seeder Seeder) *Source {
	s := &Source{}
	for i := range s.state {
		s.state[i] = seeder.Uint32()
	}
	return s
}

// NewSeeded derives the state from the SHA-512 digest of the seed's
// little-endian bytes. Equal seeds always produce equal sequences.
func NewSeeded(seed int64) *Source {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(seed))
	digest := sha512.Sum512(b[:])

	s := &Source{}
	for i := range s.state {
		s.state[i] = binary.LittleEndian.Uint32(digest[4*i:])
	}
	return s
}

// Uint32 advances the generator by one step.
func (s *Source) Uint32() uint32 {
	a := s.state[s.index]
	c := s.state[(s.index+13)&15]
	b := a ^ c ^ (a << 16) ^ (c << 15)
	c = s.state[(s.index+9)&15]
	c ^= c >> 11
	a = b ^ c
	s.state[s.index] = a
	d := a ^ ((a << 5) & 0xDA442D20)
	s.index = (s.index + 15) & 15
	a = s.state[s.index]
	s.state[s.index] = a ^ b ^ d ^ (a << 2) ^ (b << 18) ^ (c << 28)
	return s.state[s.index]
}

// Generate fills words in order, one step per word.
func (s *Source) Generate(words []uint32) {
	for i := range words {
		words[i] = s.Uint32()
	}
}

// MarshalBinary encodes the 16 state words followed by the index.
func (s *Source) MarshalBinary() ([]byte, error) {
	buf := make([]byte, stateBytes)
	for i, w := range s.state {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	binary.LittleEndian.PutUint32(buf[stateWords*4:], uint32(s.index))
	return buf, nil
}

// UnmarshalBinary restores state written by MarshalBinary.
func (s *Source) UnmarshalBinary(data []byte) error {
	if len(data) != stateBytes {
		return fmt.Errorf("%w: length %d, want %d", ErrBadState, len(data), stateBytes)
	}
	index := binary.LittleEndian.Uint32(data[stateWords*4:])
	if index >= stateWords {
		return fmt.Errorf("%w: index %d", ErrBadState, index)
	}
	for i := range s.state {
		s.state[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	s.index = int(index)
	return nil
}
