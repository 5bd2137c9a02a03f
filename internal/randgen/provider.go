package randgen

import (
	"crypto/rand"
	"fmt"
)

// WordProvider fills words completely with fresh random data. It is called
// once per refill and must not keep a reference to words after returning.
type WordProvider func(words []uint32)

// ByteProvider is the byte-oriented form of WordProvider.
type ByteProvider func(p []byte)

// SecureBytes fills p from the operating system's CSPRNG. A failing OS
// source is unrecoverable for a provider, so it panics.
func SecureBytes(p []byte) {
	if _, err := rand.Read(p); err != nil {
		panic(fmt.Errorf("randgen: secure source: %w", err))
	}
}
