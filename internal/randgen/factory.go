package randgen

import (
	"fmt"
	"strings"

	"github.com/merkator/randgen/internal/well512"
)

const (
	// FastBufferSize is the buffer size of Well512-backed engines.
	FastBufferSize = 1024
	// SecureBufferSize is the buffer size of crypto/rand-backed engines.
	SecureBufferSize = 8 * 1024
)

// Profile names a provider/buffer combination.
type Profile string

const (
	ProfileFast   Profile = "fast"
	ProfileSecure Profile = "secure"
)

// ParseProfile accepts "fast" or "secure", case-insensitively.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileFast, ProfileSecure:
		return p, nil
	default:
		return "", argError("ParseProfile", "unknown profile %q", s)
	}
}

// NewFast returns a Well512 engine seeded from Shared. Good enough for
// simulations; not secure.
func NewFast() *Engine {
	src := well512.New(Shared())
	return newEngine(src.Generate, FastBufferSize/4)
}

// NewFastSeeded returns a Well512 engine whose output depends only on seed.
func NewFastSeeded(seed int64) *Engine {
	src := well512.NewSeeded(seed)
	return newEngine(src.Generate, FastBufferSize/4)
}

// NewSecure returns an engine backed by the operating system's CSPRNG.
func NewSecure() *Engine {
	return newEngine(wordsFromBytes(SecureBytes, SecureBufferSize), SecureBufferSize/4)
}

// NewDefault returns the general-purpose engine, currently NewSecure.
func NewDefault() *Engine {
	return NewSecure()
}

// NewDefaultSeeded would return a reproducible general-purpose engine.
// There is no seeded counterpart of the secure source, so it always fails;
// use NewFastSeeded for reproducible sequences.
func NewDefaultSeeded(seed int64) (*Engine, error) {
	return nil, fmt.Errorf("%w: seeded default engine (seed %d)", ErrUnsupported, seed)
}

// Build constructs an engine for profile p. A zero seed means unseeded and
// a zero bufferSize selects the profile default. Fast engines also return
// their Well512 source so callers can snapshot it next to the engine.
func Build(p Profile, seed int64, bufferSize int) (*Engine, *well512.Source, error) {
	switch p {
	case ProfileFast:
		if bufferSize == 0 {
			bufferSize = FastBufferSize
		}
		var src *well512.Source
		if seed != 0 {
			src = well512.NewSeeded(seed)
		} else {
			src = well512.New(Shared())
		}
		e, err := New(src.Generate, bufferSize)
		if err != nil {
			return nil, nil, err
		}
		return e, src, nil

	case ProfileSecure:
		if seed != 0 {
			_, err := NewDefaultSeeded(seed)
			return nil, nil, err
		}
		if bufferSize == 0 {
			bufferSize = SecureBufferSize
		}
		e, err := NewFromBytes(SecureBytes, bufferSize)
		if err != nil {
			return nil, nil, err
		}
		return e, nil, nil

	default:
		return nil, nil, argError("Build", "unknown profile %q", p)
	}
}
