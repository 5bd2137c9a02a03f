package randgen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	stateVersion    = 1
	stateHeaderSize = 1 + 4 + 4 + 4*3 + 8
)

// ErrBadState is returned when restoring from a malformed state blob.
var ErrBadState = errors.New("randgen: bad engine state")

// MarshalBinary captures the buffer, cursor, sub-word caches and the
// pending Gaussian spare. The provider is not part of the state; restore
// the provider's own state alongside when exact replay matters.
func (e *Engine) MarshalBinary() ([]byte, error) {
	buf := make([]byte, stateHeaderSize+4*len(e.buf))
	buf[0] = stateVersion
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(e.buf)))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(e.cursor))
	binary.LittleEndian.PutUint32(buf[9:13], e.bitCache)
	binary.LittleEndian.PutUint32(buf[13:17], e.byteCache)
	binary.LittleEndian.PutUint32(buf[17:21], e.shortCache)
	binary.LittleEndian.PutUint64(buf[21:29], math.Float64bits(e.gaussSpare))
	for i, w := range e.buf {
		binary.LittleEndian.PutUint32(buf[stateHeaderSize+4*i:], w)
	}
	return buf, nil
}

// UnmarshalBinary restores state written by MarshalBinary on an engine with
// the same buffer size.
func (e *Engine) UnmarshalBinary(data []byte) error {
	if len(data) < stateHeaderSize {
		return fmt.Errorf("%w: length %d", ErrBadState, len(data))
	}
	if data[0] != stateVersion {
		return fmt.Errorf("%w: version %d", ErrBadState, data[0])
	}
	words := int(binary.LittleEndian.Uint32(data[1:5]))
	if words != len(e.buf) {
		return fmt.Errorf("%w: %d words, engine has %d", ErrBadState, words, len(e.buf))
	}
	if len(data) != stateHeaderSize+4*words {
		return fmt.Errorf("%w: length %d", ErrBadState, len(data))
	}
	cursor := int(binary.LittleEndian.Uint32(data[5:9]))
	if cursor > words {
		return fmt.Errorf("%w: cursor %d > %d", ErrBadState, cursor, words)
	}

	e.cursor = cursor
	e.bitCache = binary.LittleEndian.Uint32(data[9:13])
	e.byteCache = binary.LittleEndian.Uint32(data[13:17])
	e.shortCache = binary.LittleEndian.Uint32(data[17:21])
	e.gaussSpare = math.Float64frombits(binary.LittleEndian.Uint64(data[21:29]))
	for i := range e.buf {
		e.buf[i] = binary.LittleEndian.Uint32(data[stateHeaderSize+4*i:])
	}
	return nil
}
