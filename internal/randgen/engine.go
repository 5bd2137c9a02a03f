// Package randgen turns a pluggable entropy provider into integers,
// floating-point values and distribution samples.
//
// An Engine keeps a fixed-size buffer of 32-bit words that it drains from
// the highest index down and refills through its provider when exhausted.
// Draws therefore come out in the reverse of the order the provider wrote
// them. Sub-word draws (Bool, Byte, Uint16) are served from caches so that a
// single word yields 32 bools, 4 bytes or 2 shorts.
//
// An Engine is not safe for concurrent use. Wrap it in a Locked, or use
// Shared, when several goroutines need one generator.
package randgen

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Engine is a buffered word engine. The zero value is not usable; create
// one with New, NewFromBytes or one of the profile factories.
type Engine struct {
	fill      WordProvider
	buf       []uint32
	cursor    int // unconsumed words are buf[:cursor]
	refilling bool
	refills   uint64

	// Sentinel-bit caches: the payload sits in the low bits and a single
	// marker bit above it shows how much payload is left.
	bitCache   uint32
	byteCache  uint32
	shortCache uint32

	gaussSpare float64 // NaN when no spare deviate is pending
}

// New creates an engine with a bufferSize-byte word buffer filled by fill.
// bufferSize must be at least 8 and divisible by 4.
func New(fill WordProvider, bufferSize int) (*Engine, error) {
	if err := checkBufferSize(bufferSize); err != nil {
		return nil, err
	}
	if fill == nil {
		return nil, argError("New", "nil provider")
	}
	return newEngine(fill, bufferSize/4), nil
}

// NewFromBytes creates an engine whose provider fills raw bytes. The bytes
// are decoded into the word buffer in little-endian order.
func NewFromBytes(fill ByteProvider, bufferSize int) (*Engine, error) {
	if err := checkBufferSize(bufferSize); err != nil {
		return nil, err
	}
	if fill == nil {
		return nil, argError("NewFromBytes", "nil provider")
	}
	return newEngine(wordsFromBytes(fill, bufferSize), bufferSize/4), nil
}

// wordsFromBytes adapts fill to a word provider through a scratch buffer of
// bufferSize bytes.
func wordsFromBytes(fill ByteProvider, bufferSize int) WordProvider {
	scratch := make([]byte, bufferSize)
	return func(words []uint32) {
		fill(scratch)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(scratch[4*i:])
		}
	}
}

func newEngine(fill WordProvider, words int) *Engine {
	return &Engine{
		fill:       fill,
		buf:        make([]uint32, words),
		gaussSpare: math.NaN(),
	}
}

func checkBufferSize(n int) error {
	if n < 8 || n%4 != 0 {
		return argError("New", "buffer size %d must be >= 8 and a multiple of 4", n)
	}
	return nil
}

// BufferSize returns the size of the word buffer in bytes.
func (e *Engine) BufferSize() int {
	return len(e.buf) * 4
}

// Refills returns how many times the provider has been invoked.
func (e *Engine) Refills() uint64 {
	return e.refills
}

func (e *Engine) refill() {
	if e.refilling {
		panic(ErrReentered)
	}
	e.refilling = true
	defer func() { e.refilling = false }()
	e.fill(e.buf)
	e.refills++
}

// take reserves n words and returns the index of the first one. The cursor
// is parked at zero while the provider runs so a panicking or reentrant
// provider leaves the engine consistent.
func (e *Engine) take(n int) int {
	i := e.cursor - n
	if i < 0 {
		e.cursor = 0
		e.refill()
		i = len(e.buf) - n
	}
	e.cursor = i
	return i
}

// Uint32 returns the next raw word.
func (e *Engine) Uint32() uint32 {
	return e.buf[e.take(1)]
}

// Int32 returns the next raw word reinterpreted as signed.
func (e *Engine) Int32() int32 {
	return int32(e.Uint32())
}

// Uint64 returns two adjacent words; the lower-indexed word is the high half.
func (e *Engine) Uint64() uint64 {
	i := e.take(2)
	return uint64(e.buf[i])<<32 | uint64(e.buf[i+1])
}

// Int64 returns Uint64 reinterpreted as signed.
func (e *Engine) Int64() int64 {
	return int64(e.Uint64())
}

// Bool returns one bit; 32 calls consume one word.
func (e *Engine) Bool() bool {
	c := e.bitCache
	if c > 1 {
		e.bitCache = c >> 1
		return c&1 != 0
	}
	c = e.Uint32()
	e.bitCache = c>>1 | 0x80000000
	return c&1 != 0
}

// Byte returns eight bits; 4 calls consume one word, low byte first.
func (e *Engine) Byte() byte {
	c := e.byteCache
	if c >= 0x100 {
		e.byteCache = c >> 8
		return byte(c)
	}
	c = e.Uint32()
	e.byteCache = c>>8 | 0x01000000
	return byte(c)
}

// Int8 returns Byte reinterpreted as signed.
func (e *Engine) Int8() int8 {
	return int8(e.Byte())
}

// Uint16 returns sixteen bits; 2 calls consume one word, low half first.
func (e *Engine) Uint16() uint16 {
	c := e.shortCache
	if c >= 0x10000 {
		e.shortCache = c >> 16
		return uint16(c)
	}
	c = e.Uint32()
	e.shortCache = c>>16 | 0x00010000
	return uint16(c)
}

// Int16 returns Uint16 reinterpreted as signed.
func (e *Engine) Int16() int16 {
	return int16(e.Uint16())
}

// Bytes fills p straight from the word buffer viewed as little-endian
// bytes, refilling as often as needed. It bypasses the sub-word caches.
// A word that is only partly copied is discarded.
func (e *Engine) Bytes(p []byte) {
	avail := e.cursor * 4
	for len(p) > avail {
		copyWordBytes(p[:avail], e.buf, 0)
		p = p[avail:]
		e.cursor = 0
		e.refill()
		avail = len(e.buf) * 4
	}
	avail -= len(p)
	copyWordBytes(p, e.buf, avail)
	e.cursor = avail / 4
}

// Read implements io.Reader. It always fills p and never fails.
func (e *Engine) Read(p []byte) (int, error) {
	e.Bytes(p)
	return len(p), nil
}

// copyWordBytes copies len(dst) bytes of the little-endian byte view of
// words, starting at byte offset off.
func copyWordBytes(dst []byte, words []uint32, off int) {
	n := 0
	for ; n < len(dst) && (off+n)&3 != 0; n++ {
		dst[n] = wordByte(words, off+n)
	}
	for ; len(dst)-n >= 4; n += 4 {
		binary.LittleEndian.PutUint32(dst[n:], words[(off+n)>>2])
	}
	for ; n < len(dst); n++ {
		dst[n] = wordByte(words, off+n)
	}
}

func wordByte(words []uint32, pos int) byte {
	return byte(words[pos>>2] >> (8 * uint(pos&3)))
}

func (e *Engine) String() string {
	return fmt.Sprintf("randgen.Engine{words: %d, remaining: %d, refills: %d}", len(e.buf), e.cursor, e.refills)
}
