package randgen

import "math"

// uniform32 returns a value uniformly distributed over [0, max] without
// modulo bias. It draws from the narrowest width that covers max+1
// outcomes and rejects draws at or above the largest multiple of the
// outcome count that fits in that width.
func (e *Engine) uniform32(max uint32) uint32 {
	count := max + 1
	switch {
	case max < 0x100:
		usable := (0x100 / count) * count
		for {
			r := uint32(e.Byte())
			if r < usable {
				return r % count
			}
		}
	case max < 0x10000:
		usable := (0x10000 / count) * count
		for {
			r := uint32(e.Uint16())
			if r < usable {
				return r % count
			}
		}
	case max != math.MaxUint32:
		// 2^32 is not representable; MaxUint32/count loses at most one
		// usable multiple, which keeps the result unbiased.
		usable := (math.MaxUint32 / count) * count
		for {
			r := e.Uint32()
			if r < usable {
				return r % count
			}
		}
	default:
		return e.Uint32()
	}
}

// uniform64 is uniform32 for 64-bit domains.
func (e *Engine) uniform64(max uint64) uint64 {
	switch {
	case max <= math.MaxUint32:
		return uint64(e.uniform32(uint32(max)))
	case max != math.MaxUint64:
		count := max + 1
		usable := (math.MaxUint64 / count) * count
		for {
			r := e.Uint64()
			if r < usable {
				return r % count
			}
		}
	default:
		return e.Uint64()
	}
}

// Int32n returns a value in [0, count). It panics if count < 1.
func (e *Engine) Int32n(count int32) int32 {
	if count < 1 {
		panic(argError("Int32n", "count %d < 1", count))
	}
	return int32(e.uniform32(uint32(count - 1)))
}

// Int64n returns a value in [0, count). It panics if count < 1.
func (e *Engine) Int64n(count int64) int64 {
	if count < 1 {
		panic(argError("Int64n", "count %d < 1", count))
	}
	return int64(e.uniform64(uint64(count - 1)))
}

// Intn returns a value in [0, count). It panics if count < 1.
func (e *Engine) Intn(count int) int {
	if count < 1 {
		panic(argError("Intn", "count %d < 1", count))
	}
	return int(e.uniform64(uint64(count - 1)))
}

// Uint32n returns a value in [0, count). It panics if count is 0; use
// Uint32 for the full range.
func (e *Engine) Uint32n(count uint32) uint32 {
	if count == 0 {
		panic(argError("Uint32n", "count 0 < 1"))
	}
	return e.uniform32(count - 1)
}

// Uint64n returns a value in [0, count). It panics if count is 0.
func (e *Engine) Uint64n(count uint64) uint64 {
	if count == 0 {
		panic(argError("Uint64n", "count 0 < 1"))
	}
	return e.uniform64(count - 1)
}

// Int32Range returns a value in [start, inclusiveEnd].
func (e *Engine) Int32Range(start, inclusiveEnd int32) int32 {
	if inclusiveEnd < start {
		panic(argError("Int32Range", "end %d < start %d", inclusiveEnd, start))
	}
	return start + int32(e.uniform32(uint32(inclusiveEnd)-uint32(start)))
}

// Int64Range returns a value in [start, inclusiveEnd].
func (e *Engine) Int64Range(start, inclusiveEnd int64) int64 {
	if inclusiveEnd < start {
		panic(argError("Int64Range", "end %d < start %d", inclusiveEnd, start))
	}
	return start + int64(e.uniform64(uint64(inclusiveEnd)-uint64(start)))
}

// Int32Span returns a value in [start, start+count). start+count must not
// overflow.
func (e *Engine) Int32Span(start, count int32) int32 {
	if count < 1 {
		panic(argError("Int32Span", "count %d < 1", count))
	}
	if start > math.MaxInt32-count {
		panic(argError("Int32Span", "start %d + count %d overflows", start, count))
	}
	return start + int32(e.uniform32(uint32(count-1)))
}

// Int64Span returns a value in [start, start+count). start+count must not
// overflow.
func (e *Engine) Int64Span(start, count int64) int64 {
	if count < 1 {
		panic(argError("Int64Span", "count %d < 1", count))
	}
	if start > math.MaxInt64-count {
		panic(argError("Int64Span", "start %d + count %d overflows", start, count))
	}
	return start + int64(e.uniform64(uint64(count-1)))
}
