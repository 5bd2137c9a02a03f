package randgen

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestInt32nRejectsBiasedBytes(t *testing.T) {
	// Byte draws 0xFF, 0, 1, 2. 0xFF is above the usable range for 3 outcomes.
	e := fixture(t, 0x020100FF, 0)
	for want := int32(0); want < 3; want++ {
		if got := e.Int32n(3); got != want {
			t.Fatalf("Int32n(3) = %d, want %d", got, want)
		}
	}
}

func TestInt32nFullByteIsRaw(t *testing.T) {
	e := fixture(t, 0x00FF7F80, 0)
	for _, want := range []int32{0x80, 0x7F, 0xFF, 0x00} {
		if got := e.Int32n(256); got != want {
			t.Fatalf("Int32n(256) = %#x, want %#x", got, want)
		}
	}
}

func TestUint32nWordPathRejectsTop(t *testing.T) {
	// 0x10001 outcomes need word draws; 0xFFFFFFFF is the one unusable value.
	e := fixture(t, 0xFFFFFFFF, 5)
	if got := e.Uint32n(0x10001); got != 5 {
		t.Fatalf("Uint32n = %d, want 5", got)
	}
}

func TestFullWidthRangesAreRaw(t *testing.T) {
	e := fixture(t, 0xDEADBEEF, 0x01234567, 0x89ABCDEF, 0)
	if got := e.Int32Range(math.MinInt32, math.MaxInt32); got != 0x5EADBEEF {
		t.Fatalf("Int32Range full = %#x", got)
	}
	want := int64(0x09ABCDEF01234567)
	if got := e.Int64Range(math.MinInt64, math.MaxInt64); got != want {
		t.Fatalf("Int64Range full = %d, want %d", got, want)
	}
}

func TestBoundedDrawsStayInRange(t *testing.T) {
	e := NewFastSeeded(42)
	for i := 0; i < 20000; i++ {
		if v := e.Int32n(10); v < 0 || v >= 10 {
			t.Fatalf("Int32n(10) = %d", v)
		}
		if v := e.Intn(1 << 40); v < 0 || v >= 1<<40 {
			t.Fatalf("Intn(2^40) = %d", v)
		}
		if v := e.Int64n(math.MaxInt64); v < 0 {
			t.Fatalf("Int64n(max) = %d", v)
		}
		if v := e.Uint64n(3 << 40); v >= 3<<40 {
			t.Fatalf("Uint64n = %d", v)
		}
		if v := e.Int32Range(-2, 2); v < -2 || v > 2 {
			t.Fatalf("Int32Range(-2, 2) = %d", v)
		}
		if v := e.Int64Range(-1<<50, 1<<50); v < -1<<50 || v > 1<<50 {
			t.Fatalf("Int64Range = %d", v)
		}
		if v := e.Int32Span(100, 7); v < 100 || v >= 107 {
			t.Fatalf("Int32Span(100, 7) = %d", v)
		}
		if v := e.Int64Span(-5, 1<<33); v < -5 || v >= -5+1<<33 {
			t.Fatalf("Int64Span = %d", v)
		}
	}
}

func TestDegenerateRanges(t *testing.T) {
	e := NewFastSeeded(1)
	for i := 0; i < 100; i++ {
		if v := e.Int32n(1); v != 0 {
			t.Fatalf("Int32n(1) = %d", v)
		}
		if v := e.Int64Range(7, 7); v != 7 {
			t.Fatalf("Int64Range(7, 7) = %d", v)
		}
		if v := e.Int32Span(math.MaxInt32-1, 1); v != math.MaxInt32-1 {
			t.Fatalf("Int32Span = %d", v)
		}
	}
}

func TestSamplerPreconditions(t *testing.T) {
	e := NewFastSeeded(1)
	cases := []struct {
		name string
		fn   func()
	}{
		{"Int32n(0)", func() { e.Int32n(0) }},
		{"Int32n(-1)", func() { e.Int32n(-1) }},
		{"Int64n(0)", func() { e.Int64n(0) }},
		{"Intn(-3)", func() { e.Intn(-3) }},
		{"Uint32n(0)", func() { e.Uint32n(0) }},
		{"Uint64n(0)", func() { e.Uint64n(0) }},
		{"Int32Range(2, 1)", func() { e.Int32Range(2, 1) }},
		{"Int64Range(2, 1)", func() { e.Int64Range(2, 1) }},
		{"Int32Span(0, 0)", func() { e.Int32Span(0, 0) }},
		{"Int32Span overflow", func() { e.Int32Span(math.MaxInt32, 1) }},
		{"Int64Span overflow", func() { e.Int64Span(math.MaxInt64-1, 2) }},
	}
	for _, tc := range cases {
		expectArgPanic(t, tc.name, tc.fn)
	}
}

// chiSquarePValue draws n samples per bucket from draw and tests the
// histogram against a uniform expectation.
func chiSquarePValue(buckets, perBucket int, draw func() int) float64 {
	obs := make([]float64, buckets)
	for i := 0; i < buckets*perBucket; i++ {
		obs[draw()]++
	}
	exp := make([]float64, buckets)
	for i := range exp {
		exp[i] = float64(perBucket)
	}
	x := stat.ChiSquare(obs, exp)
	return 1 - distuv.ChiSquared{K: float64(buckets - 1)}.CDF(x)
}

func TestSamplerUniformity(t *testing.T) {
	// Counts straddle each width boundary of the sampler.
	for i, count := range []int32{5, 127, 128, 255, 256, 257, 65535, 65536, 65537} {
		e := NewFastSeeded(int64(1000 + i))
		perBucket := 200
		if count > 1000 {
			perBucket = 20
		}
		p := chiSquarePValue(int(count), perBucket, func() int { return int(e.Int32n(count)) })
		if p < 1e-6 {
			t.Errorf("Int32n(%d): chi-square p = %g", count, p)
		}
	}
}

func TestUint64nUniformity(t *testing.T) {
	// Three outcomes spread across a 64-bit domain.
	e := NewFastSeeded(77)
	third := uint64(1) << 62
	p := chiSquarePValue(3, 10000, func() int { return int(e.Uint64n(3*third) / third) })
	if p < 1e-6 {
		t.Fatalf("Uint64n chi-square p = %g", p)
	}
}
