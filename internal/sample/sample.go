// Package sample turns a draw request into a wire batch. It is the single
// place where request parameters are checked, so the http, websocket, RESP
// and export front ends all reject the same inputs the same way.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/shuffle"
	"github.com/merkator/randgen/internal/wire"
)

const (
	// MaxCount bounds the values in one batch.
	MaxCount = 4096
	// MaxBytes bounds a bytes batch.
	MaxBytes = 32 * 1024
	// MaxTrials bounds Binomial's n; each trial costs one draw.
	MaxTrials = 1 << 16
)

// Largest magnitudes the engine can produce: a rate-1 exponential deviate
// is at most 53*ln(2) and a standard normal deviate at most its square
// root doubled, both rounded up. Parameters that would scale them past
// MaxFloat64 are rejected so every value in a batch is finite.
const (
	maxExpDeviate   = 37
	maxGaussDeviate = 9
)

// Request kinds.
const (
	KindInt         = "int"
	KindFloat       = "float"
	KindGaussian    = "gaussian"
	KindExponential = "exponential"
	KindBinomial    = "binomial"
	KindBool        = "bool"
	KindBytes       = "bytes"
	KindShuffle     = "shuffle"
)

var ErrUnknownKind = errors.New("sample: unknown kind")

// Request describes one batch. Fields a kind does not use are ignored.
type Request struct {
	Kind  string
	Count int

	Min, Max  int64   // int, inclusive
	Low, High float64 // float, [Low, High)

	Mean, StdDev float64 // gaussian
	Rate         float64 // exponential
	N            int     // binomial trials
	P            float64 // binomial, bool
}

// New returns a request for kind with the defaults every front end uses:
// one value, ints over [0, 100], floats over [0, 1), a standard normal,
// rate 1 and p = 0.5.
func New(kind string) Request {
	return Request{
		Kind:   kind,
		Count:  1,
		Max:    100,
		High:   1,
		StdDev: 1,
		Rate:   1,
		N:      10,
		P:      0.5,
	}
}

func rangeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", randgen.ErrArgumentRange, fmt.Sprintf(format, args...))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate reports the first parameter Draw would reject.
func (r *Request) Validate() error {
	limit := MaxCount
	if r.Kind == KindBytes {
		limit = MaxBytes
	}
	if r.Count < 1 || r.Count > limit {
		return rangeErr("count %d outside [1, %d]", r.Count, limit)
	}

	switch r.Kind {
	case KindInt:
		if r.Max < r.Min {
			return rangeErr("max %d < min %d", r.Max, r.Min)
		}
	case KindFloat:
		if !finite(r.Low) || !finite(r.High) || !(r.Low < r.High) || !finite(r.High-r.Low) {
			return rangeErr("need finite min %v < max %v", r.Low, r.High)
		}
	case KindGaussian:
		if !finite(r.Mean) {
			return rangeErr("mean %v", r.Mean)
		}
		if !finite(r.StdDev) || r.StdDev < 0 {
			return rangeErr("stddev %v", r.StdDev)
		}
		if !finite(math.Abs(r.Mean) + maxGaussDeviate*r.StdDev) {
			return rangeErr("mean %v with stddev %v overflows", r.Mean, r.StdDev)
		}
	case KindExponential:
		if !finite(r.Rate) || !(r.Rate > 0) {
			return rangeErr("rate %v must be > 0", r.Rate)
		}
		if !finite(maxExpDeviate / r.Rate) {
			return rangeErr("rate %v too small", r.Rate)
		}
	case KindBinomial:
		if r.N < 0 || r.N > MaxTrials {
			return rangeErr("n %d outside [0, %d]", r.N, MaxTrials)
		}
		if !(r.P >= 0 && r.P <= 1) {
			return rangeErr("p %v outside [0, 1]", r.P)
		}
	case KindBool:
		if !(r.P >= 0 && r.P <= 1) {
			return rangeErr("p %v outside [0, 1]", r.P)
		}
	case KindBytes, KindShuffle:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	return nil
}

// Draw validates r and fills a batch from g. Invalid requests produce an
// error batch rather than a panic inside the generator.
func (r *Request) Draw(g randgen.Generator, seq uint64) wire.Batch {
	if err := r.Validate(); err != nil {
		return wire.ErrorBatch(seq, err)
	}
	b := wire.Batch{Seq: seq}

	switch r.Kind {
	case KindInt:
		b.Kind = wire.KindInt
		b.Ints = make([]int64, r.Count)
		for i := range b.Ints {
			b.Ints[i] = g.Int64Range(r.Min, r.Max)
		}
	case KindFloat:
		b.Kind = wire.KindFloat
		b.Floats = make([]float64, r.Count)
		for i := range b.Floats {
			b.Floats[i] = g.Float64Range(r.Low, r.High)
		}
	case KindGaussian:
		b.Kind = wire.KindGaussian
		b.Floats = make([]float64, r.Count)
		for i := range b.Floats {
			b.Floats[i] = g.Normal(r.Mean, r.StdDev)
		}
	case KindExponential:
		b.Kind = wire.KindExponential
		b.Floats = make([]float64, r.Count)
		for i := range b.Floats {
			b.Floats[i] = g.ExponentialRate(r.Rate)
		}
	case KindBinomial:
		b.Kind = wire.KindInt
		b.Ints = make([]int64, r.Count)
		for i := range b.Ints {
			b.Ints[i] = int64(g.Binomial(r.N, r.P))
		}
	case KindBool:
		b.Kind = wire.KindBool
		b.Ints = make([]int64, r.Count)
		for i := range b.Ints {
			if g.Bernoulli(r.P) {
				b.Ints[i] = 1
			}
		}
	case KindBytes:
		b.Kind = wire.KindBytes
		b.Bytes = make([]byte, r.Count)
		g.Bytes(b.Bytes)
	case KindShuffle:
		b.Kind = wire.KindInt
		b.Ints = make([]int64, r.Count)
		for i := range b.Ints {
			b.Ints[i] = int64(i)
		}
		shuffle.InPlace(b.Ints, g)
	}

	b.Timestamp = wire.NanosFromMidnight()
	return b
}
