package randgen

import (
	"fmt"
	"math"
)

const (
	float64Count = 1 << 53
	float64Mask  = float64Count - 1
	float32Count = 1 << 24
	float32Mask  = float32Count - 1
)

// Float64 returns a value in [0, 1) built from the low 53 bits of a 64-bit
// draw. All-zero input yields exactly 0.
func (e *Engine) Float64() float64 {
	return float64(e.Uint64()&float64Mask) * (1.0 / float64Count)
}

// Float32 returns a value in [0, 1) built from the low 24 bits of a word.
func (e *Engine) Float32() float32 {
	return float32(e.Uint32()&float32Mask) * (1.0 / float32Count)
}

// openUnit returns a value in (0, 1]. Logarithmic transforms use it so that
// they never see ln(0).
func (e *Engine) openUnit() float64 {
	return 1 - e.Float64()
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Float64Range returns a value in [start, exclusiveEnd). Rounding can land
// the scaled value on exclusiveEnd, so such draws are repeated.
func (e *Engine) Float64Range(start, exclusiveEnd float64) float64 {
	if !(start < exclusiveEnd) || !finite(start) || !finite(exclusiveEnd) || !finite(exclusiveEnd-start) {
		panic(argError("Float64Range", "need finite start %v < end %v", start, exclusiveEnd))
	}
	for {
		// The conversion forces rounding here and prevents a fused multiply-add.
		r := float64((exclusiveEnd-start)*e.Float64()) + start
		if r < exclusiveEnd {
			return r
		}
	}
}

// Float64Span returns start + length*Float64(). There is no retry, so
// rounding can make the result equal start+length.
func (e *Engine) Float64Span(start, length float64) float64 {
	if !(length > 0) || !finite(start) || !finite(length) {
		panic(argError("Float64Span", "need finite start %v and length %v > 0", start, length))
	}
	return float64(length*e.Float64()) + start
}

// Float32Range returns a value in [start, exclusiveEnd).
func (e *Engine) Float32Range(start, exclusiveEnd float32) float32 {
	s, x := float64(start), float64(exclusiveEnd)
	if !(start < exclusiveEnd) || !finite(s) || !finite(x) || !finite(float64(exclusiveEnd-start)) {
		panic(argError("Float32Range", "need finite start %v < end %v", start, exclusiveEnd))
	}
	for {
		r := float32(float32((exclusiveEnd-start)*e.Float32()) + start)
		if r < exclusiveEnd {
			return r
		}
	}
}

// Float32Span returns start + length*Float32(). Like Float64Span, the
// result can round up to start+length.
func (e *Engine) Float32Span(start, length float32) float32 {
	if !(length > 0) || !finite(float64(start)) || !finite(float64(length)) {
		panic(argError("Float32Span", "need finite start %v and length %v > 0", start, length))
	}
	return float32(float32(length*e.Float32()) + start)
}

// Gaussian returns a standard normal deviate. Deviates are produced in
// pairs by the Box-Muller transform; every second call returns the cached
// partner without touching the buffer.
func (e *Engine) Gaussian() float64 {
	if spare := e.gaussSpare; !math.IsNaN(spare) {
		e.gaussSpare = math.NaN()
		return spare
	}
	u := e.openUnit()
	v := e.Float64()

	radius := math.Sqrt(-2 * math.Log(u))
	sin, cos := math.Sincos(2 * math.Pi * v)

	e.gaussSpare = radius * sin
	return radius * cos
}

// ScaledGaussian returns a normal deviate with mean 0.
func (e *Engine) ScaledGaussian(stdDev float64) float64 {
	if !(stdDev >= 0) || !finite(stdDev) {
		panic(argError("ScaledGaussian", "standard deviation %v", stdDev))
	}
	return e.Gaussian() * stdDev
}

// Normal returns a normal deviate with the given mean and deviation.
func (e *Engine) Normal(mean, stdDev float64) float64 {
	if !finite(mean) {
		panic(argError("Normal", "mean %v", mean))
	}
	if !(stdDev >= 0) || !finite(stdDev) {
		panic(argError("Normal", "standard deviation %v", stdDev))
	}
	return e.Gaussian()*stdDev + mean
}

// Exponential returns a rate-1 exponential deviate, always finite and >= 0.
func (e *Engine) Exponential() float64 {
	// 0 - x rather than -x so that ln(1) yields +0.
	return 0 - math.Log(e.openUnit())
}

// ExponentialMean returns an exponential deviate with the given mean.
func (e *Engine) ExponentialMean(mean float64) float64 {
	if !(mean >= 0) || !finite(mean) {
		panic(argError("ExponentialMean", "mean %v", mean))
	}
	return e.Exponential() * mean
}

// ExponentialRate returns an exponential deviate with the given rate.
func (e *Engine) ExponentialRate(rate float64) float64 {
	if !(rate > 0) || !finite(rate) {
		panic(argError("ExponentialRate", "rate %v", rate))
	}
	return e.Exponential() / rate
}

// Bernoulli reports true with probability p.
func (e *Engine) Bernoulli(p float64) bool {
	if !(p >= 0 && p <= 1) {
		panic(argError("Bernoulli", "probability %v outside [0, 1]", p))
	}
	return e.Float64() < p
}

// Binomial counts successes in n Bernoulli(p) trials.
func (e *Engine) Binomial(n int, p float64) int {
	if n < 0 {
		panic(argError("Binomial", "trials %d < 0", n))
	}
	if !(p >= 0 && p <= 1) {
		panic(argError("Binomial", "probability %v outside [0, 1]", p))
	}
	k := 0
	for i := 0; i < n; i++ {
		if e.Float64() < p {
			k++
		}
	}
	return k
}

// Poisson is not implemented. It validates mean and then returns
// ErrUnsupported.
func (e *Engine) Poisson(mean float64) (int, error) {
	if !(mean >= 0) || !finite(mean) {
		return 0, argError("Poisson", "mean %v", mean)
	}
	return 0, fmt.Errorf("%w: poisson sampling", ErrUnsupported)
}
