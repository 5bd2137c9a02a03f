package randgen

import "sync"

// Generator is the draw surface shared by Engine and Locked.
type Generator interface {
	Int32() int32
	Uint32() uint32
	Int64() int64
	Uint64() uint64
	Bool() bool
	Byte() byte
	Int8() int8
	Uint16() uint16
	Int16() int16
	Bytes(p []byte)
	Read(p []byte) (int, error)
	Int32n(count int32) int32
	Int64n(count int64) int64
	Intn(count int) int
	Uint32n(count uint32) uint32
	Uint64n(count uint64) uint64
	Int32Range(start, inclusiveEnd int32) int32
	Int64Range(start, inclusiveEnd int64) int64
	Int32Span(start, count int32) int32
	Int64Span(start, count int64) int64
	Float64() float64
	Float64Range(start, exclusiveEnd float64) float64
	Float64Span(start, length float64) float64
	Float32() float32
	Float32Range(start, exclusiveEnd float32) float32
	Float32Span(start, length float32) float32
	Gaussian() float64
	ScaledGaussian(stdDev float64) float64
	Normal(mean, stdDev float64) float64
	Exponential() float64
	ExponentialMean(mean float64) float64
	ExponentialRate(rate float64) float64
	Bernoulli(p float64) bool
	Binomial(n int, p float64) int
	Poisson(mean float64) (int, error)
}

var (
	_ Generator = (*Engine)(nil)
	_ Generator = (*Locked)(nil)
)

// Locked serialises access to one Engine with a mutex. Each draw method
// takes the lock for a single call; use Do to batch many draws.
type Locked struct {
	mu     sync.Mutex
	engine *Engine
}

// NewLocked takes ownership of e. e must not be used directly afterwards.
func NewLocked(e *Engine) *Locked {
	return &Locked{engine: e}
}

var (
	sharedOnce sync.Once
	shared     *Locked
)

// Shared returns the process-wide generator, a secure engine created on
// first use.
func Shared() *Locked {
	sharedOnce.Do(func() {
		shared = NewLocked(NewSecure())
	})
	return shared
}

// Do runs fn with exclusive access to the engine, amortising the lock over
// many draws. fn must not call back into l.
func (l *Locked) Do(fn func(e *Engine)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.engine)
}

// Int32 calls Engine.Int32 under the lock.
func (l *Locked) Int32() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int32()
}

// Uint32 calls Engine.Uint32 under the lock.
func (l *Locked) Uint32() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Uint32()
}

// Int64 calls Engine.Int64 under the lock.
func (l *Locked) Int64() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int64()
}

// Uint64 calls Engine.Uint64 under the lock.
func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Uint64()
}

// Bool calls Engine.Bool under the lock.
func (l *Locked) Bool() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Bool()
}

// Byte calls Engine.Byte under the lock.
func (l *Locked) Byte() byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Byte()
}

// Int8 calls Engine.Int8 under the lock.
func (l *Locked) Int8() int8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int8()
}

// Uint16 calls Engine.Uint16 under the lock.
func (l *Locked) Uint16() uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Uint16()
}

// Int16 calls Engine.Int16 under the lock.
func (l *Locked) Int16() int16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int16()
}

// Bytes calls Engine.Bytes under the lock.
func (l *Locked) Bytes(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine.Bytes(p)
}

// Read calls Engine.Read under the lock.
func (l *Locked) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Read(p)
}

// Int32n calls Engine.Int32n under the lock.
func (l *Locked) Int32n(count int32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int32n(count)
}

// Int64n calls Engine.Int64n under the lock.
func (l *Locked) Int64n(count int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int64n(count)
}

// Intn calls Engine.Intn under the lock.
func (l *Locked) Intn(count int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Intn(count)
}

// Uint32n calls Engine.Uint32n under the lock.
func (l *Locked) Uint32n(count uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Uint32n(count)
}

// Uint64n calls Engine.Uint64n under the lock.
func (l *Locked) Uint64n(count uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Uint64n(count)
}

// Int32Range calls Engine.Int32Range under the lock.
func (l *Locked) Int32Range(start, inclusiveEnd int32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int32Range(start, inclusiveEnd)
}

// Int64Range calls Engine.Int64Range under the lock.
func (l *Locked) Int64Range(start, inclusiveEnd int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int64Range(start, inclusiveEnd)
}

// Int32Span calls Engine.Int32Span under the lock.
func (l *Locked) Int32Span(start, count int32) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int32Span(start, count)
}

// Int64Span calls Engine.Int64Span under the lock.
func (l *Locked) Int64Span(start, count int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Int64Span(start, count)
}

// Float64 calls Engine.Float64 under the lock.
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float64()
}

// Float64Range calls Engine.Float64Range under the lock.
func (l *Locked) Float64Range(start, exclusiveEnd float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float64Range(start, exclusiveEnd)
}

// Float64Span calls Engine.Float64Span under the lock.
func (l *Locked) Float64Span(start, length float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float64Span(start, length)
}

// Float32 calls Engine.Float32 under the lock.
func (l *Locked) Float32() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float32()
}

// Float32Range calls Engine.Float32Range under the lock.
func (l *Locked) Float32Range(start, exclusiveEnd float32) float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float32Range(start, exclusiveEnd)
}

// Float32Span calls Engine.Float32Span under the lock.
func (l *Locked) Float32Span(start, length float32) float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Float32Span(start, length)
}

// Gaussian calls Engine.Gaussian under the lock.
func (l *Locked) Gaussian() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Gaussian()
}

// ScaledGaussian calls Engine.ScaledGaussian under the lock.
func (l *Locked) ScaledGaussian(stdDev float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.ScaledGaussian(stdDev)
}

// Normal calls Engine.Normal under the lock.
func (l *Locked) Normal(mean, stdDev float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Normal(mean, stdDev)
}

// Exponential calls Engine.Exponential under the lock.
func (l *Locked) Exponential() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Exponential()
}

// ExponentialMean calls Engine.ExponentialMean under the lock.
func (l *Locked) ExponentialMean(mean float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.ExponentialMean(mean)
}

// ExponentialRate calls Engine.ExponentialRate under the lock.
func (l *Locked) ExponentialRate(rate float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.ExponentialRate(rate)
}

// Bernoulli calls Engine.Bernoulli under the lock.
func (l *Locked) Bernoulli(p float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Bernoulli(p)
}

// Binomial calls Engine.Binomial under the lock.
func (l *Locked) Binomial(n int, p float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Binomial(n, p)
}

// Poisson calls Engine.Poisson under the lock.
func (l *Locked) Poisson(mean float64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Poisson(mean)
}
