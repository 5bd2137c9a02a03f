// Package shuffle permutes slices with the Fisher-Yates algorithm, either in
// place or lazily one element at a time.
package shuffle

import "iter"

// Intner is the part of a generator that shuffling needs. Intn(n) must
// return a uniform value in [0, n).
type Intner interface {
	Intn(n int) int
}

// InPlace permutes s uniformly at random.
func InPlace[T any](s []T, g Intner) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Iterator yields a random permutation of a private copy of its input, one
// element per call, at the cost of one draw per element.
type Iterator[T any] struct {
	g    Intner
	work []T
	left int
}

// New copies s so the caller may keep modifying it.
func New[T any](s []T, g Intner) *Iterator[T] {
	work := make([]T, len(s))
	copy(work, s)
	return &Iterator[T]{g: g, work: work, left: len(work)}
}

// Next returns the next element of the permutation, or false once all
// elements have been returned.
func (it *Iterator[T]) Next() (T, bool) {
	if it.left == 0 {
		var zero T
		return zero, false
	}
	it.left--
	i := it.left
	if i == 0 {
		return it.work[0], true
	}
	j := it.g.Intn(i + 1)
	v := it.work[j]
	// The tail is never read again, so a swap is unnecessary.
	it.work[j] = it.work[i]
	return v, true
}

// Remaining returns how many elements Next has yet to return.
func (it *Iterator[T]) Remaining() int {
	return it.left
}

// All returns a lazily shuffled sequence of s. Each range over the result
// starts a fresh permutation; stopping early costs no further draws.
func All[T any](s []T, g Intner) iter.Seq[T] {
	return func(yield func(T) bool) {
		it := New(s, g)
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
