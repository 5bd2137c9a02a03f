package wire

import "time"

// Kind identifies what a batch carries.
type Kind byte

const (
	KindInt         Kind = 'I'
	KindFloat       Kind = 'F'
	KindGaussian    Kind = 'G'
	KindExponential Kind = 'E'
	KindBytes       Kind = 'B'
	KindBool        Kind = 'T'
	KindError       Kind = 'X'
)

// Batch is one response of draws. Which slice is populated depends on Kind:
// Ints for KindInt and KindBool (0 or 1), Floats for the float kinds, Bytes
// for KindBytes and Err for KindError.
type Batch struct {
	Kind      Kind
	Seq       uint64
	Timestamp int64 // nanoseconds since midnight UTC
	Ints      []int64
	Floats    []float64
	Bytes     []byte
	Err       string
}

// Len returns the number of values in the batch.
func (b *Batch) Len() int {
	switch b.Kind {
	case KindInt, KindBool:
		return len(b.Ints)
	case KindFloat, KindGaussian, KindExponential:
		return len(b.Floats)
	case KindBytes:
		return len(b.Bytes)
	case KindError:
		return len(b.Err)
	default:
		return 0
	}
}

// ErrorBatch wraps a failure so it travels the same path as data.
func ErrorBatch(seq uint64, err error) Batch {
	return Batch{Kind: KindError, Seq: seq, Timestamp: NanosFromMidnight(), Err: err.Error()}
}

// NanosFromMidnight returns the current nanoseconds since midnight UTC.
func NanosFromMidnight() int64 {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return now.Sub(midnight).Nanoseconds()
}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindGaussian:
		return "gaussian"
	case KindExponential:
		return "exponential"
	case KindBytes:
		return "bytes"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}
