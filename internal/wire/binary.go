package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Binary batch encoding.
// Each batch is prefixed with a 2-byte length, then
// Kind(1) + Seq(8) + Timestamp(6) + Count(4) + payload, all big-endian.
// Payload is 8 bytes per int or float, 1 byte per bool or byte, and the
// UTF-8 message for errors.

const headerSize = 1 + 8 + 6 + 4

// MaxBody is the largest body a 2-byte length prefix can describe.
const MaxBody = math.MaxUint16

var (
	ErrShortFrame  = errors.New("wire: short frame")
	ErrUnknownKind = errors.New("wire: unknown kind")
	ErrTooLarge    = errors.New("wire: batch too large")
)

// EncodeBinary encodes b including the 2-byte length prefix.
func EncodeBinary(b *Batch) ([]byte, error) {
	n := b.Len()
	var width int
	switch b.Kind {
	case KindInt, KindFloat, KindGaussian, KindExponential:
		width = 8
	case KindBytes, KindBool, KindError:
		width = 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, byte(b.Kind))
	}
	bodyLen := headerSize + n*width
	if bodyLen > MaxBody {
		return nil, fmt.Errorf("%w: %d values of %s", ErrTooLarge, n, b.Kind)
	}

	frame := make([]byte, 2+bodyLen)
	binary.BigEndian.PutUint16(frame[0:2], uint16(bodyLen))
	body := frame[2:]
	body[0] = byte(b.Kind)
	binary.BigEndian.PutUint64(body[1:9], b.Seq)
	putTimestamp(body[9:15], b.Timestamp)
	binary.BigEndian.PutUint32(body[15:19], uint32(n))

	p := body[headerSize:]
	switch b.Kind {
	case KindInt:
		for i, v := range b.Ints {
			binary.BigEndian.PutUint64(p[8*i:], uint64(v))
		}
	case KindFloat, KindGaussian, KindExponential:
		for i, v := range b.Floats {
			binary.BigEndian.PutUint64(p[8*i:], math.Float64bits(v))
		}
	case KindBool:
		for i, v := range b.Ints {
			if v != 0 {
				p[i] = 1
			}
		}
	case KindBytes:
		copy(p, b.Bytes)
	case KindError:
		copy(p, b.Err)
	}
	return frame, nil
}

// DecodeBinary decodes the first frame in data and returns the number of
// bytes it occupied.
func DecodeBinary(data []byte) (*Batch, int, error) {
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(data))
	}
	bodyLen := int(binary.BigEndian.Uint16(data[0:2]))
	if bodyLen < headerSize || len(data) < 2+bodyLen {
		return nil, 0, fmt.Errorf("%w: body %d, have %d", ErrShortFrame, bodyLen, len(data)-2)
	}
	body := data[2 : 2+bodyLen]

	b := &Batch{
		Kind:      Kind(body[0]),
		Seq:       binary.BigEndian.Uint64(body[1:9]),
		Timestamp: getTimestamp(body[9:15]),
	}
	n := int(binary.BigEndian.Uint32(body[15:19]))
	p := body[headerSize:]

	width := 1
	switch b.Kind {
	case KindInt, KindFloat, KindGaussian, KindExponential:
		width = 8
	case KindBytes, KindBool, KindError:
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKind, body[0])
	}
	if len(p) != n*width {
		return nil, 0, fmt.Errorf("%w: %d values need %d bytes, have %d", ErrShortFrame, n, n*width, len(p))
	}

	switch b.Kind {
	case KindInt:
		b.Ints = make([]int64, n)
		for i := range b.Ints {
			b.Ints[i] = int64(binary.BigEndian.Uint64(p[8*i:]))
		}
	case KindFloat, KindGaussian, KindExponential:
		b.Floats = make([]float64, n)
		for i := range b.Floats {
			b.Floats[i] = math.Float64frombits(binary.BigEndian.Uint64(p[8*i:]))
		}
	case KindBool:
		b.Ints = make([]int64, n)
		for i := range b.Ints {
			b.Ints[i] = int64(p[i])
		}
	case KindBytes:
		b.Bytes = append([]byte(nil), p...)
	case KindError:
		b.Err = string(p)
	}
	return b, 2 + bodyLen, nil
}

// putTimestamp writes a 6-byte nanosecond timestamp.
func putTimestamp(buf []byte, nanos int64) {
	buf[0] = byte(nanos >> 40)
	buf[1] = byte(nanos >> 32)
	buf[2] = byte(nanos >> 24)
	buf[3] = byte(nanos >> 16)
	buf[4] = byte(nanos >> 8)
	buf[5] = byte(nanos)
}

func getTimestamp(buf []byte) int64 {
	return int64(buf[0])<<40 | int64(buf[1])<<32 | int64(buf[2])<<24 |
		int64(buf[3])<<16 | int64(buf[4])<<8 | int64(buf[5])
}
