package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec names a compression format for dump files.
type Codec string

const (
	CodecNone   Codec = "none"
	CodecGzip   Codec = "gzip"
	CodecLZ4    Codec = "lz4"
	CodecSnappy Codec = "snappy"
	CodecZstd   Codec = "zstd"
)

var ErrUnknownCodec = errors.New("export: unknown codec")

// ParseCodec accepts a codec name; the empty string means none.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(s)); c {
	case "":
		return CodecNone, nil
	case CodecNone, CodecGzip, CodecLZ4, CodecSnappy, CodecZstd:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
}

// Ext returns the file name suffix of c, including the dot.
func (c Codec) Ext() string {
	switch c {
	case CodecGzip:
		return ".gz"
	case CodecLZ4:
		return ".lz4"
	case CodecSnappy:
		return ".sz"
	case CodecZstd:
		return ".zst"
	default:
		return ""
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressor wraps w. Closing the result flushes the codec but leaves w open.
func (c Codec) compressor(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecNone, "":
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CodecZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(c))
	}
}

// NewReader returns a reader that decompresses r according to c.
func NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecNone, "":
		return io.NopCloser(r), nil
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(c))
	}
}
