// Package export writes sample batches to files or streams, optionally
// compressed.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
	"github.com/merkator/randgen/internal/wire"
)

// Format selects how batches are laid out.
type Format string

const (
	// FormatNDJSON writes one JSON object per batch and line.
	FormatNDJSON Format = "ndjson"
	// FormatFrames writes length-prefixed binary wire frames.
	FormatFrames Format = "frames"
	// FormatRaw writes the payload of bytes batches and nothing else.
	FormatRaw Format = "raw"
)

var (
	ErrUnknownFormat = errors.New("export: unknown format")
	ErrNotRaw        = errors.New("export: raw format only carries bytes batches")
)

// ParseFormat accepts a format name; the empty string means ndjson.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatNDJSON, nil
	case FormatNDJSON, FormatFrames, FormatRaw:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file name suffix of f, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatFrames:
		return ".frames"
	case FormatRaw:
		return ".bin"
	default:
		return ".jsonl"
	}
}

// Writer encodes batches onto an underlying writer.
type Writer struct {
	format  Format
	comp    io.WriteCloser
	buf     *bufio.Writer
	file    *os.File
	batches int64
	written int64
}

// NewWriter writes batches to w in format f, compressed with c. Close must
// be called to flush the codec; it does not close w.
func NewWriter(w io.Writer, f Format, c Codec) (*Writer, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	comp, err := c.compressor(w)
	if err != nil {
		return nil, err
	}
	return &Writer{format: f, comp: comp, buf: bufio.NewWriter(comp)}, nil
}

// Create opens path for writing, creating parent directories, and appends
// the format and codec suffixes unless path already ends with them. Close
// also closes the file.
func Create(path string, f Format, c Codec) (*Writer, string, error) {
	suffix := f.Ext() + c.Ext()
	if !strings.HasSuffix(path, suffix) {
		path += suffix
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("mkdir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create: %w", err)
	}
	w, err := NewWriter(file, f, c)
	if err != nil {
		file.Close()
		return nil, "", err
	}
	w.file = file
	return w, path, nil
}

// WriteBatch encodes one batch.
func (w *Writer) WriteBatch(b *wire.Batch) error {
	var data []byte
	var err error
	switch w.format {
	case FormatFrames:
		data, err = wire.EncodeBinary(b)
	case FormatRaw:
		if b.Kind != wire.KindBytes {
			return fmt.Errorf("%w: got %s", ErrNotRaw, b.Kind)
		}
		data = b.Bytes
	default:
		data, err = wire.EncodeJSON(b)
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	n, err := w.buf.Write(data)
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	w.batches++
	return nil
}

// Batches returns how many batches have been written.
func (w *Writer) Batches() int64 { return w.batches }

// Written returns the uncompressed byte count.
func (w *Writer) Written() int64 { return w.written }

// Close flushes buffered data and the codec, then closes the file if the
// writer was made by Create.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if cerr := w.comp.Close(); err == nil {
		err = cerr
	}
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Dump draws total values described by req from g, in batches of at most
// the per-request limit, and writes them to w. It stops early when ctx is
// cancelled.
func Dump(ctx context.Context, w *Writer, g randgen.Generator, req sample.Request, total int) error {
	limit := sample.MaxCount
	if req.Kind == sample.KindBytes {
		limit = sample.MaxBytes
	}
	var seq uint64
	for left := total; left > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		req.Count = min(left, limit)
		seq++
		b := req.Draw(g, seq)
		if b.Kind == wire.KindError {
			return fmt.Errorf("draw: %s", b.Err)
		}
		if err := w.WriteBatch(&b); err != nil {
			return err
		}
		left -= req.Count
	}
	logger.Debug("dump complete", "kind", req.Kind, "values", total, "batches", w.Batches(), "bytes", w.Written())
	return nil
}
