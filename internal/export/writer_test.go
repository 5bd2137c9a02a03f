package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
	"github.com/merkator/randgen/internal/wire"
)

var allCodecs = []Codec{CodecNone, CodecGzip, CodecLZ4, CodecSnappy, CodecZstd}

func decompress(t *testing.T, c Codec, data []byte) []byte {
	t.Helper()
	r, err := NewReader(c, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("%s reader: %v", c, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("%s read: %v", c, err)
	}
	return out
}

func TestNDJSONRoundTrip(t *testing.T) {
	for _, c := range allCodecs {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, FormatNDJSON, c)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			req := sample.New(sample.KindInt)
			req.Min, req.Max = 1, 6
			if err := Dump(context.Background(), w, randgen.NewFastSeeded(3), req, 10000); err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			sc := bufio.NewScanner(bytes.NewReader(decompress(t, c, buf.Bytes())))
			sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
			lines, values := 0, 0
			for sc.Scan() {
				lines++
				doc := gjson.ParseBytes(sc.Bytes())
				if doc.Get("type").String() != "int" {
					t.Fatalf("line %d: type %q", lines, doc.Get("type").String())
				}
				if doc.Get("seq").Uint() != uint64(lines) {
					t.Fatalf("line %d: seq %d", lines, doc.Get("seq").Uint())
				}
				for _, v := range doc.Get("values").Array() {
					if n := v.Int(); n < 1 || n > 6 {
						t.Fatalf("value %d outside [1, 6]", n)
					}
					values++
				}
			}
			if values != 10000 {
				t.Fatalf("expected 10000 values, got %d", values)
			}
			// 4096 + 4096 + 1808
			if lines != 3 || w.Batches() != 3 {
				t.Fatalf("expected 3 batches, got %d lines and %d batches", lines, w.Batches())
			}
		})
	}
}

func TestFramesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatFrames, CodecZstd)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	req := sample.New(sample.KindGaussian)
	if err := Dump(context.Background(), w, randgen.NewFastSeeded(5), req, 5000); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	w.Close()

	data := decompress(t, CodecZstd, buf.Bytes())
	total := 0
	for len(data) > 0 {
		b, n, err := wire.DecodeBinary(data)
		if err != nil {
			t.Fatalf("DecodeBinary: %v", err)
		}
		if b.Kind != wire.KindGaussian {
			t.Fatalf("expected gaussian batch, got %s", b.Kind)
		}
		total += len(b.Floats)
		data = data[n:]
	}
	if total != 5000 {
		t.Fatalf("expected 5000 values, got %d", total)
	}
}

func TestRawMatchesEngine(t *testing.T) {
	for _, c := range allCodecs {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, FormatRaw, c)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			req := sample.New(sample.KindBytes)
			if err := Dump(context.Background(), w, randgen.NewFastSeeded(11), req, 100000); err != nil {
				t.Fatalf("Dump: %v", err)
			}
			w.Close()

			want := make([]byte, 100000)
			ref := randgen.NewFastSeeded(11)
			for off := 0; off < len(want); off += sample.MaxBytes {
				ref.Bytes(want[off:min(off+sample.MaxBytes, len(want))])
			}
			if got := decompress(t, c, buf.Bytes()); !bytes.Equal(got, want) {
				t.Fatalf("raw dump differs from engine output (%d vs %d bytes)", len(got), len(want))
			}
		})
	}
}

func TestRawRejectsNonBytes(t *testing.T) {
	w, _ := NewWriter(io.Discard, FormatRaw, CodecNone)
	b := wire.Batch{Kind: wire.KindInt, Ints: []int64{1}}
	if err := w.WriteBatch(&b); !errors.Is(err, ErrNotRaw) {
		t.Fatalf("expected ErrNotRaw, got %v", err)
	}
}

func TestDumpInvalidRequest(t *testing.T) {
	w, _ := NewWriter(io.Discard, FormatNDJSON, CodecNone)
	req := sample.New(sample.KindExponential)
	req.Rate = -1
	if err := Dump(context.Background(), w, randgen.NewFastSeeded(1), req, 10); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestDumpRejectsOverflowingParameters(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatNDJSON, CodecNone)
	req := sample.New(sample.KindExponential)
	req.Rate = 1e-310
	if err := Dump(context.Background(), w, randgen.NewFastSeeded(1), req, 10); err == nil {
		t.Fatal("expected error for a rate that overflows")
	}
	w.Close()
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestDumpCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w, _ := NewWriter(io.Discard, FormatNDJSON, CodecNone)
	err := Dump(ctx, w, randgen.NewFastSeeded(1), sample.New(sample.KindInt), 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCreateAddsSuffix(t *testing.T) {
	dir := t.TempDir()
	w, path, err := Create(filepath.Join(dir, "out", "dice"), FormatNDJSON, CodecGzip)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := filepath.Join(dir, "out", "dice.jsonl.gz"); path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}
	req := sample.New(sample.KindFloat)
	if err := Dump(context.Background(), w, randgen.NewFastSeeded(2), req, 3); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	doc := gjson.ParseBytes(bytes.TrimSpace(decompress(t, CodecGzip, data)))
	if n := len(doc.Get("values").Array()); n != 3 {
		t.Fatalf("expected 3 values, got %d", n)
	}

	w, again, err := Create(path, FormatNDJSON, CodecGzip)
	if err != nil {
		t.Fatalf("Create existing: %v", err)
	}
	w.Close()
	if again != path {
		t.Fatalf("suffix appended twice: %s", again)
	}
}

func TestParse(t *testing.T) {
	if c, err := ParseCodec(""); err != nil || c != CodecNone {
		t.Fatalf("ParseCodec(\"\") = %q, %v", c, err)
	}
	if c, err := ParseCodec("ZSTD"); err != nil || c != CodecZstd {
		t.Fatalf("ParseCodec(ZSTD) = %q, %v", c, err)
	}
	if _, err := ParseCodec("brotli"); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("expected ErrUnknownCodec, got %v", err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(\"\") = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
