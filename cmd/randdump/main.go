// Command randdump writes samples from a local generator to a file or
// stdout, for offline analysis or as test vectors.
//
// Usage:
//
//	randdump -kind bytes -count 1048576 -format raw -o random   # random.bin
//	randdump -seed 7 -kind gaussian -count 100000 -codec zstd -o normals
//	randdump -kind int -params min=1,max=6 -count 20            # NDJSON to stdout
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/merkator/randgen/internal/export"
	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
)

func main() {
	profileName := flag.String("profile", "fast", "Generator profile: fast or secure")
	seed := flag.Int64("seed", 0, "Generator seed (0 = random, fast profile only)")
	bufferSize := flag.Int("buffer", 0, "Engine buffer size in bytes (0 = profile default)")
	kind := flag.String("kind", sample.KindBytes, "Sample kind")
	count := flag.Int("count", 1024, "Total values (bytes for -kind bytes)")
	params := flag.String("params", "", "Extra parameters as key=value pairs, comma-separated")
	formatName := flag.String("format", "ndjson", "Output format: ndjson, frames or raw")
	codecName := flag.String("codec", "none", "Compression: none, gzip, lz4, snappy or zstd")
	out := flag.String("o", "", "Output path without suffix (empty = stdout)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if err := logger.Configure(*logLevel, false); err != nil {
		logger.Fatal(err, "bad log level")
	}

	if err := run(*profileName, *seed, *bufferSize, *kind, *count, *params, *formatName, *codecName, *out); err != nil {
		logger.Fatal(err, "dump failed")
	}
}

func run(profileName string, seed int64, bufferSize int, kind string, count int, params, formatName, codecName, out string) error {
	profile, err := randgen.ParseProfile(profileName)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	codec, err := export.ParseCodec(codecName)
	if err != nil {
		return err
	}

	req := sample.New(kind)
	if params != "" {
		for _, kv := range strings.Split(params, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("parameter %q is not key=value", kv)
			}
			if err := req.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
				return err
			}
		}
	}
	req.Count = 1
	if err := req.Validate(); err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("count %d < 1", count)
	}

	engine, _, err := randgen.Build(profile, seed, bufferSize)
	if err != nil {
		return err
	}

	var (
		w    *export.Writer
		path = "stdout"
	)
	if out == "" {
		w, err = export.NewWriter(os.Stdout, format, codec)
	} else {
		w, path, err = export.Create(out, format, codec)
	}
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("dumping", "profile", profile, "seed", seed, "kind", kind, "count", count, "format", format, "codec", codec, "path", path)
	err = export.Dump(ctx, w, engine, req, count)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("dump written", "path", path, "batches", w.Batches(), "bytes", w.Written(), "refills", engine.Refills())
	return nil
}
