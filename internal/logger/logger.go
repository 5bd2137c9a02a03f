// Package logger is the process-wide structured logger. It writes to stderr
// through zerolog, human-readable by default and JSON on request.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetConsoleWriter(os.Stderr)
}

// Log returns the underlying logger for callers that build events directly.
func Log() *zerolog.Logger {
	return &log
}

func SetConsoleWriter(out io.Writer) {
	log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = "15:04:05.000"
	})).With().Timestamp().Logger()
}

func SetJSONWriter(out io.Writer) {
	log = zerolog.New(out).With().Timestamp().Logger()
}

// Configure picks the writer and level in one call, as the binaries do at
// startup.
func Configure(level string, json bool) error {
	if json {
		SetJSONWriter(os.Stderr)
	} else {
		SetConsoleWriter(os.Stderr)
	}
	return SetLevel(level)
}

// SetLevel accepts zerolog level names (trace, debug, info, warn, error).
// An empty string keeps the current level.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

func Debug(msg string, kv ...any) {
	emit(log.Debug(), msg, kv)
}

func Info(msg string, kv ...any) {
	emit(log.Info(), msg, kv)
}

func Warn(msg string, kv ...any) {
	emit(log.Warn(), msg, kv)
}

// Error logs msg with err attached. err may be nil.
func Error(err error, msg string, kv ...any) {
	emit(log.Error().Err(err), msg, kv)
}

// Fatal logs and exits with status 1.
func Fatal(err error, msg string, kv ...any) {
	emit(log.Fatal().Err(err), msg, kv)
}

// emit adds alternating key/value pairs to event. A trailing key without a
// value is dropped.
func emit(event *zerolog.Event, msg string, kv []any) {
	if event == nil {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case string:
			event.Str(k, v)
		case int:
			event.Int(k, v)
		case int32:
			event.Int32(k, v)
		case int64:
			event.Int64(k, v)
		case uint32:
			event.Uint32(k, v)
		case uint64:
			event.Uint64(k, v)
		case float64:
			event.Float64(k, v)
		case bool:
			event.Bool(k, v)
		case time.Duration:
			event.Str(k, v.String())
		case error:
			event.AnErr(k, v)
		case []byte:
			event.Hex(k, v)
		default:
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}
