package logger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetJSONWriter(&buf)
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prev)
		SetConsoleWriter(os.Stderr)
	})
	return &buf
}

func TestFields(t *testing.T) {
	buf := capture(t)
	Info("snapshot saved", "words", 256, "profile", "fast", "took", 3*time.Millisecond, "raw", []byte{0xAB})

	line := buf.String()
	checks := map[string]string{
		"level":   "info",
		"message": "snapshot saved",
		"words":   "256",
		"profile": "fast",
		"took":    "3ms",
		"raw":     "ab",
	}
	for path, want := range checks {
		if got := gjson.Get(line, path).String(); got != want {
			t.Errorf("%s = %q, want %q in %s", path, got, want, line)
		}
	}
	if !gjson.Get(line, "time").Exists() {
		t.Errorf("missing timestamp in %s", line)
	}
}

func TestErrorAttachesErr(t *testing.T) {
	buf := capture(t)
	Error(errors.New("boom"), "refill failed", "dangling")
	line := buf.String()
	if got := gjson.Get(line, "error").String(); got != "boom" {
		t.Fatalf("error = %q in %s", got, line)
	}
	if gjson.Get(line, "dangling").Exists() {
		t.Fatalf("trailing key logged: %s", line)
	}
}

func TestSetLevelFilters(t *testing.T) {
	buf := capture(t)
	if err := SetLevel("WARN"); err != nil {
		t.Fatal(err)
	}
	Info("hidden")
	Debug("hidden")
	Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal("SetLevel accepted an unknown level")
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("SetLevel(\"\") = %v", err)
	}
}
