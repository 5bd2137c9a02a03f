package wire

import (
	"encoding/json"
	"errors"
	"testing"
)

func decodeJSON(t *testing.T, b *Batch) map[string]any {
	t.Helper()
	data, err := EncodeJSON(b)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	return m
}

func TestEncodeJSONInts(t *testing.T) {
	m := decodeJSON(t, &Batch{Kind: KindInt, Seq: 3, Timestamp: 99, Ints: []int64{4, -5}})
	if m["type"] != "int" || m["seq"] != float64(3) || m["timestamp"] != float64(99) {
		t.Fatalf("header fields: %v", m)
	}
	vals, ok := m["values"].([]any)
	if !ok || len(vals) != 2 || vals[1] != float64(-5) {
		t.Fatalf("values = %v", m["values"])
	}
}

func TestEncodeJSONKinds(t *testing.T) {
	if m := decodeJSON(t, &Batch{Kind: KindBool, Ints: []int64{1, 0}}); m["type"] != "bool" {
		t.Fatalf("bool batch: %v", m)
	} else if vals := m["values"].([]any); vals[0] != true || vals[1] != false {
		t.Fatalf("bool values = %v", vals)
	}
	if m := decodeJSON(t, &Batch{Kind: KindBytes, Bytes: []byte{0xDE, 0xAD}}); m["hex"] != "dead" {
		t.Fatalf("bytes batch: %v", m)
	}
	if m := decodeJSON(t, &Batch{Kind: KindError, Err: "nope"}); m["type"] != "error" || m["error"] != "nope" {
		t.Fatalf("error batch: %v", m)
	}
	if m := decodeJSON(t, &Batch{Kind: KindGaussian}); m["type"] != "gaussian" {
		t.Fatalf("gaussian batch: %v", m)
	} else if vals, ok := m["values"].([]any); !ok || len(vals) != 0 {
		t.Fatalf("empty values encoded as %v", m["values"])
	}
}

func TestEncodeJSONUnknownKind(t *testing.T) {
	if _, err := EncodeJSON(&Batch{Kind: 'Q'}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v", err)
	}
}

func TestErrorBatch(t *testing.T) {
	b := ErrorBatch(4, errors.New("bad"))
	if b.Kind != KindError || b.Seq != 4 || b.Err != "bad" || b.Len() != 3 {
		t.Fatalf("ErrorBatch = %+v", b)
	}
}
