package wire

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// JSON encoder, the human-readable mirror of the binary frames.
// Bytes are hex strings, bools are JSON booleans.

// EncodeJSON encodes b as a single JSON object.
func EncodeJSON(b *Batch) ([]byte, error) {
	obj := map[string]any{
		"type":      b.Kind.String(),
		"seq":       b.Seq,
		"timestamp": b.Timestamp,
	}
	switch b.Kind {
	case KindInt:
		obj["values"] = nonNil(b.Ints)
	case KindFloat, KindGaussian, KindExponential:
		obj["values"] = nonNil(b.Floats)
	case KindBool:
		bools := make([]bool, len(b.Ints))
		for i, v := range b.Ints {
			bools[i] = v != 0
		}
		obj["values"] = bools
	case KindBytes:
		obj["hex"] = hex.EncodeToString(b.Bytes)
	case KindError:
		obj["error"] = b.Err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, byte(b.Kind))
	}
	return json.Marshal(obj)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
