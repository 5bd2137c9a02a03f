package sample

import (
	"errors"
	"testing"

	"github.com/merkator/randgen/internal/randgen"
)

func TestSetMapsBoundsByKind(t *testing.T) {
	r := New(KindFloat)
	if err := r.Set("min", "-0.5"); err != nil {
		t.Fatal(err)
	}
	if err := r.Set("max", "2.5"); err != nil {
		t.Fatal(err)
	}
	if r.Low != -0.5 || r.High != 2.5 || r.Min != 0 || r.Max != 100 {
		t.Fatalf("float bounds: %+v", r)
	}

	r = New(KindInt)
	r.Set("min", "-9")
	r.Set("max", "9223372036854775807")
	if r.Min != -9 || r.Max != 1<<63-1 {
		t.Fatalf("int bounds: %+v", r)
	}
}

func TestSetFields(t *testing.T) {
	r := New(KindBinomial)
	for k, v := range map[string]string{"count": "7", "n": "12", "p": "0.25", "mean": "3", "stddev": "2", "rate": "4"} {
		if err := r.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if r.Count != 7 || r.N != 12 || r.P != 0.25 || r.Mean != 3 || r.StdDev != 2 || r.Rate != 4 {
		t.Fatalf("fields not set: %+v", r)
	}
}

func TestSetErrors(t *testing.T) {
	r := New(KindInt)
	if err := r.Set("count", "ten"); !errors.Is(err, randgen.ErrArgumentRange) {
		t.Fatalf("bad number err = %v", err)
	}
	if err := r.Set("min", "1.5"); !errors.Is(err, randgen.ErrArgumentRange) {
		t.Fatalf("fractional int err = %v", err)
	}
	if err := r.Set("colour", "red"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("unknown key err = %v", err)
	}
}
