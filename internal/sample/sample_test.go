package sample

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/wire"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		mutate func(*Request)
		want   error
	}{
		{"int default", KindInt, func(*Request) {}, nil},
		{"int reversed", KindInt, func(r *Request) { r.Min, r.Max = 5, 4 }, randgen.ErrArgumentRange},
		{"int single", KindInt, func(r *Request) { r.Min, r.Max = 5, 5 }, nil},
		{"count zero", KindInt, func(r *Request) { r.Count = 0 }, randgen.ErrArgumentRange},
		{"count too big", KindFloat, func(r *Request) { r.Count = MaxCount + 1 }, randgen.ErrArgumentRange},
		{"bytes allow more", KindBytes, func(r *Request) { r.Count = MaxCount + 1 }, nil},
		{"float empty", KindFloat, func(r *Request) { r.Low, r.High = 1, 1 }, randgen.ErrArgumentRange},
		{"float inf", KindFloat, func(r *Request) { r.High = math.Inf(1) }, randgen.ErrArgumentRange},
		{"gaussian sd", KindGaussian, func(r *Request) { r.StdDev = -1 }, randgen.ErrArgumentRange},
		{"gaussian zero sd", KindGaussian, func(r *Request) { r.StdDev = 0 }, nil},
		{"exp rate", KindExponential, func(r *Request) { r.Rate = 0 }, randgen.ErrArgumentRange},
		{"exp tiny rate", KindExponential, func(r *Request) { r.Rate = 1e-310 }, randgen.ErrArgumentRange},
		{"exp small rate", KindExponential, func(r *Request) { r.Rate = 1e-300 }, nil},
		{"gaussian overflow", KindGaussian, func(r *Request) { r.Mean, r.StdDev = 1.7e308, 1e308 }, randgen.ErrArgumentRange},
		{"gaussian huge sd", KindGaussian, func(r *Request) { r.StdDev = 1e308 }, randgen.ErrArgumentRange},
		{"gaussian large sd", KindGaussian, func(r *Request) { r.StdDev = 1e307 }, nil},
		{"binomial n", KindBinomial, func(r *Request) { r.N = -1 }, randgen.ErrArgumentRange},
		{"binomial p", KindBinomial, func(r *Request) { r.P = 2 }, randgen.ErrArgumentRange},
		{"bool nan", KindBool, func(r *Request) { r.P = math.NaN() }, randgen.ErrArgumentRange},
		{"unknown", "dice", func(*Request) {}, ErrUnknownKind},
	}
	for _, tc := range tests {
		r := New(tc.kind)
		tc.mutate(&r)
		err := r.Validate()
		if tc.want == nil && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestDrawExtremeParametersStayFinite(t *testing.T) {
	// All-one words give the largest deviates the engine can produce.
	e, err := randgen.New(func(words []uint32) {
		for i := range words {
			words[i] = math.MaxUint32
		}
	}, 64)
	if err != nil {
		t.Fatal(err)
	}

	exp := New(KindExponential)
	exp.Rate, exp.Count = 1e-300, 16
	gauss := New(KindGaussian)
	gauss.Mean, gauss.StdDev, gauss.Count = -1e307, 1e307, 16

	for _, r := range []Request{exp, gauss} {
		b := r.Draw(e, 1)
		if b.Kind == wire.KindError {
			t.Fatalf("%s: unexpected error batch %q", r.Kind, b.Err)
		}
		for _, v := range b.Floats {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				t.Fatalf("%s: non-finite value %v", r.Kind, v)
			}
		}
		if _, err := wire.EncodeJSON(&b); err != nil {
			t.Fatalf("%s: encode: %v", r.Kind, err)
		}
	}
}

func TestDrawKinds(t *testing.T) {
	g := randgen.NewFastSeeded(21)
	tests := []struct {
		kind string
		want wire.Kind
	}{
		{KindInt, wire.KindInt},
		{KindFloat, wire.KindFloat},
		{KindGaussian, wire.KindGaussian},
		{KindExponential, wire.KindExponential},
		{KindBinomial, wire.KindInt},
		{KindBool, wire.KindBool},
		{KindBytes, wire.KindBytes},
		{KindShuffle, wire.KindInt},
	}
	for i, tc := range tests {
		r := New(tc.kind)
		r.Count = 50
		b := r.Draw(g, uint64(i))
		if b.Kind != tc.want {
			t.Fatalf("%s: kind %s (%s), want %s", tc.kind, b.Kind, b.Err, tc.want)
		}
		if b.Len() != 50 || b.Seq != uint64(i) {
			t.Fatalf("%s: len %d seq %d", tc.kind, b.Len(), b.Seq)
		}
	}
}

func TestDrawRespectsBounds(t *testing.T) {
	g := randgen.NewFastSeeded(22)

	r := New(KindInt)
	r.Min, r.Max, r.Count = -3, 3, MaxCount
	for _, v := range r.Draw(g, 0).Ints {
		if v < -3 || v > 3 {
			t.Fatalf("int %d outside [-3, 3]", v)
		}
	}

	r = New(KindFloat)
	r.Low, r.High, r.Count = 10, 11, MaxCount
	for _, v := range r.Draw(g, 0).Floats {
		if v < 10 || v >= 11 {
			t.Fatalf("float %v outside [10, 11)", v)
		}
	}

	r = New(KindBinomial)
	r.N, r.P, r.Count = 5, 1, 10
	for _, v := range r.Draw(g, 0).Ints {
		if v != 5 {
			t.Fatalf("binomial(5, 1) = %d", v)
		}
	}

	r = New(KindBool)
	r.P, r.Count = 0, 100
	for _, v := range r.Draw(g, 0).Ints {
		if v != 0 {
			t.Fatal("bool with p=0 returned true")
		}
	}
}

func TestDrawShuffleIsPermutation(t *testing.T) {
	r := New(KindShuffle)
	r.Count = 100
	got := r.Draw(randgen.NewFastSeeded(23), 0).Ints
	slices.Sort(got)
	for i, v := range got {
		if v != int64(i) {
			t.Fatalf("shuffle lost element %d", i)
		}
	}
}

func TestDrawInvalidReturnsErrorBatch(t *testing.T) {
	r := New(KindExponential)
	r.Rate = -1
	b := r.Draw(randgen.NewFastSeeded(1), 9)
	if b.Kind != wire.KindError || b.Seq != 9 || b.Err == "" {
		t.Fatalf("batch = %+v", b)
	}
}

func TestDrawDeterministic(t *testing.T) {
	r := New(KindGaussian)
	r.Count = 20
	a := r.Draw(randgen.NewFastSeeded(5), 0).Floats
	b := r.Draw(randgen.NewFastSeeded(5), 0).Floats
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different batches")
	}
}
