package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}
			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
}

func TestPeriodicHannEndpoints(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())
	if w[0] != 0 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("w[4] = %v, want 1", w[4])
	}
	if math.Abs(w[7]-w[1]) > 1e-12 {
		t.Fatalf("periodic hann not symmetric around center: %v vs %v", w[7], w[1])
	}
}

func TestSymmetricWindows(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeHamming, TypeBlackman} {
		w := Generate(typ, 33)
		for i := range w {
			if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
				t.Fatalf("%s: w[%d]=%v, mirror=%v", typ, i, w[i], w[len(w)-1-i])
			}
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{in: "hann", want: TypeHann},
		{in: " Hamming ", want: TypeHamming},
		{in: "BLACKMAN", want: TypeBlackman},
		{in: "rectangular", want: TypeRectangular},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestOverlapSquareSumHannQuarterHop(t *testing.T) {
	const size = 16
	w := Generate(TypeHann, size, WithPeriodic())

	sum, err := OverlapSquareSum(w, size/4, 12)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum) != 11*size/4+size {
		t.Fatalf("len=%d, want %d", len(sum), 11*size/4+size)
	}

	// Periodic Hann squared sums to 1.5 at 75% overlap once fully overlapped.
	for i := size; i < len(sum)-size; i++ {
		if math.Abs(sum[i]-1.5) > 1e-12 {
			t.Fatalf("sum[%d] = %v, want 1.5", i, sum[i])
		}
	}
}

func TestOverlapSquareSumValidation(t *testing.T) {
	if _, err := OverlapSquareSum(nil, 1, 1); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := OverlapSquareSum([]float64{1}, 0, 1); err == nil {
		t.Fatal("expected error for zero hop")
	}
}
