package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireMaskNearlyEqual fails t if the masks differ in shape or any weight
// pair exceeds eps. eps == 0 demands identical weights.
func RequireMaskNearlyEqual(t *testing.T, got, want *spectrogram.Mask, eps float64) {
	t.Helper()
	if got.Shape != want.Shape {
		t.Fatalf("shape mismatch: got %s, want %s", got.Shape, want.Shape)
	}
	for i := range got.Data {
		if math.Abs(got.Data[i]-want.Data[i]) > eps {
			c, b, f := unravel(got.Shape, i)
			t.Fatalf("cell (%d,%d,%d): got %v, want %v (eps %v)", c, b, f, got.Data[i], want.Data[i], eps)
		}
	}
}

// RequireSpectrogramNearlyEqual fails t if the spectrograms differ in shape
// or any cell pair is further apart than eps.
func RequireSpectrogramNearlyEqual(t *testing.T, got, want *spectrogram.Spectrogram, eps float64) {
	t.Helper()
	if got.Shape != want.Shape {
		t.Fatalf("shape mismatch: got %s, want %s", got.Shape, want.Shape)
	}
	for i := range got.Data {
		if cmplx.Abs(got.Data[i]-want.Data[i]) > eps {
			c, b, f := unravel(got.Shape, i)
			t.Fatalf("cell (%d,%d,%d): got %v, want %v (eps %v)", c, b, f, got.Data[i], want.Data[i], eps)
		}
	}
}

func unravel(s spectrogram.Shape, i int) (c, b, f int) {
	f = i % s.Frames
	b = (i / s.Frames) % s.Bins
	c = i / (s.Frames * s.Bins)
	return c, b, f
}
