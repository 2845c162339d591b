package separate

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// runMask returns a 1x2xframes mask at 0.01 with frames [from, to) at high.
func runMask(frames, from, to int, high float64) *spectrogram.Mask {
	m := spectrogram.NewMask(1, 2, frames)
	m.Fill(0.01)
	for b := range 2 {
		row := m.Row(0, b)
		for t := from; t < to; t++ {
			row[t] = high
		}
	}
	return m
}

func TestMergeArtifactsShortRunUntouched(t *testing.T) {
	in := runMask(100, 10, 40, 0.5)
	out, err := DefaultMergeArtifacts().Filter(in)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != in.Data[i] {
			t.Fatalf("weight %d changed from %v to %v", i, in.Data[i], v)
		}
	}
}

func TestMergeArtifactsLongRunRaised(t *testing.T) {
	in := runMask(200, 10, 110, 0.5)
	out, err := DefaultMergeArtifacts().Filter(in)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		frame int
		want  float64
	}{
		{frame: 5, want: 0.01},
		{frame: 10, want: 0.5},
		{frame: 26, want: 0.5 + 16.0/31*0.5},
		{frame: 41, want: 1},
		{frame: 60, want: 1},
		{frame: 78, want: 1},
		{frame: 109, want: 0.5},
		{frame: 150, want: 0.01},
	}
	for _, tt := range tests {
		for b := range 2 {
			if got := out.At(0, b, tt.frame); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("frame %d bin %d = %v, want %v", tt.frame, b, got, tt.want)
			}
		}
	}
	if in.At(0, 0, 60) != 0.5 {
		t.Fatal("Filter modified its input")
	}
}

func TestMergeArtifactsRampAlignment(t *testing.T) {
	const start, end, fade = 20, 120, 32
	in := runMask(160, start, end, 0.5)

	out, err := DefaultMergeArtifacts().Filter(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := range fade {
		head := 0.5 + 0.5*float64(i)/(fade-1)
		tail := 0.5 + 0.5*float64(fade-1-i)/(fade-1)
		if got := out.At(0, 0, start+i); math.Abs(got-head) > 1e-12 {
			t.Fatalf("head frame %d = %v, want %v", start+i, got, head)
		}
		if got := out.At(0, 0, end-fade+i); math.Abs(got-tail) > 1e-12 {
			t.Fatalf("tail frame %d = %v, want %v", end-fade+i, got, tail)
		}
	}
	if got := out.At(0, 0, end); got != 0.01 {
		t.Fatalf("frame %d after the run = %v, want 0.01", end, got)
	}
}

func TestMergeArtifactsNoFadeAtBoundaries(t *testing.T) {
	in := runMask(100, 0, 100, 0.5)
	out, err := DefaultMergeArtifacts().Filter(in)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != 1 {
			t.Fatalf("weight %d = %v, want 1", i, v)
		}
	}
}

func TestMergeArtifactsUsesFrameMinimum(t *testing.T) {
	in := runMask(100, 0, 100, 0.5)
	// One low bin disqualifies the frame.
	in.Set(0, 1, 50, 0.01)

	out, err := DefaultMergeArtifacts().Filter(in)
	if err != nil {
		t.Fatal(err)
	}
	// Both halves are shorter than MinRange once frame 50 breaks the run.
	if got := out.At(0, 0, 20); got != 0.5 {
		t.Fatalf("frame 20 = %v, want 0.5", got)
	}
	if got := out.At(0, 1, 50); got != 0.01 {
		t.Fatalf("frame 50 = %v, want 0.01", got)
	}
}

func TestMergeArtifactsValidate(t *testing.T) {
	tests := []struct {
		name   string
		filter MergeArtifacts
	}{
		{name: "zero fade", filter: MergeArtifacts{Threshold: 0.05, MinRange: 64}},
		{name: "range below two fades", filter: MergeArtifacts{Threshold: 0.05, MinRange: 63, FadeSize: 32}},
		{name: "nan threshold", filter: MergeArtifacts{Threshold: math.NaN(), MinRange: 64, FadeSize: 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.filter.Validate(); !errors.Is(err, ErrConfig) {
				t.Fatalf("Validate err = %v, want ErrConfig", err)
			}
			if _, err := tt.filter.Filter(spectrogram.NewMask(1, 1, 4)); !errors.Is(err, ErrConfig) {
				t.Fatalf("Filter err = %v, want ErrConfig", err)
			}
		})
	}
	if err := DefaultMergeArtifacts().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
