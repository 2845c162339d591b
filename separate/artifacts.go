package separate

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// ArtifactFilter smooths a mask magnitude before it is applied. It must
// not modify its input.
type ArtifactFilter interface {
	Filter(mag *spectrogram.Mask) (*spectrogram.Mask, error)
}

const (
	defaultArtifactThreshold = 0.05
	defaultArtifactMinRange  = 64
	defaultArtifactFadeSize  = 32
)

// MergeArtifacts suppresses vocal leakage inside stretches where the mask
// is confidently high everywhere.
//
// A frame qualifies when its minimum weight over all channels and bins
// exceeds Threshold. Runs of qualifying frames longer than MinRange get a
// weight that is 1 inside the run with linear FadeSize-frame ramps at both
// edges (omitted at the mask boundaries), and every weight m becomes
// m + w*(1-m). Overlapping ramps of neighbouring runs keep the larger weight.
//
// With a run covering [Start, End), End exclusive, the ramps occupy
// [Start, Start+FadeSize) and [End-FadeSize, End), so the first and last
// qualifying frames both get weight 0.
type MergeArtifacts struct {
	Threshold float64
	MinRange  int
	FadeSize  int
}

// DefaultMergeArtifacts returns the filter with its usual parameters.
func DefaultMergeArtifacts() MergeArtifacts {
	return MergeArtifacts{
		Threshold: defaultArtifactThreshold,
		MinRange:  defaultArtifactMinRange,
		FadeSize:  defaultArtifactFadeSize,
	}
}

// Validate checks the run and fade lengths.
func (f MergeArtifacts) Validate() error {
	if f.FadeSize <= 0 {
		return fmt.Errorf("%w: artifact fade size must be > 0: %d", ErrConfig, f.FadeSize)
	}
	if f.MinRange < 2*f.FadeSize {
		return fmt.Errorf("%w: artifact min range %d must be >= twice the fade size %d", ErrConfig, f.MinRange, f.FadeSize)
	}
	if math.IsNaN(f.Threshold) {
		return fmt.Errorf("%w: artifact threshold is NaN", ErrConfig)
	}
	return nil
}

// Filter returns the smoothed copy of mag.
func (f MergeArtifacts) Filter(mag *spectrogram.Mask) (*spectrogram.Mask, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	out := mag.Clone()
	if mag.Frames == 0 || mag.Channels == 0 || mag.Bins == 0 {
		return out, nil
	}

	weight := f.frameWeights(frameMinima(mag))
	for c := range out.Channels {
		for b := range out.Bins {
			row := out.Row(c, b)
			for t, w := range weight {
				if w > 0 {
					row[t] += w * (1 - row[t])
				}
			}
		}
	}
	return out, nil
}

// frameWeights builds the per-frame blend weight from per-frame minima.
func (f MergeArtifacts) frameWeights(minima []float64) []float64 {
	n := len(minima)
	weight := make([]float64, n)

	raise := func(t int, w float64) {
		if t >= 0 && t < n && w > weight[t] {
			weight[t] = w
		}
	}

	for _, r := range qualifyingRuns(minima, f.Threshold) {
		// r.End is exclusive.
		if r.End-r.Start-1 <= f.MinRange {
			continue
		}

		inner0, inner1 := r.Start, r.End
		if r.Start > 0 {
			for i := range f.FadeSize {
				raise(r.Start+i, ramp(i, f.FadeSize))
			}
			inner0 += f.FadeSize
		}
		if r.End < n {
			for i := range f.FadeSize {
				raise(r.End-f.FadeSize+i, ramp(f.FadeSize-1-i, f.FadeSize))
			}
			inner1 -= f.FadeSize
		}
		for t := inner0; t < inner1; t++ {
			raise(t, 1)
		}
	}
	return weight
}

// ramp returns the i-th of size evenly spaced points from 0 to 1 inclusive.
func ramp(i, size int) float64 {
	if size <= 1 {
		return 1
	}
	return float64(i) / float64(size-1)
}

type frameRun struct {
	Start, End int
}

func qualifyingRuns(minima []float64, threshold float64) []frameRun {
	var runs []frameRun
	start := -1
	for t, v := range minima {
		switch {
		case v > threshold && start < 0:
			start = t
		case v <= threshold && start >= 0:
			runs = append(runs, frameRun{Start: start, End: t})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, frameRun{Start: start, End: len(minima)})
	}
	return runs
}

func frameMinima(m *spectrogram.Mask) []float64 {
	minima := make([]float64, m.Frames)
	for t := range minima {
		minima[t] = math.Inf(1)
	}
	for c := range m.Channels {
		for b := range m.Bins {
			for t, v := range m.Row(c, b) {
				if v < minima[t] {
					minima[t] = v
				}
			}
		}
	}
	return minima
}
