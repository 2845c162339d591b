package separate

import (
	"context"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// neighbourhoodModel returns, for every central cell of a crop, the mean
// magnitude over the radius frames around it. With radius <= offset the
// mask of an input frame does not depend on where the crop grid falls.
type neighbourhoodModel struct {
	offset int
	radius int

	mu     sync.Mutex
	calls  int
	sizes  []int
	failAt int
}

func (m *neighbourhoodModel) Offset() int { return m.offset }

func (m *neighbourhoodModel) PredictMask(ctx context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error) {
	m.mu.Lock()
	m.calls++
	m.sizes = append(m.sizes, len(batch))
	call := m.calls
	m.mu.Unlock()

	if m.failAt > 0 && call == m.failAt {
		return nil, errModelFailure
	}

	out := make([]*spectrogram.Mask, len(batch))
	for i, crop := range batch {
		stride := crop.Frames - 2*m.offset
		mask := spectrogram.NewMask(crop.Channels, crop.Bins, stride)
		for c := range crop.Channels {
			for b := range crop.Bins {
				row := crop.Row(c, b)
				for t := range stride {
					center := t + m.offset
					sum := 0.0
					for k := center - m.radius; k <= center+m.radius; k++ {
						sum += cmplx.Abs(row[k])
					}
					mask.Set(c, b, t, sum/float64(2*m.radius+1))
				}
			}
		}
		out[i] = mask
	}
	return out, nil
}

type modelError string

func (e modelError) Error() string { return string(e) }

const errModelFailure = modelError("model exploded")

// expectedNeighbourhoodMask computes what a single pass of neighbourhoodModel
// produces for x, straight from x.
func expectedNeighbourhoodMask(x *spectrogram.Spectrogram, radius int) *spectrogram.Mask {
	scaled := x.Clone()
	scaled.Scale(1 / x.MaxAbs())

	out := spectrogram.NewMask(x.Channels, x.Bins, x.Frames)
	for c := range x.Channels {
		for b := range x.Bins {
			row := scaled.Row(c, b)
			for t := range x.Frames {
				sum := 0.0
				for k := t - radius; k <= t+radius; k++ {
					if k >= 0 && k < x.Frames {
						sum += cmplx.Abs(row[k])
					}
				}
				out.Set(c, b, t, sum/float64(2*radius+1))
			}
		}
	}
	return out
}

// constantModel returns masks filled with value, optionally spanning the
// whole crop instead of its central region.
func constantModel(value float64, offset int, fullWidth bool) ModelFunc {
	return func(_ context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error) {
		out := make([]*spectrogram.Mask, len(batch))
		for i, crop := range batch {
			frames := crop.Frames - 2*offset
			if fullWidth {
				frames = crop.Frames
			}
			out[i] = spectrogram.NewMask(crop.Channels, crop.Bins, frames)
			out[i].Fill(value)
		}
		return out, nil
	}
}
