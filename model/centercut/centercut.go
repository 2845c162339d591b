// Package centercut is a model-free mask predictor that separates
// center-panned content from the rest of a stereo mix.
//
// For every cell it measures how alike the left and right channels are over
// a short run of neighbouring frames,
//
//	center = max(0, 2*Re(sum L*conj(R)) / (sum |L|^2 + sum |R|^2)),
//
// which is 1 exactly when both channels carry the same signal and falls to 0
// for unrelated or anti-phase channels. The instruments mask is 1 - center,
// raised to at least Floor. Lead vocals are usually mixed to the center, so
// the residual of the mask is the vocal stem.
package centercut

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
	"github.com/cwbudde/algo-unmix/separate"
)

// Name identifies the model in configuration files.
const Name = "centercut"

const (
	defaultRadius = 2
	// Cells below this summed energy are treated as silent and kept.
	energyFloor = 1e-12
)

var (
	// ErrInvalidParameter indicates an unusable radius or floor.
	ErrInvalidParameter = errors.New("centercut: invalid parameter")
	// ErrNotStereo indicates a crop without exactly two channels.
	ErrNotStereo = errors.New("centercut: input is not stereo")
)

var (
	_ separate.Model         = (*Model)(nil)
	_ separate.ContextMargin = (*Model)(nil)
)

// Option configures a Model.
type Option func(*Model)

// WithRadius sets the number of neighbouring frames on each side that enter
// the similarity estimate. Larger radii give smoother masks.
func WithRadius(frames int) Option {
	return func(m *Model) {
		m.radius = frames
	}
}

// WithFloor sets the minimum instruments weight.
func WithFloor(floor float64) Option {
	return func(m *Model) {
		m.floor = floor
	}
}

// Model predicts instruments masks from inter-channel similarity. It holds
// no mutable state and is safe for concurrent use.
type Model struct {
	radius int
	floor  float64
}

// New creates a Model. The default radius is 2 frames and the floor is 0.
func New(opts ...Option) (*Model, error) {
	m := &Model{radius: defaultRadius}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.radius < 0 {
		return nil, fmt.Errorf("%w: radius must be >= 0: %d", ErrInvalidParameter, m.radius)
	}
	if math.IsNaN(m.floor) || m.floor < 0 || m.floor > 1 {
		return nil, fmt.Errorf("%w: floor must be in [0, 1]: %v", ErrInvalidParameter, m.floor)
	}
	return m, nil
}

// Radius returns the smoothing radius in frames.
func (m *Model) Radius() int { return m.radius }

// Floor returns the minimum instruments weight.
func (m *Model) Floor() float64 { return m.floor }

// Offset reports the context the model needs on each side of an output
// frame, which is its radius.
func (m *Model) Offset() int { return m.radius }

// PredictMask returns one crop-wide mask per crop. Frames near the crop
// edges see a truncated neighbourhood; a separator with offset >= Radius
// discards them.
func (m *Model) PredictMask(ctx context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error) {
	out := make([]*spectrogram.Mask, len(batch))
	for i, crop := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if crop.Channels != 2 {
			return nil, fmt.Errorf("%w: crop %d has %d channels", ErrNotStereo, i, crop.Channels)
		}
		out[i] = m.predict(crop)
	}
	return out, nil
}

func (m *Model) predict(crop *spectrogram.Spectrogram) *spectrogram.Mask {
	mask := spectrogram.NewMask(crop.Channels, crop.Bins, crop.Frames)
	for b := range crop.Bins {
		left, right := crop.Row(0, b), crop.Row(1, b)
		outL, outR := mask.Row(0, b), mask.Row(1, b)
		for t := range crop.Frames {
			w := m.weight(left, right, t)
			outL[t] = w
			outR[t] = w
		}
	}
	return mask
}

// weight computes the instruments weight of frame t.
func (m *Model) weight(left, right []complex128, t int) float64 {
	lo := max(t-m.radius, 0)
	hi := min(t+m.radius, len(left)-1)

	var cross, energy float64
	for k := lo; k <= hi; k++ {
		l, r := left[k], right[k]
		cross += dot(l, r)
		energy += dot(l, l) + dot(r, r)
	}
	if energy < energyFloor {
		return 1
	}

	center := min(max(2*cross/energy, 0), 1)
	return max(1-center, m.floor)
}

// dot returns Re(a*conj(b)). The conversions keep the products unfused so
// dot(a, a) and dot(a, b) agree bit for bit when a == b.
func dot(a, b complex128) float64 {
	return float64(real(a)*real(b)) + float64(imag(a)*imag(b))
}
