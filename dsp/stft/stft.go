// Package stft converts multichannel waveforms to complex spectrograms and back.
//
// Analysis frames are centered: the signal is zero-padded by nfft/2 samples
// on both sides, so frame f is centered on sample f*hop and a signal of n
// samples yields 1 + n/hop frames. Synthesis is a windowed overlap-add
// normalized by the summed squared window, which reconstructs the input
// exactly for any hop at which that sum stays non-zero.
package stft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
	"github.com/cwbudde/algo-unmix/dsp/window"
)

const (
	minFFTSize  = 16
	overlapNorm = 1e-10
)

var (
	// ErrInvalidSize indicates an unsupported FFT size or hop length.
	ErrInvalidSize = errors.New("stft: invalid size")
	// ErrChannelLength indicates channels of differing or zero length.
	ErrChannelLength = errors.New("stft: invalid channel length")
)

// Option configures a Codec.
type Option func(*Codec)

// WithWindow selects the analysis/synthesis window. Default Hann.
func WithWindow(t window.Type) Option {
	return func(c *Codec) {
		c.windowType = t
	}
}

// Codec is a fixed-size STFT/ISTFT pair. It is not safe for concurrent use.
type Codec struct {
	nfft       int
	hop        int
	windowType window.Type
	coeffs     []float64
	plan       *algofft.Plan[complex128]
	frame      []complex128
}

// New creates a codec. nfft must be a power of two >= 16 and hop in [1, nfft].
func New(nfft, hop int, opts ...Option) (*Codec, error) {
	if nfft < minFFTSize || nfft&(nfft-1) != 0 {
		return nil, fmt.Errorf("%w: fft size must be a power of two >= %d: %d", ErrInvalidSize, minFFTSize, nfft)
	}
	if hop <= 0 || hop > nfft {
		return nil, fmt.Errorf("%w: hop must be in [1, %d]: %d", ErrInvalidSize, nfft, hop)
	}

	c := &Codec{nfft: nfft, hop: hop, windowType: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	plan, err := algofft.NewPlan64(nfft)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	c.plan = plan
	c.coeffs = window.Generate(c.windowType, nfft, window.WithPeriodic())
	c.frame = make([]complex128, nfft)

	return c, nil
}

// FFTSize returns the frame length in samples.
func (c *Codec) FFTSize() int { return c.nfft }

// Hop returns the hop length in samples.
func (c *Codec) Hop() int { return c.hop }

// Bins returns the number of non-negative frequency bins, nfft/2 + 1.
func (c *Codec) Bins() int { return c.nfft/2 + 1 }

// Frames returns the frame count Forward produces for n samples.
func (c *Codec) Frames(n int) int { return 1 + n/c.hop }

// Forward computes the spectrogram of channels. All channels must have the
// same, non-zero length.
func (c *Codec) Forward(channels [][]float64) (*spectrogram.Spectrogram, error) {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrChannelLength)
	}

	n := len(channels[0])
	for i, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrChannelLength, i, len(ch), n)
		}
	}

	frames := c.Frames(n)
	bins := c.Bins()
	half := c.nfft / 2
	out := spectrogram.New(len(channels), bins, frames)

	for ch, samples := range channels {
		for f := range frames {
			start := f*c.hop - half
			for i := range c.nfft {
				x := 0.0
				if idx := start + i; idx >= 0 && idx < n {
					x = samples[idx]
				}
				c.frame[i] = complex(x*c.coeffs[i], 0)
			}

			if err := c.plan.Forward(c.frame, c.frame); err != nil {
				return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
			}

			for b := range bins {
				out.Set(ch, b, f, c.frame[b])
			}
		}
	}

	return out, nil
}

// Inverse reconstructs one waveform per channel. When length > 0 the output
// is cut or zero-extended to length samples, otherwise it is (frames-1)*hop.
func (c *Codec) Inverse(spec *spectrogram.Spectrogram, length int) ([][]float64, error) {
	if spec.Bins != c.Bins() {
		return nil, fmt.Errorf("%w: spectrogram has %d bins, codec expects %d", ErrInvalidSize, spec.Bins, c.Bins())
	}
	if spec.Frames == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrChannelLength)
	}
	if length <= 0 {
		length = (spec.Frames - 1) * c.hop
	}

	norm, err := window.OverlapSquareSum(c.coeffs, c.hop, spec.Frames)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	half := c.nfft / 2
	out := make([][]float64, spec.Channels)
	acc := make([]float64, len(norm))

	for ch := range spec.Channels {
		for i := range acc {
			acc[i] = 0
		}

		for f := range spec.Frames {
			for b := range spec.Bins {
				c.frame[b] = spec.At(ch, b, f)
			}
			// Hermitian mirror for a real-valued inverse.
			c.frame[0] = complex(real(c.frame[0]), 0)
			c.frame[half] = complex(real(c.frame[half]), 0)
			for k := 1; k < half; k++ {
				v := c.frame[k]
				c.frame[c.nfft-k] = complex(real(v), -imag(v))
			}

			if err := c.plan.Inverse(c.frame, c.frame); err != nil {
				return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
			}

			pos := f * c.hop
			for i := range c.nfft {
				acc[pos+i] += real(c.frame[i]) * c.coeffs[i]
			}
		}

		wave := make([]float64, length)
		for i := range wave {
			idx := i + half
			if idx >= len(acc) {
				break
			}
			if norm[idx] > overlapNorm {
				wave[i] = acc[idx] / norm[idx]
			}
		}
		out[ch] = wave
	}

	return out, nil
}
