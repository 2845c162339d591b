package spectrogram

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// ErrShape is returned when two containers do not share the required extents.
var ErrShape = errors.New("spectrogram: shape mismatch")

// Shape describes the extents of a spectrogram or mask.
type Shape struct {
	Channels int
	Bins     int
	Frames   int
}

// Len returns the number of cells.
func (s Shape) Len() int { return s.Channels * s.Bins * s.Frames }

// String formats the shape as [channels bins frames].
func (s Shape) String() string {
	return fmt.Sprintf("[%d %d %d]", s.Channels, s.Bins, s.Frames)
}

// Spectrogram is a complex [channel][bin][frame] array.
type Spectrogram struct {
	Shape
	Data []complex128
}

// New returns a zero-filled spectrogram. Negative extents are treated as 0.
func New(channels, bins, frames int) *Spectrogram {
	shape := Shape{Channels: max(channels, 0), Bins: max(bins, 0), Frames: max(frames, 0)}
	return &Spectrogram{Shape: shape, Data: make([]complex128, shape.Len())}
}

// FromData wraps data without copying. len(data) must match the extents.
func FromData(channels, bins, frames int, data []complex128) (*Spectrogram, error) {
	shape := Shape{Channels: channels, Bins: bins, Frames: frames}
	if channels < 0 || bins < 0 || frames < 0 || len(data) != shape.Len() {
		return nil, fmt.Errorf("%w: %d cells for %s", ErrShape, len(data), shape)
	}
	return &Spectrogram{Shape: shape, Data: data}, nil
}

func (s *Spectrogram) index(c, b, t int) int { return (c*s.Bins+b)*s.Frames + t }

// At returns the cell at channel c, bin b, frame t.
func (s *Spectrogram) At(c, b, t int) complex128 { return s.Data[s.index(c, b, t)] }

// Set stores v at channel c, bin b, frame t.
func (s *Spectrogram) Set(c, b, t int, v complex128) { s.Data[s.index(c, b, t)] = v }

// Row returns the frames of channel c, bin b. The slice aliases Data.
func (s *Spectrogram) Row(c, b int) []complex128 {
	start := s.index(c, b, 0)
	return s.Data[start : start+s.Frames]
}

// Clone returns a deep copy.
func (s *Spectrogram) Clone() *Spectrogram {
	out := &Spectrogram{Shape: s.Shape, Data: make([]complex128, len(s.Data))}
	copy(out.Data, s.Data)
	return out
}

// Pad returns a copy with left and right zero frames added on the time axis.
func (s *Spectrogram) Pad(left, right int) *Spectrogram {
	left, right = max(left, 0), max(right, 0)
	out := New(s.Channels, s.Bins, s.Frames+left+right)
	for c := range s.Channels {
		for b := range s.Bins {
			copy(out.Row(c, b)[left:], s.Row(c, b))
		}
	}
	return out
}

// Crop returns a copy of frames [start, start+width).
// It panics if the range is outside the spectrogram, like slicing does.
func (s *Spectrogram) Crop(start, width int) *Spectrogram {
	if start < 0 || width < 0 || start+width > s.Frames {
		panic(fmt.Sprintf("spectrogram: crop [%d:%d] out of range for %d frames", start, start+width, s.Frames))
	}
	out := New(s.Channels, s.Bins, width)
	for c := range s.Channels {
		for b := range s.Bins {
			copy(out.Row(c, b), s.Row(c, b)[start:start+width])
		}
	}
	return out
}

// MaxAbs returns the largest cell magnitude, 0 for an empty or silent spectrogram.
func (s *Spectrogram) MaxAbs() float64 {
	if s.Frames == 0 {
		return 0
	}

	re := make([]float64, s.Frames)
	im := make([]float64, s.Frames)
	mag := make([]float64, s.Frames)

	peak := 0.0
	for c := range s.Channels {
		for b := range s.Bins {
			for t, v := range s.Row(c, b) {
				re[t] = real(v)
				im[t] = imag(v)
			}
			vecmath.Magnitude(mag, re, im)
			for _, m := range mag {
				if m > peak {
					peak = m
				}
			}
		}
	}
	return peak
}

// Scale multiplies every cell by the real factor f in place.
func (s *Spectrogram) Scale(f float64) {
	k := complex(f, 0)
	for i := range s.Data {
		s.Data[i] *= k
	}
}

// Magnitude returns |X| as a mask-shaped array.
func (s *Spectrogram) Magnitude() *Mask {
	out := NewMask(s.Channels, s.Bins, s.Frames)
	if len(s.Data) == 0 {
		return out
	}

	re := make([]float64, len(s.Data))
	im := make([]float64, len(s.Data))
	for i, v := range s.Data {
		re[i] = real(v)
		im[i] = imag(v)
	}
	vecmath.Magnitude(out.Data, re, im)
	return out
}
