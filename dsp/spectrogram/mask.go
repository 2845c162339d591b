package spectrogram

import (
	"fmt"
)

// Mask is a real [channel][bin][frame] array of per-cell weights.
type Mask struct {
	Shape
	Data []float64
}

// NewMask returns a zero-filled mask. Negative extents are treated as 0.
func NewMask(channels, bins, frames int) *Mask {
	shape := Shape{Channels: max(channels, 0), Bins: max(bins, 0), Frames: max(frames, 0)}
	return &Mask{Shape: shape, Data: make([]float64, shape.Len())}
}

// MaskFromData wraps data without copying. len(data) must match the extents.
func MaskFromData(channels, bins, frames int, data []float64) (*Mask, error) {
	shape := Shape{Channels: channels, Bins: bins, Frames: frames}
	if channels < 0 || bins < 0 || frames < 0 || len(data) != shape.Len() {
		return nil, fmt.Errorf("%w: %d cells for %s", ErrShape, len(data), shape)
	}
	return &Mask{Shape: shape, Data: data}, nil
}

func (m *Mask) index(c, b, t int) int { return (c*m.Bins+b)*m.Frames + t }

// At returns the weight at channel c, bin b, frame t.
func (m *Mask) At(c, b, t int) float64 { return m.Data[m.index(c, b, t)] }

// Set stores v at channel c, bin b, frame t.
func (m *Mask) Set(c, b, t int, v float64) { m.Data[m.index(c, b, t)] = v }

// Row returns the frames of channel c, bin b. The slice aliases Data.
func (m *Mask) Row(c, b int) []float64 {
	start := m.index(c, b, 0)
	return m.Data[start : start+m.Frames]
}

// Fill sets every weight to v.
func (m *Mask) Fill(v float64) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := &Mask{Shape: m.Shape, Data: make([]float64, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// Crop returns a copy of frames [start, start+width).
// It panics if the range is outside the mask.
func (m *Mask) Crop(start, width int) *Mask {
	if start < 0 || width < 0 || start+width > m.Frames {
		panic(fmt.Sprintf("spectrogram: mask crop [%d:%d] out of range for %d frames", start, start+width, m.Frames))
	}
	out := NewMask(m.Channels, m.Bins, width)
	for c := range m.Channels {
		for b := range m.Bins {
			copy(out.Row(c, b), m.Row(c, b)[start:start+width])
		}
	}
	return out
}

// Truncate returns the first n frames. A mask that is already n frames
// long or shorter is returned as is.
func (m *Mask) Truncate(n int) *Mask {
	if n >= m.Frames {
		return m
	}
	return m.Crop(0, max(n, 0))
}

// Paste copies src into m starting at frame at. Channel and bin extents
// must match and src must fit.
func (m *Mask) Paste(src *Mask, at int) error {
	if src.Channels != m.Channels || src.Bins != m.Bins {
		return fmt.Errorf("%w: paste %s into %s", ErrShape, src.Shape, m.Shape)
	}
	if at < 0 || at+src.Frames > m.Frames {
		return fmt.Errorf("%w: paste %d frames at %d into %d", ErrShape, src.Frames, at, m.Frames)
	}
	for c := range m.Channels {
		for b := range m.Bins {
			copy(m.Row(c, b)[at:], src.Row(c, b))
		}
	}
	return nil
}

// Average returns the elementwise mean of a and b.
func Average(a, b *Mask) (*Mask, error) {
	if a.Shape != b.Shape {
		return nil, fmt.Errorf("%w: average %s with %s", ErrShape, a.Shape, b.Shape)
	}
	out := NewMask(a.Channels, a.Bins, a.Frames)
	for i := range out.Data {
		out.Data[i] = (a.Data[i] + b.Data[i]) * 0.5
	}
	return out, nil
}

// Concat joins masks along the frame axis in order.
func Concat(masks ...*Mask) (*Mask, error) {
	if len(masks) == 0 {
		return NewMask(0, 0, 0), nil
	}

	frames := 0
	for _, m := range masks {
		if m.Channels != masks[0].Channels || m.Bins != masks[0].Bins {
			return nil, fmt.Errorf("%w: concat %s with %s", ErrShape, m.Shape, masks[0].Shape)
		}
		frames += m.Frames
	}

	out := NewMask(masks[0].Channels, masks[0].Bins, frames)
	at := 0
	for _, m := range masks {
		if err := out.Paste(m, at); err != nil {
			return nil, err
		}
		at += m.Frames
	}
	return out, nil
}
