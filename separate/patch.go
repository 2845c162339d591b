package separate

import (
	"fmt"
	"iter"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// Patches is the ordered crop sequence of a padded spectrogram. Crop i
// starts at frame i*stride and its central region maps to frames
// [i*stride, (i+1)*stride) of the reassembled mask.
//
// Crops are cut on demand; the sequence can be traversed any number of times.
type Patches struct {
	src    *spectrogram.Spectrogram
	width  int
	stride int
	count  int
}

// NewPatches prepares the crop sequence of padded for cropWidth-frame crops
// spaced stride frames apart.
func NewPatches(padded *spectrogram.Spectrogram, cropWidth, stride int) (*Patches, error) {
	if stride <= 0 || cropWidth < stride || (cropWidth-stride)%2 != 0 {
		return nil, fmt.Errorf("%w: crop width %d incompatible with stride %d", ErrConfig, cropWidth, stride)
	}

	offset := (cropWidth - stride) / 2
	count := max((padded.Frames-2*offset)/stride, 0)

	return &Patches{src: padded, width: cropWidth, stride: stride, count: count}, nil
}

// Len returns the number of crops.
func (p *Patches) Len() int { return p.count }

// Width returns the crop width in frames.
func (p *Patches) Width() int { return p.width }

// Stride returns the distance between crop starts.
func (p *Patches) Stride() int { return p.stride }

// Shape returns the shape every crop has.
func (p *Patches) Shape() spectrogram.Shape {
	return spectrogram.Shape{Channels: p.src.Channels, Bins: p.src.Bins, Frames: p.width}
}

// At returns crop i.
func (p *Patches) At(i int) *spectrogram.Spectrogram {
	if i < 0 || i >= p.count {
		panic(fmt.Sprintf("separate: crop %d out of range [0,%d)", i, p.count))
	}
	return p.src.Crop(i*p.stride, p.width)
}

// All yields (index, crop) pairs in order.
func (p *Patches) All() iter.Seq2[int, *spectrogram.Spectrogram] {
	return func(yield func(int, *spectrogram.Spectrogram) bool) {
		for i := range p.count {
			if !yield(i, p.At(i)) {
				return
			}
		}
	}
}
