package separate

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// Result holds the two stems of a separation and the mask that produced them.
type Result struct {
	// Instruments is X scaled cellwise by Mask.
	Instruments *spectrogram.Spectrogram
	// Vocals is X minus Instruments.
	Vocals *spectrogram.Spectrogram
	// Mask is the applied mask after postprocessing.
	Mask *spectrogram.Mask
}

// Split applies mask to x. When filter is not nil it is run over |mask|
// first and the sign of every weight is restored afterwards.
//
// Vocals is computed as the cellwise difference x - Instruments, so the two
// stems sum back to x for any mask.
func Split(x *spectrogram.Spectrogram, mask *spectrogram.Mask, filter ArtifactFilter) (*Result, error) {
	if x.Shape != mask.Shape {
		return nil, fmt.Errorf("%w: mask %s for spectrogram %s", ErrShapeMismatch, mask.Shape, x.Shape)
	}

	if filter != nil {
		filtered, err := postprocess(mask, filter)
		if err != nil {
			return nil, err
		}
		mask = filtered
	}

	kept := spectrogram.New(x.Channels, x.Bins, x.Frames)
	residual := spectrogram.New(x.Channels, x.Bins, x.Frames)
	for i, v := range x.Data {
		m := mask.Data[i]
		k := complex(real(v)*m, imag(v)*m)
		kept.Data[i] = k
		residual.Data[i] = v - k
	}

	return &Result{Instruments: kept, Vocals: residual, Mask: mask}, nil
}

func postprocess(mask *spectrogram.Mask, filter ArtifactFilter) (*spectrogram.Mask, error) {
	mag := mask.Clone()
	for i, v := range mag.Data {
		mag.Data[i] = math.Abs(v)
	}

	smoothed, err := filter.Filter(mag)
	if err != nil {
		return nil, fmt.Errorf("separate: artifact filter: %w", err)
	}
	if smoothed.Shape != mask.Shape {
		return nil, fmt.Errorf("%w: artifact filter returned %s for %s", ErrShapeMismatch, smoothed.Shape, mask.Shape)
	}

	out := smoothed.Clone()
	for i, v := range mask.Data {
		if v < 0 {
			out.Data[i] = -out.Data[i]
		}
	}
	return out, nil
}
