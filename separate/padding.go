package separate

import "fmt"

// Plan describes how to pad a spectrogram so it tiles into crops.
type Plan struct {
	// Left and Right are the zero frames added before and after the input.
	Left, Right int
	// Stride is the distance between consecutive crop starts.
	Stride int
	// Offset is the context margin of every crop.
	Offset int
	// Shift is the number of extra frames injected before the input on top
	// of Offset. It is 0 for a regular plan.
	Shift int
}

// MakePadding plans the padding of an nFrames-long spectrogram for crops of
// cropWidth frames with offset frames of context on each side.
//
// Left is offset. Right is the smallest pad that makes the usable region
// (padded length minus both margins) a whole number of strides covering
// every input frame.
func MakePadding(nFrames, cropWidth, offset int) (Plan, error) {
	return MakeShiftedPadding(nFrames, cropWidth, offset, 0)
}

// MakeShiftedPadding plans padding with shift additional zero frames before
// the input, moving the crop grid by shift frames relative to the signal.
// Right is re-derived as the smallest pad that still covers the shifted
// input, so it lies in [offset, offset+stride) instead of being the unshifted
// right pad plus shift. The shifted pass may therefore need fewer crops; the
// mask over the original frames is unaffected.
func MakeShiftedPadding(nFrames, cropWidth, offset, shift int) (Plan, error) {
	if nFrames < 0 {
		return Plan{}, fmt.Errorf("%w: frame count must be >= 0: %d", ErrConfig, nFrames)
	}
	if offset < 0 || shift < 0 {
		return Plan{}, fmt.Errorf("%w: offset and shift must be >= 0: %d, %d", ErrConfig, offset, shift)
	}

	stride := cropWidth - 2*offset
	if stride <= 0 {
		return Plan{}, fmt.Errorf("%w: crop width %d with offset %d gives stride %d", ErrConfig, cropWidth, offset, stride)
	}

	covered := nFrames + shift
	crops := (covered + stride - 1) / stride

	return Plan{
		Left:   offset + shift,
		Right:  crops*stride - covered + offset,
		Stride: stride,
		Offset: offset,
		Shift:  shift,
	}, nil
}

// CropWidth returns the crop width the plan was made for.
func (p Plan) CropWidth() int { return p.Stride + 2*p.Offset }

// PaddedLen returns the frame count after padding nFrames frames.
func (p Plan) PaddedLen(nFrames int) int { return nFrames + p.Left + p.Right }

// Crops returns the number of crops the padded spectrogram yields.
func (p Plan) Crops(nFrames int) int {
	return (p.PaddedLen(nFrames) - 2*p.Offset) / p.Stride
}
