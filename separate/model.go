package separate

import (
	"context"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// Model predicts one mask per crop.
//
// Each returned mask covers the crop's central region, i.e. it has the
// crop's channel and bin extents and CropWidth-2*Offset frames. A mask
// spanning the whole crop is also accepted; its context margins are cut
// off. Implementations must not retain or modify the batch, and must
// return the same result for the same input regardless of call order.
type Model interface {
	PredictMask(ctx context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error)

// PredictMask calls f.
func (f ModelFunc) PredictMask(ctx context.Context, batch []*spectrogram.Spectrogram) ([]*spectrogram.Mask, error) {
	return f(ctx, batch)
}

// ContextMargin is implemented by models that require a fixed context
// margin. New uses it as the default offset.
type ContextMargin interface {
	Offset() int
}
