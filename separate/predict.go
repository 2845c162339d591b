package separate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// Batch is the half-open crop index range [Start, End) of one model call.
type Batch struct {
	Start, End int
}

// Len returns the number of crops in the batch.
func (b Batch) Len() int { return b.End - b.Start }

// BatchRanges splits n crops into consecutive batches of at most size crops.
// Only the last batch may be smaller.
func BatchRanges(n, size int) []Batch {
	if n <= 0 || size <= 0 {
		return nil
	}
	out := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, Batch{Start: start, End: min(start+size, n)})
	}
	return out
}

// Predictor runs a model over a crop sequence in batches and reassembles
// the per-crop masks into one contiguous mask.
type Predictor struct {
	model       Model
	batchSize   int
	parallelism int
	logger      *slog.Logger
}

// NewPredictor creates a predictor. parallelism > 1 evaluates up to that
// many batches concurrently and requires a model safe for concurrent use.
func NewPredictor(model Model, batchSize, parallelism int) (*Predictor, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: model is nil", ErrConfig)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be > 0: %d", ErrConfig, batchSize)
	}
	if parallelism <= 0 {
		return nil, fmt.Errorf("%w: parallelism must be > 0: %d", ErrConfig, parallelism)
	}
	return &Predictor{
		model:       model,
		batchSize:   batchSize,
		parallelism: parallelism,
		logger:      slog.New(slog.DiscardHandler),
	}, nil
}

// SetLogger sets the debug logger. A nil logger is ignored.
func (p *Predictor) SetLogger(l *slog.Logger) {
	if l != nil {
		p.logger = l
	}
}

// BatchSize returns the configured batch size.
func (p *Predictor) BatchSize() int { return p.batchSize }

// Batches returns the number of model calls Predict makes for n crops.
func (p *Predictor) Batches(n int) int { return (n + p.batchSize - 1) / p.batchSize }

// Predict evaluates every crop and returns the mask of length
// patches.Len()*patches.Stride(). onBatch, if not nil, is called once per
// finished batch; calls never overlap.
//
// The context is checked before each batch. The first failing batch aborts
// the prediction.
func (p *Predictor) Predict(ctx context.Context, patches *Patches, onBatch func()) (*spectrogram.Mask, error) {
	crop := patches.Shape()
	stride := patches.Stride()
	out := spectrogram.NewMask(crop.Channels, crop.Bins, patches.Len()*stride)
	batches := BatchRanges(patches.Len(), p.batchSize)

	p.logger.Debug("predicting mask",
		slog.Int("crops", patches.Len()),
		slog.Int("batches", len(batches)),
		slog.Int("batch_size", p.batchSize),
		slog.Int("parallelism", p.parallelism),
	)

	var mu sync.Mutex
	finished := func() {
		if onBatch == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onBatch()
	}

	if p.parallelism == 1 || len(batches) <= 1 {
		for i, b := range batches {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("separate: cancelled before batch %d: %w", i, err)
			}
			if err := p.runBatch(ctx, patches, i, b, out); err != nil {
				return nil, err
			}
			finished()
		}
		return out, nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.parallelism)
	for i, b := range batches {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("separate: cancelled before batch %d: %w", i, err)
			}
			// Batches write disjoint frame ranges of out.
			if err := p.runBatch(gctx, patches, i, b, out); err != nil {
				return err
			}
			finished()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Predictor) runBatch(ctx context.Context, patches *Patches, idx int, b Batch, out *spectrogram.Mask) error {
	crops := make([]*spectrogram.Spectrogram, 0, b.Len())
	for i := b.Start; i < b.End; i++ {
		crops = append(crops, patches.At(i))
	}

	masks, err := p.model.PredictMask(ctx, crops)
	if err != nil {
		return fmt.Errorf("separate: model failed on batch %d: %w", idx, err)
	}
	if len(masks) != len(crops) {
		return fmt.Errorf("%w: batch %d returned %d masks for %d crops", ErrShapeMismatch, idx, len(masks), len(crops))
	}

	stride := patches.Stride()
	offset := (patches.Width() - stride) / 2
	for j, m := range masks {
		region, err := centralRegion(m, patches.Shape(), offset, stride)
		if err != nil {
			return fmt.Errorf("%w: crop %d: %w", ErrShapeMismatch, b.Start+j, err)
		}
		if err := out.Paste(region, (b.Start+j)*stride); err != nil {
			return fmt.Errorf("separate: reassemble crop %d: %w", b.Start+j, err)
		}
	}
	return nil
}

// centralRegion returns the stride-wide part of m that the crop contributes.
func centralRegion(m *spectrogram.Mask, crop spectrogram.Shape, offset, stride int) (*spectrogram.Mask, error) {
	if m == nil {
		return nil, errors.New("nil mask")
	}
	if m.Channels != crop.Channels || m.Bins != crop.Bins {
		return nil, fmt.Errorf("mask %s for crop %s", m.Shape, crop)
	}
	switch m.Frames {
	case stride:
		return m, nil
	case crop.Frames:
		return m.Crop(offset, stride), nil
	default:
		return nil, fmt.Errorf("mask has %d frames, want %d or %d", m.Frames, stride, crop.Frames)
	}
}
