package separate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-unmix/dsp/spectrogram"
)

// Separator schedules a model over whole spectrograms.
//
// A Separator holds no per-request state. Concurrent calls are safe when
// the model is.
type Separator struct {
	cfg       Config
	predictor *Predictor
	filter    ArtifactFilter
	logger    *slog.Logger
	progress  ProgressFunc
}

// New creates a Separator for model. The configuration starts from
// DefaultConfig, takes its offset from the model if it implements
// ContextMargin, and is validated after all options are applied.
func New(model Model, opts ...Option) (*Separator, error) {
	o := options{
		cfg:    DefaultConfig(),
		filter: DefaultMergeArtifacts(),
		logger: slog.New(slog.DiscardHandler),
	}
	if cm, ok := model.(ContextMargin); ok {
		o.cfg.Offset = cm.Offset()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if cm, ok := model.(ContextMargin); ok && o.offsetSet && cm.Offset() > o.cfg.Offset {
		return nil, fmt.Errorf("%w: model needs %d frames of context, offset is %d", ErrConfig, cm.Offset(), o.cfg.Offset)
	}
	if v, ok := o.filter.(interface{ Validate() error }); ok && o.cfg.Postprocess {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	predictor, err := NewPredictor(model, o.cfg.BatchSize, o.cfg.Parallelism)
	if err != nil {
		return nil, err
	}
	predictor.SetLogger(o.logger)

	return &Separator{
		cfg:       o.cfg,
		predictor: predictor,
		filter:    o.filter,
		logger:    o.logger,
		progress:  o.progress,
	}, nil
}

// Config returns the validated configuration.
func (s *Separator) Config() Config { return s.cfg }

// Separate computes the mask of x, with test-time augmentation when
// configured, and splits x into instruments and vocals.
func (s *Separator) Separate(ctx context.Context, x *spectrogram.Spectrogram) (*Result, error) {
	var (
		mask *spectrogram.Mask
		err  error
	)
	if s.cfg.TTA {
		mask, err = s.MaskTTA(ctx, x)
	} else {
		mask, err = s.Mask(ctx, x)
	}
	if err != nil {
		return nil, err
	}

	var filter ArtifactFilter
	if s.cfg.Postprocess {
		filter = s.filter
	}
	return Split(x, mask, filter)
}

// Mask runs a single pass and returns the mask aligned frame by frame
// with x. The model input is normalized by the peak magnitude of x.
func (s *Separator) Mask(ctx context.Context, x *spectrogram.Spectrogram) (*spectrogram.Mask, error) {
	peak, err := checkInput(x)
	if err != nil {
		return nil, err
	}

	plan, err := MakePadding(x.Frames, s.cfg.CropWidth, s.cfg.Offset)
	if err != nil {
		return nil, err
	}

	tracker := s.newTracker(x.Frames, plan)
	padded := x.Pad(plan.Left, plan.Right)
	padded.Scale(1 / peak)
	return s.pass(ctx, padded, x.Frames, plan, tracker)
}

// MaskTTA averages a regular pass with a pass whose crop grid is shifted
// by half a stride, reducing seams at crop boundaries. Each pass is
// normalized by the peak magnitude of its own padded input.
func (s *Separator) MaskTTA(ctx context.Context, x *spectrogram.Spectrogram) (*spectrogram.Mask, error) {
	if _, err := checkInput(x); err != nil {
		return nil, err
	}

	plan, err := MakePadding(x.Frames, s.cfg.CropWidth, s.cfg.Offset)
	if err != nil {
		return nil, err
	}
	shifted, err := MakeShiftedPadding(x.Frames, s.cfg.CropWidth, s.cfg.Offset, plan.Stride/2)
	if err != nil {
		return nil, err
	}

	tracker := s.newTracker(x.Frames, plan, shifted)

	var masks [2]*spectrogram.Mask
	for i, p := range []Plan{plan, shifted} {
		padded := x.Pad(p.Left, p.Right)
		padded.Scale(1 / padded.MaxAbs())

		m, err := s.pass(ctx, padded, x.Frames, p, tracker)
		if err != nil {
			return nil, fmt.Errorf("separate: tta pass %d: %w", i+1, err)
		}
		masks[i] = m
	}

	return spectrogram.Average(masks[0], masks[1])
}

// pass predicts the mask of a padded, normalized spectrogram and cuts out
// the nFrames that belong to the original input.
func (s *Separator) pass(ctx context.Context, padded *spectrogram.Spectrogram, nFrames int, plan Plan, tracker *progressTracker) (*spectrogram.Mask, error) {
	patches, err := NewPatches(padded, plan.CropWidth(), plan.Stride)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("separation pass",
		slog.Int("frames", nFrames),
		slog.Int("pad_left", plan.Left),
		slog.Int("pad_right", plan.Right),
		slog.Int("stride", plan.Stride),
		slog.Int("shift", plan.Shift),
		slog.Int("crops", patches.Len()),
	)

	full, err := s.predictor.Predict(ctx, patches, tracker.step)
	if err != nil {
		return nil, err
	}
	// The left context margin never reaches the mask; only the shift does.
	return full.Crop(plan.Shift, nFrames), nil
}

func checkInput(x *spectrogram.Spectrogram) (float64, error) {
	if x == nil || x.Frames == 0 || x.Channels == 0 || x.Bins == 0 {
		return 0, fmt.Errorf("%w: empty spectrogram", ErrDegenerateInput)
	}
	peak := x.MaxAbs()
	if peak == 0 {
		return 0, fmt.Errorf("%w: spectrogram is silent", ErrDegenerateInput)
	}
	return peak, nil
}

type progressTracker struct {
	fn    ProgressFunc
	done  int
	total int
}

func (s *Separator) newTracker(nFrames int, plans ...Plan) *progressTracker {
	t := &progressTracker{fn: s.progress}
	for _, p := range plans {
		t.total += s.predictor.Batches(p.Crops(nFrames))
	}
	return t
}

// step is only called from Predictor's serialized batch callback.
func (t *progressTracker) step() {
	t.done++
	if t.fn != nil {
		t.fn(t.done, t.total)
	}
}
