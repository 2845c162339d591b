package separate

import (
	"fmt"
	"log/slog"
)

const (
	defaultCropWidth = 256
	defaultOffset    = 64
	defaultBatchSize = 4
)

// Config holds the scheduling parameters of a Separator.
type Config struct {
	// CropWidth is the number of frames in each crop fed to the model.
	CropWidth int
	// Offset is the context margin on each side of a crop.
	Offset int
	// BatchSize is the maximum number of crops per model call.
	BatchSize int
	// TTA enables the half-stride shifted second pass.
	TTA bool
	// Postprocess runs the artifact filter over the mask before splitting.
	Postprocess bool
	// Parallelism bounds the number of batches evaluated concurrently.
	Parallelism int
}

// DefaultConfig returns the defaults used by the reference separation
// model: 256-frame crops with 64 frames of context, batches of 4.
func DefaultConfig() Config {
	return Config{
		CropWidth:   defaultCropWidth,
		Offset:      defaultOffset,
		BatchSize:   defaultBatchSize,
		Parallelism: 1,
	}
}

// Stride returns the width of a crop's central region.
func (c Config) Stride() int { return c.CropWidth - 2*c.Offset }

// Validate reports the first unusable field, wrapping ErrConfig.
func (c Config) Validate() error {
	if c.CropWidth <= 0 {
		return fmt.Errorf("%w: crop width must be > 0: %d", ErrConfig, c.CropWidth)
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0: %d", ErrConfig, c.Offset)
	}
	if c.Stride() <= 0 {
		return fmt.Errorf("%w: offset %d leaves no stride in a %d-frame crop", ErrConfig, c.Offset, c.CropWidth)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be > 0: %d", ErrConfig, c.BatchSize)
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("%w: parallelism must be > 0: %d", ErrConfig, c.Parallelism)
	}
	return nil
}

// ProgressFunc receives the number of finished and total crop batches
// across all passes of one separation.
type ProgressFunc func(done, total int)

type options struct {
	cfg       Config
	offsetSet bool
	filter    ArtifactFilter
	logger    *slog.Logger
	progress  ProgressFunc
}

// Option configures a Separator.
type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
		o.offsetSet = true
	}
}

// WithCropWidth sets the crop width in frames.
func WithCropWidth(frames int) Option {
	return func(o *options) {
		o.cfg.CropWidth = frames
	}
}

// WithOffset sets the context margin in frames. Without it, a model that
// implements ContextMargin supplies the offset.
func WithOffset(frames int) Option {
	return func(o *options) {
		o.cfg.Offset = frames
		o.offsetSet = true
	}
}

// WithBatchSize sets the maximum number of crops per model call.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.cfg.BatchSize = n
	}
}

// WithTTA toggles test-time augmentation.
func WithTTA(enabled bool) Option {
	return func(o *options) {
		o.cfg.TTA = enabled
	}
}

// WithPostprocess toggles artifact filtering of the mask.
func WithPostprocess(enabled bool) Option {
	return func(o *options) {
		o.cfg.Postprocess = enabled
	}
}

// WithParallelism sets how many batches may be evaluated at once. Only
// use values above 1 with a model that is safe for concurrent use.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.cfg.Parallelism = n
	}
}

// WithArtifactFilter replaces the default MergeArtifacts filter used when
// postprocessing is enabled.
func WithArtifactFilter(f ArtifactFilter) Option {
	return func(o *options) {
		if f != nil {
			o.filter = f
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress registers a callback invoked after every finished batch.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}
