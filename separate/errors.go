package separate

import "errors"

// Errors returned by the separation pipeline. Returned errors wrap one of
// these; test with errors.Is.
var (
	// ErrConfig indicates an unusable crop/offset/batch configuration.
	ErrConfig = errors.New("separate: invalid configuration")
	// ErrShapeMismatch indicates the model returned a mask that does not
	// correspond to its input crop.
	ErrShapeMismatch = errors.New("separate: model mask shape mismatch")
	// ErrDegenerateInput indicates an empty or fully silent spectrogram,
	// which cannot be normalized.
	ErrDegenerateInput = errors.New("separate: degenerate input")
)
