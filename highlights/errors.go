package highlights

import "errors"

var (
	// ErrUnsupportedFormat means the samples are not mono audio at a known rate.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidConfig means window, hop or band settings cannot be applied.
	ErrInvalidConfig = errors.New("invalid analyzer config")
)
