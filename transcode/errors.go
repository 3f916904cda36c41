package transcode

import (
	"fmt"

	"github.com/RyanBlaney/courtside/highlights"
)

// ErrUnsupportedFormat marks media the acquisition layer cannot turn into a
// SampleBuffer. It matches highlights.ErrUnsupportedFormat under errors.Is.
var ErrUnsupportedFormat = fmt.Errorf("transcode: %w", highlights.ErrUnsupportedFormat)
