package temporal

import (
	"math"
)

// FrameGrid lays frames out on a time axis. Frame i starts at the sample
// nearest i*HopSeconds, so start times stay on the configured hop even
// when the hop is not a whole number of samples.
type FrameGrid struct {
	SampleRate    int
	WindowSeconds float64
	HopSeconds    float64
	FrameSize     int
}

// NewFrameGrid creates a grid whose frames are int(sampleRate*window)
// samples long.
func NewFrameGrid(sampleRate int, window, hop float64) FrameGrid {
	return FrameGrid{
		SampleRate:    sampleRate,
		WindowSeconds: window,
		HopSeconds:    hop,
		FrameSize:     int(float64(sampleRate) * window),
	}
}

// Count returns floor((n/sr - window) / hop) + 1 for a signal of n
// samples, or 0 when not even one window fits.
func (g FrameGrid) Count(n int) int {
	if g.SampleRate <= 0 || g.HopSeconds <= 0 || g.FrameSize <= 0 || n < g.FrameSize {
		return 0
	}

	x := (float64(n)/float64(g.SampleRate) - g.WindowSeconds) / g.HopSeconds
	if x < -1e-9 {
		return 0
	}
	count := int(math.Floor(x+1e-9)) + 1

	for count > 0 && g.Start(count-1)+g.FrameSize > n {
		count--
	}
	return count
}

// Start returns the first sample of frame i.
func (g FrameGrid) Start(i int) int {
	return int(math.Round(float64(i) * g.HopSeconds * float64(g.SampleRate)))
}

// Time returns the start time of frame i in seconds.
func (g FrameGrid) Time(i int) float64 {
	return float64(i) * g.HopSeconds
}
