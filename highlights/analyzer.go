package highlights

import (
	"fmt"

	"github.com/RyanBlaney/courtside/algorithms/spectral"
	"github.com/RyanBlaney/courtside/algorithms/temporal"
	"github.com/RyanBlaney/courtside/algorithms/windowing"
	"github.com/RyanBlaney/courtside/logging"
)

// FrameCursor walks a SampleBuffer one window at a time. It reads the
// buffer without copying or modifying it.
type FrameCursor struct {
	samples []float64

	grid      temporal.FrameGrid
	numFrames int
	next      int

	energy *temporal.Energy
	taper  windowing.Window
	fft    *spectral.FFT
	band   *spectral.BandRatio
	freqs  []float64
}

// NewFrameCursor validates buf and cfg and prepares the per-frame tools.
func NewFrameCursor(buf SampleBuffer, cfg AnalyzerConfig) (*FrameCursor, error) {
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, buf.SampleRate)
	}
	if buf.Channels > 1 {
		return nil, fmt.Errorf("%w: %d channels, expected mono", ErrUnsupportedFormat, buf.Channels)
	}

	grid := temporal.NewFrameGrid(buf.SampleRate, cfg.WindowSeconds, cfg.HopSeconds)
	hopSamples := cfg.HopSeconds * float64(buf.SampleRate)
	if grid.FrameSize <= 0 || hopSamples < 1 {
		return nil, fmt.Errorf("%w: window %.3fs and hop %.3fs give %d/%.2f samples at %d Hz",
			ErrInvalidConfig, cfg.WindowSeconds, cfg.HopSeconds, grid.FrameSize, hopSamples, buf.SampleRate)
	}
	frameSize := grid.FrameSize
	if cfg.WhistleLowHz > cfg.WhistleHighHz {
		return nil, fmt.Errorf("%w: whistle band [%.0f, %.0f] Hz is inverted",
			ErrInvalidConfig, cfg.WhistleLowHz, cfg.WhistleHighHz)
	}

	taper, err := windowing.New(cfg.Taper, frameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	energy := temporal.NewEnergy(frameSize, int(hopSamples))
	fft := spectral.NewFFT(buf.SampleRate)

	return &FrameCursor{
		samples:   buf.Samples,
		grid:      grid,
		numFrames: grid.Count(len(buf.Samples)),
		energy:    energy,
		taper:     taper,
		fft:       fft,
		band:      spectral.NewBandRatio(cfg.WhistleLowHz, cfg.WhistleHighHz),
		freqs:     fft.BinFrequencies(frameSize),
	}, nil
}

// Len returns the total number of frames the cursor will produce.
func (c *FrameCursor) Len() int {
	return c.numFrames
}

// HopSeconds returns the spacing between frame start times.
func (c *FrameCursor) HopSeconds() float64 {
	return c.grid.HopSeconds
}

// Next returns the next frame, or false once the buffer is exhausted.
func (c *FrameCursor) Next() (EnergyFrame, bool) {
	if c.next >= c.numFrames {
		return EnergyFrame{}, false
	}

	i := c.next
	start := c.grid.Start(i)
	chunk := c.samples[start : start+c.grid.FrameSize]
	c.next++

	return EnergyFrame{
		StartTime:    c.grid.Time(i),
		RMSDB:        c.energy.Decibels(c.energy.RMS(chunk)),
		WhistleRatio: c.band.Compute(c.fft.Magnitude(c.taper.Apply(chunk)), c.freqs),
	}, true
}

// Analyze computes the full feature track of buf. Buffers shorter than one
// window yield an empty track.
func Analyze(buf SampleBuffer, cfg AnalyzerConfig) ([]EnergyFrame, error) {
	cursor, err := NewFrameCursor(buf, cfg)
	if err != nil {
		return nil, err
	}

	frames := make([]EnergyFrame, 0, cursor.Len())
	for {
		frame, ok := cursor.Next()
		if !ok {
			break
		}
		frames = append(frames, frame)
	}

	logging.Debug("Feature track computed", logging.Fields{
		"component":   "highlights",
		"function":    "Analyze",
		"sample_rate": buf.SampleRate,
		"samples":     len(buf.Samples),
		"frames":      len(frames),
		"frame_size":  cursor.grid.FrameSize,
		"hop_seconds": cursor.grid.HopSeconds,
	})

	return frames, nil
}
