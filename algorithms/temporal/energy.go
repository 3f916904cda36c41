package temporal

import (
	"math"
)

// DefaultFloor is added to RMS before the log so silence stays finite.
const DefaultFloor = 1e-10

// Energy computes short-time loudness over overlapping frames.
type Energy struct {
	frameSize int
	hopSize   int
	floor     float64
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
		floor:     DefaultFloor,
	}
}

// NumFrames returns how many full frames fit in a signal of length n.
// Trailing samples that do not fill a frame are dropped.
func (e *Energy) NumFrames(n int) int {
	if e.frameSize <= 0 || e.hopSize <= 0 || n < e.frameSize {
		return 0
	}
	return (n-e.frameSize)/e.hopSize + 1
}

// RMS returns the root mean square of frame.
func (e *Energy) RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	sumSquares := 0.0
	for _, s := range frame {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}

// Decibels converts an RMS amplitude to 20*log10(rms + floor).
func (e *Energy) Decibels(rms float64) float64 {
	return 20.0 * math.Log10(rms+e.floor)
}

// ComputeShortTimeEnergy calculates RMS energy for every full frame
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	numFrames := e.NumFrames(len(signal))
	energies := make([]float64, numFrames)

	for i := range numFrames {
		start := i * e.hopSize
		energies[i] = e.RMS(signal[start : start+e.frameSize])
	}

	return energies
}

// ComputeLogEnergy calculates frame energies in dB
func (e *Energy) ComputeLogEnergy(signal []float64) []float64 {
	energies := e.ComputeShortTimeEnergy(signal)
	for i, rms := range energies {
		energies[i] = e.Decibels(rms)
	}
	return energies
}
