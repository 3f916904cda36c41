package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps mjibson/go-dsp for real-valued frames.
type FFT struct {
	sampleRate int
}

// NewFFT creates an FFT calculator for signals sampled at sampleRate Hz.
func NewFFT(sampleRate int) *FFT {
	return &FFT{sampleRate: sampleRate}
}

// Compute returns the full complex spectrum of x.
// go-dsp handles all sizes, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Magnitude returns |X[k]| for the non-negative frequency bins
// k = 0..n/2, the same bins numpy.fft.rfft yields.
func (f *FFT) Magnitude(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	spectrum := f.Compute(x)
	bins := n/2 + 1
	mags := make([]float64, bins)
	for k := range bins {
		mags[k] = cmplx.Abs(spectrum[k])
	}
	return mags
}

// BinFrequencies returns the centre frequency of each magnitude bin for an
// n-sample frame (numpy.fft.rfftfreq).
func (f *FFT) BinFrequencies(n int) []float64 {
	if n <= 0 || f.sampleRate <= 0 {
		return []float64{}
	}
	bins := n/2 + 1
	freqs := make([]float64, bins)
	step := float64(f.sampleRate) / float64(n)
	for k := range bins {
		freqs[k] = float64(k) * step
	}
	return freqs
}
