package spectral

import (
	"gonum.org/v1/gonum/floats"
)

// BandRatio measures what fraction of a magnitude spectrum falls inside an
// inclusive frequency band. Referee whistles put most of their energy
// between 2 and 4 kHz, while crowd noise is broadband.
type BandRatio struct {
	lowHz  float64
	highHz float64
}

// NewBandRatio creates a band ratio calculator for [lowHz, highHz].
func NewBandRatio(lowHz, highHz float64) *BandRatio {
	return &BandRatio{lowHz: lowHz, highHz: highHz}
}

// Compute returns sum(mag in band) / sum(mag), or 0 when the spectrum is silent.
func (b *BandRatio) Compute(magnitude, freqs []float64) float64 {
	if len(magnitude) == 0 || len(magnitude) != len(freqs) {
		return 0.0
	}

	total := floats.Sum(magnitude)
	if total <= 0 {
		return 0.0
	}

	inBand := 0.0
	for i, f := range freqs {
		if f >= b.lowHz && f <= b.highHz {
			inBand += magnitude[i]
		}
	}
	return inBand / total
}
