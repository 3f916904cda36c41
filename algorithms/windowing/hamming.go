package windowing

import "math"

// Hamming is the 0.54/0.46 raised-cosine taper. The symmetric form matches
// numpy.hamming and is the default taper for whistle detection.
type Hamming struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hamming) generate() {
	h.coefficients = make([]float64, h.size)

	d := denominator(h.size, h.symmetric)
	if d == 0 {
		for i := range h.coefficients {
			h.coefficients[i] = 1.0
		}
		return
	}

	for i := range h.size {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/d)
	}
}

// Apply applies the window to a signal (creates new array)
func (h *Hamming) Apply(signal []float64) []float64 {
	return applyCoefficients(signal, h.coefficients)
}

// ApplyInPlace applies the window to a signal in-place
func (h *Hamming) ApplyInPlace(signal []float64) error {
	return applyCoefficientsInPlace(signal, h.coefficients)
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hamming) GetCoefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

func (h *Hamming) GetSize() int {
	return h.size
}

func (h *Hamming) GetType() string {
	return string(TypeHamming)
}
