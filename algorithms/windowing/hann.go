package windowing

import "math"

// Hann is the raised-cosine taper reaching zero at both ends.
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)

	d := denominator(h.size, h.symmetric)
	if d == 0 {
		for i := range h.coefficients {
			h.coefficients[i] = 1.0
		}
		return
	}

	for i := range h.size {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/d))
	}
}

func (h *Hann) Apply(signal []float64) []float64 {
	return applyCoefficients(signal, h.coefficients)
}

func (h *Hann) ApplyInPlace(signal []float64) error {
	return applyCoefficientsInPlace(signal, h.coefficients)
}

func (h *Hann) GetCoefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

func (h *Hann) GetSize() int {
	return h.size
}

func (h *Hann) GetType() string {
	return string(TypeHann)
}
