package windowing

// Rectangular leaves the signal untouched; useful to compare whistle ratios
// without spectral leakage suppression.
type Rectangular struct {
	size         int
	coefficients []float64
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{size: size, coefficients: make([]float64, size)}
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
	return r
}

func (r *Rectangular) Apply(signal []float64) []float64 {
	if len(signal) != r.size {
		return nil
	}
	windowed := make([]float64, r.size)
	copy(windowed, signal)
	return windowed
}

func (r *Rectangular) ApplyInPlace(signal []float64) error {
	return applyCoefficientsInPlace(signal, r.coefficients)
}

func (r *Rectangular) GetCoefficients() []float64 {
	return copyCoefficients(r.coefficients)
}

func (r *Rectangular) GetSize() int {
	return r.size
}

func (r *Rectangular) GetType() string {
	return string(TypeRectangular)
}
