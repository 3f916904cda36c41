package windowing

import "fmt"

// Type names a taper applied before spectral analysis.
type Type string

const (
	TypeHamming     Type = "hamming"
	TypeHann        Type = "hann"
	TypeRectangular Type = "rectangular"
)

// Window is a fixed-size taper.
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
}

// New returns a symmetric window of the given type and size.
func New(t Type, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", size)
	}
	switch t {
	case TypeHamming, "":
		return NewHamming(size, true), nil
	case TypeHann:
		return NewHann(size, true), nil
	case TypeRectangular:
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window type %q", t)
	}
}

// applyCoefficients multiplies signal by coeffs into a new slice.
func applyCoefficients(signal, coeffs []float64) []float64 {
	if len(signal) != len(coeffs) {
		return nil
	}
	windowed := make([]float64, len(coeffs))
	for i, c := range coeffs {
		windowed[i] = signal[i] * c
	}
	return windowed
}

func applyCoefficientsInPlace(signal, coeffs []float64) error {
	if len(signal) != len(coeffs) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coeffs))
	}
	for i, c := range coeffs {
		signal[i] *= c
	}
	return nil
}

// denominator returns the cosine period for a size-n window; zero means
// the window degenerates to a single unit coefficient.
func denominator(n int, symmetric bool) float64 {
	if symmetric {
		return float64(n - 1)
	}
	return float64(n)
}

func copyCoefficients(coeffs []float64) []float64 {
	out := make([]float64, len(coeffs))
	copy(out, coeffs)
	return out
}
