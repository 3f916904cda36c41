package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyData is returned when a statistic is requested over no values.
var ErrEmptyData = errors.New("empty data")

// PercentileMethod represents different methods for calculating percentiles
type PercentileMethod int

const (
	// Linear interpolation between closest ranks (numpy default, R-7)
	Linear PercentileMethod = iota

	// Lower value of the two closest ranks
	Lower

	// Higher value of the two closest ranks
	Higher

	// Midpoint of the two closest ranks
	Midpoint
)

func (m PercentileMethod) String() string {
	switch m {
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Midpoint:
		return "midpoint"
	default:
		return "linear"
	}
}

// ParsePercentileMethod maps "linear", "lower", "higher" or "midpoint" to a method.
func ParsePercentileMethod(name string) (PercentileMethod, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "lower":
		return Lower, nil
	case "higher":
		return Higher, nil
	case "midpoint":
		return Midpoint, nil
	default:
		return Linear, fmt.Errorf("unknown percentile method %q", name)
	}
}

// Percentiles computes rank statistics over unsorted samples.
type Percentiles struct {
	method PercentileMethod
}

// NewPercentiles creates a new percentile analyzer with linear interpolation method
func NewPercentiles() *Percentiles {
	return &Percentiles{method: Linear}
}

// NewPercentilesWithMethod creates a percentile analyzer with specified method
func NewPercentilesWithMethod(method PercentileMethod) *Percentiles {
	return &Percentiles{method: method}
}

// CalculatePercentile computes a single percentile value (0-100). The input is not modified.
func (p *Percentiles) CalculatePercentile(data []float64, percentile float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}

	if percentile < 0 || percentile > 100 || math.IsNaN(percentile) {
		return 0, fmt.Errorf("percentile must be between 0 and 100, got %v", percentile)
	}

	values := make([]float64, len(data))
	copy(values, data)
	sort.Float64s(values)

	return p.fromSorted(values, percentile/100.0), nil
}

// fromSorted places the quantile q at virtual index (n-1)*q and resolves
// the two neighbouring ranks according to the method.
func (p *Percentiles) fromSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * q
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if upper >= n {
		upper = n - 1
	}
	if lower >= n {
		lower = n - 1
	}

	switch p.method {
	case Lower:
		return sorted[lower]
	case Higher:
		return sorted[upper]
	case Midpoint:
		return (sorted[lower] + sorted[upper]) / 2.0
	default:
		fraction := h - float64(lower)
		return sorted[lower] + fraction*(sorted[upper]-sorted[lower])
	}
}

// SummaryStats contains basic summary statistics
type SummaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Summarize computes summary statistics for data.
func (p *Percentiles) Summarize(data []float64) (SummaryStats, error) {
	if len(data) == 0 {
		return SummaryStats{}, ErrEmptyData
	}

	median, err := p.CalculatePercentile(data, 50)
	if err != nil {
		return SummaryStats{}, err
	}

	summary := SummaryStats{
		Count:  len(data),
		Mean:   stat.Mean(data, nil),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Median: median,
	}
	if len(data) > 1 {
		summary.StdDev = stat.StdDev(data, nil)
	}
	return summary, nil
}
