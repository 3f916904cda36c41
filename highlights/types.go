// Package highlights finds loud, non-whistle moments in game audio.
//
// The pipeline has two stages: Analyze turns a mono sample buffer into a
// feature track of EnergyFrames (loudness plus a referee-whistle score),
// and Select picks well separated loudness peaks from that track, drops
// the whistle-like ones and ranks the rest.
package highlights

import (
	"github.com/RyanBlaney/courtside/algorithms/stats"
	"github.com/RyanBlaney/courtside/algorithms/windowing"
)

// SampleBuffer is decoded mono audio normalised to [-1, 1].
type SampleBuffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	// Channels must be 1; zero is read as mono.
	Channels int `json:"channels"`
}

// Duration returns the buffer length in seconds.
func (b SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// EnergyFrame is one sliding-window observation of the feature track.
type EnergyFrame struct {
	StartTime    float64 `json:"start_time"`
	RMSDB        float64 `json:"rms_db"`
	WhistleRatio float64 `json:"whistle_ratio"`
}

// PeakCandidate is a loudness peak before whistle filtering.
type PeakCandidate struct {
	Index        int     `json:"index"`
	Time         float64 `json:"time"`
	IntensityDB  float64 `json:"intensity_db"`
	WhistleRatio float64 `json:"whistle_ratio"`
}

// SelectedHighlight is a ranked audio highlight anchor.
type SelectedHighlight struct {
	Time        float64 `json:"time"`
	IntensityDB float64 `json:"intensity_db"`
}

// Selection keeps every intermediate result of Select for reporting.
type Selection struct {
	Threshold  float64             `json:"threshold_db"`
	Candidates []PeakCandidate     `json:"candidates"`
	Whistles   []PeakCandidate     `json:"whistles"`
	Highlights []SelectedHighlight `json:"highlights"`
}

// AnalyzerConfig controls feature extraction.
type AnalyzerConfig struct {
	WindowSeconds float64        `json:"window_seconds"`
	HopSeconds    float64        `json:"hop_seconds"`
	WhistleLowHz  float64        `json:"whistle_low_hz"`
	WhistleHighHz float64        `json:"whistle_high_hz"`
	Taper         windowing.Type `json:"taper"`
}

// DefaultAnalyzerConfig returns 0.5 s windows every 0.1 s with a 2-4 kHz
// whistle band and a Hamming taper.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		WindowSeconds: 0.5,
		HopSeconds:    0.1,
		WhistleLowHz:  2000,
		WhistleHighHz: 4000,
		Taper:         windowing.TypeHamming,
	}
}

// SelectorConfig controls peak selection.
type SelectorConfig struct {
	TopN                 int                    `json:"top_n"`
	MinSeparationSeconds float64                `json:"min_separation_seconds"`
	WhistleThreshold     float64                `json:"whistle_threshold"`
	Percentile           float64                `json:"percentile"`
	PercentileMethod     stats.PercentileMethod `json:"percentile_method"`
	// HopSeconds is the frame spacing used when the track has fewer than
	// two frames to measure it from.
	HopSeconds float64 `json:"hop_seconds"`
}

// DefaultSelectorConfig returns the top 10 peaks at least a minute apart.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		TopN:                 10,
		MinSeparationSeconds: 60,
		WhistleThreshold:     0.4,
		Percentile:           95,
		PercentileMethod:     stats.Linear,
		HopSeconds:           0.1,
	}
}
