package highlights

import (
	"math"
	"sort"

	"github.com/RyanBlaney/courtside/algorithms/peaks"
	"github.com/RyanBlaney/courtside/algorithms/stats"
	"github.com/RyanBlaney/courtside/logging"
)

// CandidatePredicate classifies a peak candidate.
type CandidatePredicate func(PeakCandidate) bool

// WhistlePredicate reports candidates whose whistle ratio exceeds threshold.
func WhistlePredicate(threshold float64) CandidatePredicate {
	return func(c PeakCandidate) bool {
		return c.WhistleRatio > threshold
	}
}

// Partition splits candidates into those matching pred and the rest,
// preserving order in both.
func Partition(candidates []PeakCandidate, pred CandidatePredicate) (matched, rest []PeakCandidate) {
	for _, c := range candidates {
		if pred(c) {
			matched = append(matched, c)
		} else {
			rest = append(rest, c)
		}
	}
	return matched, rest
}

// LoudnessThreshold returns the given percentile of the track's dB values.
func LoudnessThreshold(frames []EnergyFrame, percentile float64, method stats.PercentileMethod) (float64, error) {
	values := make([]float64, len(frames))
	for i, f := range frames {
		values[i] = f.RMSDB
	}
	return stats.NewPercentilesWithMethod(method).CalculatePercentile(values, percentile)
}

// LoudPeaks returns local loudness maxima at or above height, at least
// distance frames apart, in time order.
func LoudPeaks(frames []EnergyFrame, height float64, distance int) []PeakCandidate {
	values := make([]float64, len(frames))
	for i, f := range frames {
		values[i] = f.RMSDB
	}

	indices := peaks.Find(values, peaks.Options{Height: height, Distance: distance})
	candidates := make([]PeakCandidate, len(indices))
	for i, idx := range indices {
		f := frames[idx]
		candidates[i] = PeakCandidate{
			Index:        idx,
			Time:         f.StartTime,
			IntensityDB:  f.RMSDB,
			WhistleRatio: f.WhistleRatio,
		}
	}
	return candidates
}

// frameDistance converts a minimum gap in seconds to a frame count. The
// spacing is measured from the first two frames, falling back to
// cfg.HopSeconds for shorter tracks.
func frameDistance(frames []EnergyFrame, cfg SelectorConfig) int {
	hop := cfg.HopSeconds
	if len(frames) >= 2 {
		hop = frames[1].StartTime - frames[0].StartTime
	}
	if hop <= 0 || cfg.MinSeparationSeconds <= 0 {
		return 0
	}
	return int(math.Ceil(cfg.MinSeparationSeconds/hop - 1e-9))
}

// Rank orders candidates by descending intensity, earliest first on ties,
// and keeps at most topN.
func Rank(candidates []PeakCandidate, topN int) []SelectedHighlight {
	if topN <= 0 {
		return []SelectedHighlight{}
	}

	ranked := make([]PeakCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IntensityDB != ranked[j].IntensityDB {
			return ranked[i].IntensityDB > ranked[j].IntensityDB
		}
		return ranked[i].Time < ranked[j].Time
	})

	n := min(topN, len(ranked))
	out := make([]SelectedHighlight, n)
	for i := range n {
		out[i] = SelectedHighlight{Time: ranked[i].Time, IntensityDB: ranked[i].IntensityDB}
	}
	return out
}

// SelectDetailed runs peak selection and returns every intermediate list.
func SelectDetailed(frames []EnergyFrame, cfg SelectorConfig) Selection {
	if len(frames) == 0 || cfg.TopN <= 0 {
		return Selection{Highlights: []SelectedHighlight{}}
	}

	threshold, err := LoudnessThreshold(frames, cfg.Percentile, cfg.PercentileMethod)
	if err != nil {
		logging.Warn("Falling back to the loudest frame as threshold", logging.Fields{
			"component":  "highlights",
			"function":   "SelectDetailed",
			"percentile": cfg.Percentile,
			"error":      err.Error(),
		})
		threshold, _ = LoudnessThreshold(frames, 100, stats.Linear)
	}

	candidates := LoudPeaks(frames, threshold, frameDistance(frames, cfg))
	whistles, kept := Partition(candidates, WhistlePredicate(cfg.WhistleThreshold))

	sel := Selection{
		Threshold:  threshold,
		Candidates: candidates,
		Whistles:   whistles,
		Highlights: Rank(kept, cfg.TopN),
	}

	logging.Debug("Peaks selected", logging.Fields{
		"component":    "highlights",
		"function":     "SelectDetailed",
		"threshold_db": threshold,
		"peaks":        len(candidates),
		"whistles":     len(whistles),
		"selected":     len(sel.Highlights),
	})

	return sel
}

// Select returns at most cfg.TopN non-whistle loudness peaks, loudest first.
func Select(frames []EnergyFrame, cfg SelectorConfig) []SelectedHighlight {
	return SelectDetailed(frames, cfg).Highlights
}
