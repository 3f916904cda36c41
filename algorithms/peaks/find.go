package peaks

import (
	"sort"
)

// Options controls which local maxima survive.
type Options struct {
	// Height is the minimum value a peak must reach (inclusive).
	Height float64
	// Distance is the minimum index gap between surviving peaks. Values
	// below 1 disable the constraint.
	Distance int
}

// LocalMaxima returns the indices of all local maxima in x. Flat tops are
// reported once, at their middle sample (rounded down). The first and last
// samples can never be maxima.
func LocalMaxima(x []float64) []int {
	var maxima []int
	iMax := len(x) - 1

	for i := 1; i < iMax; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}

		ahead := i + 1
		for ahead < iMax && x[ahead] == x[i] {
			ahead++
		}

		if x[ahead] < x[i] {
			left, right := i, ahead-1
			maxima = append(maxima, (left+right)/2)
			i = ahead
		}
	}

	return maxima
}

// Find picks peaks from x: local maxima at least opts.Height tall, then
// thinned so no two are closer than opts.Distance samples. Thinning visits
// peaks from tallest to shortest and removes every lower neighbour inside
// the distance, so spacing is measured on the original index axis. Among
// equal heights the later index is visited first and wins.
func Find(x []float64, opts Options) []int {
	var candidates []int
	for _, idx := range LocalMaxima(x) {
		if x[idx] >= opts.Height {
			candidates = append(candidates, idx)
		}
	}

	if opts.Distance <= 1 || len(candidates) < 2 {
		return candidates
	}

	return selectByDistance(x, candidates, opts.Distance)
}

func selectByDistance(x []float64, candidates []int, distance int) []int {
	keep := make([]bool, len(candidates))
	for i := range keep {
		keep[i] = true
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ha, hb := x[candidates[order[a]]], x[candidates[order[b]]]
		if ha != hb {
			return ha > hb
		}
		return candidates[order[a]] > candidates[order[b]]
	})

	for _, j := range order {
		if !keep[j] {
			continue
		}

		for k := j - 1; k >= 0 && candidates[j]-candidates[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(candidates) && candidates[k]-candidates[j] < distance; k++ {
			keep[k] = false
		}
	}

	selected := make([]int, 0, len(candidates))
	for i, idx := range candidates {
		if keep[i] {
			selected = append(selected, idx)
		}
	}
	return selected
}
