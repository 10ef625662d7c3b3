package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// sturges returns the default bin count for n samples.
func sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// binEdges spans [min, max] of xs with bins equal-width bins.
// A constant column gets a single unit-wide bin around its value.
func binEdges(xs []float64, bins int) []float64 {
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		lo, hi, bins = lo-0.5, hi+0.5, 1
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi
	return edges
}

// countBins counts sorted values into the bins described by edges.
// The last bin is closed on the right.
func countBins(sorted, edges []float64) []int {
	dividers := append([]float64(nil), edges...)
	last := len(dividers) - 1
	dividers[last] = math.Nextafter(dividers[last], math.Inf(1))

	weights := stat.Histogram(nil, dividers, sorted, nil)
	counts := make([]int, len(weights))
	for i, w := range weights {
		counts[i] = int(w)
	}
	return counts
}

type boxStats struct {
	min, q1, median, q3, max   float64
	lowerWhisker, upperWhisker float64
	lowerFence, upperFence     float64
	outliers                   []float64
}

// summarize computes Tukey box statistics. min and max are the group
// extremes; whiskers reach the most extreme values inside 1.5 IQR of the
// quartiles.
func summarize(values []float64) boxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var b boxStats
	if len(sorted) == 1 {
		v := sorted[0]
		return boxStats{
			min: v, q1: v, median: v, q3: v, max: v,
			lowerWhisker: v, upperWhisker: v,
			lowerFence: v, upperFence: v,
			outliers: []float64{},
		}
	}

	b.q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	b.median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	b.q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := b.q3 - b.q1
	b.lowerFence = b.q1 - 1.5*iqr
	b.upperFence = b.q3 + 1.5*iqr

	b.min, b.max = sorted[0], sorted[len(sorted)-1]
	b.lowerWhisker, b.upperWhisker = b.q1, b.q3
	b.outliers = []float64{}
	for _, v := range sorted {
		switch {
		case v < b.lowerFence || v > b.upperFence:
			b.outliers = append(b.outliers, v)
		case v < b.lowerWhisker:
			b.lowerWhisker = v
		case v > b.upperWhisker:
			b.upperWhisker = v
		}
	}
	return b
}
